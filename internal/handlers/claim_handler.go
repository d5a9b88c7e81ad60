package handlers

import (
	"net/http"
	"strconv"

	"insurance-service/internal/models"
	"insurance-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type ClaimHandler struct {
	claimService *services.ClaimService
}

func NewClaimHandler(claimService *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

func (h *ClaimHandler) Register(app *fiber.App) {
	group := app.Group("insurance/api/v1/claims")

	group.Post("/", h.SubmitClaim)             // POST /claims
	group.Get("/:id", h.GetClaim)              // GET  /claims/:id
	group.Post("/:id/process", h.ProcessClaim) // POST /claims/:id/process
	group.Post("/:id/pay", h.PayClaim)         // POST /claims/:id/pay
}

func parseClaimID(c fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// SubmitClaim files a claim under the caller's policy.
func (h *ClaimHandler) SubmitClaim(c fiber.Ctx) error {
	caller := callerID(c)
	if caller == "" {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("NOT_AUTHORIZED", "Caller identity is required"))
	}

	var req models.SubmitClaimRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	claim, err := h.claimService.SubmitClaim(c.Context(), caller, req.PolicyID)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(claim))
}

// GetClaim returns a claim record.
func (h *ClaimHandler) GetClaim(c fiber.Ctx) error {
	claimID, ok := parseClaimID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid claim ID"))
	}

	claim := h.claimService.GetClaim(claimID)
	if claim == nil {
		return c.Status(http.StatusNotFound).JSON(
			models.CreateErrorResponse("CLAIM_NOT_FOUND", "Claim not found"))
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(claim))
}

// ProcessClaim re-validates and approves (or rejects) a pending claim.
func (h *ClaimHandler) ProcessClaim(c fiber.Ctx) error {
	claimID, ok := parseClaimID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid claim ID"))
	}

	claim, err := h.claimService.ProcessClaim(c.Context(), callerID(c), claimID)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(claim))
}

// PayClaim settles an approved claim (administrator only).
func (h *ClaimHandler) PayClaim(c fiber.Ctx) error {
	claimID, ok := parseClaimID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid claim ID"))
	}

	claim, err := h.claimService.PayClaim(c.Context(), callerID(c), claimID)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(claim))
}
