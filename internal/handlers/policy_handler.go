package handlers

import (
	"net/http"
	"strconv"

	"insurance-service/internal/models"
	"insurance-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type PolicyHandler struct {
	policyService *services.PolicyService
	claimService  *services.ClaimService
}

func NewPolicyHandler(policyService *services.PolicyService, claimService *services.ClaimService) *PolicyHandler {
	return &PolicyHandler{
		policyService: policyService,
		claimService:  claimService,
	}
}

func (h *PolicyHandler) Register(app *fiber.App) {
	api := app.Group("insurance/api/v1")

	profiles := api.Group("/risk-profiles")
	profiles.Post("/", h.DefineRiskProfile)      // POST /risk-profiles
	profiles.Get("/:id", h.GetRiskProfile)       // GET  /risk-profiles/:id
	profiles.Get("/:id/premium", h.QuotePremium) // GET  /risk-profiles/:id/premium?coverage=

	policies := api.Group("/policies")
	policies.Post("/", h.IssuePolicy)                  // POST /policies
	policies.Get("/", h.ListPoliciesByHolder)          // GET  /policies?holder=
	policies.Get("/:id", h.GetPolicy)                  // GET  /policies/:id
	policies.Post("/:id/cancel", h.CancelPolicy)       // POST /policies/:id/cancel
	policies.Post("/:id/renew", h.RenewPolicy)         // POST /policies/:id/renew
	policies.Post("/:id/conditions", h.AddCondition)   // POST /policies/:id/conditions
	policies.Get("/:id/conditions", h.GetConditions)   // GET  /policies/:id/conditions
	policies.Get("/:id/active", h.GetPolicyActive)     // GET  /policies/:id/active
	policies.Get("/:id/claimable", h.GetClaimability)  // GET  /policies/:id/claimable
	policies.Get("/:id/claims", h.GetClaimsByPolicy)   // GET  /policies/:id/claims

	api.Get("/treasury", h.GetTreasury) // GET /treasury
}

func parsePolicyID(c fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// DefineRiskProfile registers a premium-rate template (administrator only).
func (h *PolicyHandler) DefineRiskProfile(c fiber.Ctx) error {
	var req models.DefineRiskProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	profile, err := h.policyService.DefineRiskProfile(c.Context(), callerID(c), req)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(profile))
}

// GetRiskProfile returns a premium-rate template.
func (h *PolicyHandler) GetRiskProfile(c fiber.Ctx) error {
	profile := h.policyService.GetRiskProfile(c.Params("id"))
	if profile == nil {
		return c.Status(http.StatusNotFound).JSON(
			models.CreateErrorResponse("INVALID_RISK_PROFILE", "Risk profile not found"))
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(profile))
}

// QuotePremium prices coverage under a profile without issuing anything.
func (h *PolicyHandler) QuotePremium(c fiber.Ctx) error {
	coverage, err := strconv.ParseInt(c.Query("coverage"), 10, 64)
	if err != nil || coverage < 0 {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid coverage amount"))
	}

	premium, err := h.policyService.CalculatePremium(c.Params("id"), coverage)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"risk_profile_id": c.Params("id"),
		"coverage_amount": coverage,
		"premium_amount":  premium,
	}))
}

// IssuePolicy issues a policy to the caller.
func (h *PolicyHandler) IssuePolicy(c fiber.Ctx) error {
	caller := callerID(c)
	if caller == "" {
		return c.Status(http.StatusUnauthorized).JSON(
			models.CreateErrorResponse("NOT_AUTHORIZED", "Caller identity is required"))
	}

	var req models.IssuePolicyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	policy, err := h.policyService.IssuePolicy(c.Context(), caller, req)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(policy))
}

// GetPolicy returns a policy record.
func (h *PolicyHandler) GetPolicy(c fiber.Ctx) error {
	policyID, ok := parsePolicyID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid policy ID"))
	}

	policy := h.policyService.GetPolicy(c.Context(), policyID)
	if policy == nil {
		return c.Status(http.StatusNotFound).JSON(
			models.CreateErrorResponse("POLICY_NOT_FOUND", "Policy not found"))
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(policy))
}

// ListPoliciesByHolder returns every policy a holder has been issued.
func (h *PolicyHandler) ListPoliciesByHolder(c fiber.Ctx) error {
	holder := c.Query("holder")
	if holder == "" {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "holder query parameter is required"))
	}

	policies := h.policyService.PoliciesByHolder(c.Context(), holder)
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"holder":   holder,
		"policies": policies,
		"count":    len(policies),
	}))
}

// CancelPolicy cancels the caller's active policy.
func (h *PolicyHandler) CancelPolicy(c fiber.Ctx) error {
	policyID, ok := parsePolicyID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid policy ID"))
	}

	policy, err := h.policyService.CancelPolicy(c.Context(), callerID(c), policyID)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(policy))
}

// RenewPolicy extends a lapsed auto-renew policy.
func (h *PolicyHandler) RenewPolicy(c fiber.Ctx) error {
	policyID, ok := parsePolicyID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid policy ID"))
	}

	var req models.RenewPolicyRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	policy, err := h.policyService.RenewPolicy(c.Context(), callerID(c), policyID, req)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(policy))
}

// AddCondition attaches a trigger rule to the caller's policy.
func (h *PolicyHandler) AddCondition(c fiber.Ctx) error {
	policyID, ok := parsePolicyID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid policy ID"))
	}

	var req models.AddConditionRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	cond, err := h.policyService.AddCondition(c.Context(), callerID(c), policyID, req)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(cond))
}

// GetConditions returns the policy's trigger rules.
func (h *PolicyHandler) GetConditions(c fiber.Ctx) error {
	policyID, ok := parsePolicyID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid policy ID"))
	}

	conditions := h.policyService.GetConditions(policyID)
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"policy_id":  policyID,
		"conditions": conditions,
		"count":      len(conditions),
	}))
}

// GetPolicyActive reports derived liveness at the current block index.
func (h *PolicyHandler) GetPolicyActive(c fiber.Ctx) error {
	policyID, ok := parsePolicyID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid policy ID"))
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"policy_id": policyID,
		"active":    h.policyService.IsPolicyActive(policyID),
	}))
}

// GetClaimability reports whether a claim submitted now would be accepted.
func (h *PolicyHandler) GetClaimability(c fiber.Ctx) error {
	policyID, ok := parsePolicyID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid policy ID"))
	}

	return c.Status(http.StatusOK).JSON(
		models.CreateSuccessResponse(h.claimService.Claimability(policyID)))
}

// GetClaimsByPolicy returns the policy's claims.
func (h *PolicyHandler) GetClaimsByPolicy(c fiber.Ctx) error {
	policyID, ok := parsePolicyID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid policy ID"))
	}

	claims := h.claimService.ClaimsByPolicy(policyID)
	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(map[string]any{
		"policy_id": policyID,
		"claims":    claims,
		"count":     len(claims),
	}))
}

// GetTreasury returns the aggregate premium/claims counters.
func (h *PolicyHandler) GetTreasury(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(
		models.CreateSuccessResponse(h.policyService.Treasury()))
}
