package handlers

import (
	"net/http"
	"strconv"

	"insurance-service/internal/models"
	"insurance-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type OracleHandler struct {
	oracleService *services.OracleService
}

func NewOracleHandler(oracleService *services.OracleService) *OracleHandler {
	return &OracleHandler{oracleService: oracleService}
}

func (h *OracleHandler) Register(app *fiber.App) {
	group := app.Group("insurance/api/v1/oracles")

	group.Post("/", h.RegisterOracle)                 // POST   /oracles
	group.Post("/:id/deactivate", h.DeactivateOracle) // POST   /oracles/:id/deactivate
	group.Post("/:id/data", h.SubmitObservation)      // POST   /oracles/:id/data
	group.Get("/:id", h.GetOracle)                    // GET    /oracles/:id
	group.Get("/:id/data/latest", h.GetLatestData)    // GET    /oracles/:id/data/latest
	group.Get("/:id/data/:index", h.GetData)          // GET    /oracles/:id/data/:index
}

// RegisterOracle registers a trusted data provider (administrator only).
func (h *OracleHandler) RegisterOracle(c fiber.Ctx) error {
	var req models.RegisterOracleRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	oracle, err := h.oracleService.RegisterOracle(c.Context(), callerID(c), req)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(oracle))
}

// DeactivateOracle flips the oracle's active flag (administrator only).
func (h *OracleHandler) DeactivateOracle(c fiber.Ctx) error {
	oracle, err := h.oracleService.DeactivateOracle(c.Context(), callerID(c), c.Params("id"))
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(oracle))
}

// SubmitObservation accepts a measurement from the oracle's operator.
func (h *OracleHandler) SubmitObservation(c fiber.Ctx) error {
	var req models.SubmitObservationRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}

	obs, err := h.oracleService.SubmitObservation(c.Context(), callerID(c), c.Params("id"), req)
	if err != nil {
		return respondEngineError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(models.CreateSuccessResponse(obs))
}

// GetOracle returns the oracle record.
func (h *OracleHandler) GetOracle(c fiber.Ctx) error {
	oracle := h.oracleService.GetOracle(c.Params("id"))
	if oracle == nil {
		return c.Status(http.StatusNotFound).JSON(
			models.CreateErrorResponse("ORACLE_NOT_REGISTERED", "Oracle not found"))
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(oracle))
}

// GetData returns the observation at a specific block index.
func (h *OracleHandler) GetData(c fiber.Ctx) error {
	index, err := strconv.ParseUint(c.Params("index"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_PARAMETERS", "Invalid block index"))
	}

	obs := h.oracleService.GetObservation(c.Params("id"), index)
	if obs == nil {
		return c.Status(http.StatusNotFound).JSON(
			models.CreateErrorResponse("NO_ORACLE_DATA", "No observation at this index"))
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(obs))
}

// GetLatestData returns the oracle's most recent observation.
func (h *OracleHandler) GetLatestData(c fiber.Ctx) error {
	obs := h.oracleService.GetLatestObservation(c.Context(), c.Params("id"))
	if obs == nil {
		return c.Status(http.StatusNotFound).JSON(
			models.CreateErrorResponse("NO_ORACLE_DATA", "Oracle has not submitted any data"))
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(obs))
}
