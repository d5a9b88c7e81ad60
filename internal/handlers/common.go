package handlers

import (
	"errors"
	"net/http"

	"insurance-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

// callerID extracts the opaque caller identity forwarded by the gateway.
// Authentication itself is an upstream concern; the engine only compares
// identities.
func callerID(c fiber.Ctx) string {
	return c.Get("X-Caller-Id")
}

func respondEngineError(c fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(
		models.CreateErrorResponse(models.ErrorCode(err), err.Error()))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrPolicyNotFound),
		errors.Is(err, models.ErrClaimNotFound),
		errors.Is(err, models.ErrOracleNotRegistered):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientPayment),
		errors.Is(err, models.ErrPaymentFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrAlreadyClaimed),
		errors.Is(err, models.ErrPolicyNotActive),
		errors.Is(err, models.ErrPolicyExpired),
		errors.Is(err, models.ErrPolicyNotExpired):
		return http.StatusConflict
	case errors.Is(err, models.ErrClaimConditionNotMet),
		errors.Is(err, models.ErrNoOracleData),
		errors.Is(err, models.ErrNotClaimableYet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidRiskProfile),
		errors.Is(err, models.ErrInvalidCoverageAmount),
		errors.Is(err, models.ErrInvalidOracleData),
		errors.Is(err, models.ErrInvalidParameters):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
