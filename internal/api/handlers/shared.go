package handlers

import (
	"errors"
	"net/http"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/api/response"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/apperrors"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.RespondJSON(w, status, data)
}

// respondError sends a structured error response with the given status code
func respondError(w http.ResponseWriter, status int, message string, details interface{}) {
	response.RespondError(w, status, message, details)
}

// respondServiceError maps service-layer errors to HTTP status codes:
// missing entities map to 404, business-rule violations to 422, validation
// failures to 400, anything else to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *validation.Error

	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrTargetAllocationNotFound):
		respondError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, apperrors.ErrInsufficientShares):
		respondError(w, http.StatusUnprocessableEntity, err.Error(), "")
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "validation failed", validationErr.Fields)
	case errors.Is(err, validation.ErrInvalidUUID),
		errors.Is(err, validation.ErrEmptySlice),
		errors.Is(err, apperrors.ErrInvalidMethod):
		respondError(w, http.StatusBadRequest, "validation failed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error", err.Error())
	}
}
