package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/domain"
)

const msgInvalidUUID = "Invalid uuid"

// getPathUUID extracts a UUID from the URL path parameters.
// A missing or malformed value is a validation error naming the parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "Required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, msgInvalidUUID, domain.ErrInvalidID)
	}
	return id, nil
}

// getRequiredQueryUUID extracts a mandatory UUID query parameter.
// A missing value is a 400 "<name> query param is required".
func getRequiredQueryUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, ok, err := getOptionalQueryUUID(r, name)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, domain.BadRequest(name + " query param is required")
	}
	return id, nil
}

// getOptionalQueryUUID extracts a UUID query parameter that may be absent.
func getOptionalQueryUUID(r *http.Request, name string) (uuid.UUID, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, domain.NewValidationError(name, msgInvalidUUID, domain.ErrInvalidID)
	}
	return id, true, nil
}
