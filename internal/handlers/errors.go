package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/shortener"
)

// toHTTPError maps service errors onto transport status codes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, shortener.ErrValidation):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, shortener.ErrStoreUnavailable):
		return huma.Error503ServiceUnavailable("store unavailable")
	case errors.Is(err, shortener.ErrGenerationExhausted):
		return huma.Error500InternalServerError("could not allocate a unique code")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}

func isValidation(err error) bool {
	return errors.Is(err, shortener.ErrValidation)
}
