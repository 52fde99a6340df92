package shortener

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before the generator or store is touched.
	ErrValidation = errors.New("validation failed")
	ErrInvalidURL = fmt.Errorf("%w: url must not be empty", ErrValidation)
	ErrNoCodes    = fmt.Errorf("%w: at least one code is required", ErrValidation)

	// ErrGenerationExhausted is returned when every attempt produced a bound code.
	ErrGenerationExhausted = errors.New("code generation attempts exhausted")

	// ErrStoreUnavailable wraps any durable store failure.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCodeTaken is reported by a store whose insert detected an existing binding.
	ErrCodeTaken = errors.New("code already bound")
)

// StoreError wraps a backend failure so callers can match ErrStoreUnavailable.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
