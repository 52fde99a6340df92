package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// CodeGenerator generates candidate short codes.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of uniformly random codes of the given length over Alphabet.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length <= 0 {
		return nil, fmt.Errorf("code length must be positive, got %d", length)
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create code generator: %w", err)
	}

	return gen, nil
}
