package plates

import (
	"errors"
	"fmt"
)

// Error kinds returned by the calculator. Callers match the kind with
// errors.Is; the specific reasons wrap one of the two kinds.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInfeasible   = errors.New("infeasible load")
)

var (
	ErrNotANumber     = fmt.Errorf("%w: weight is not a number", ErrInvalidInput)
	ErrNotPositive    = fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	ErrTooHeavy       = fmt.Errorf("%w: weight above maximum", ErrInvalidInput)
	ErrUnknownBarbell = fmt.Errorf("%w: unknown barbell type", ErrInvalidInput)

	ErrBelowMinimum  = fmt.Errorf("%w: target below minimum loadable weight", ErrInfeasible)
	ErrNoCombination = fmt.Errorf("%w: no exact combination", ErrInfeasible)
)

// Kind reports the error kind as a stable string for API responses.
// It returns "" for errors that did not come from this package.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInfeasible):
		return "infeasible"
	default:
		return ""
	}
}
