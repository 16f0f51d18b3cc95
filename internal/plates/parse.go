package plates

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseWeight parses a user-entered weight such as "100", "37.5" or "37,5".
// A non-numeric string returns ErrNotANumber; zero, negative or infinite
// values return ErrNotPositive; anything above MaxTargetKg returns ErrTooHeavy.
func ParseWeight(s string) (float64, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "kg")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrNotANumber)
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	if err := validateWeight(w); err != nil {
		return 0, err
	}
	return w, nil
}

// FormatKg formats a weight without trailing zeros: 20, 2.5, 1.25.
func FormatKg(w float64) string {
	return strconv.FormatFloat(math.Round(w*1e6)/1e6, 'f', -1, 64)
}
