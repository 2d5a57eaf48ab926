package observe

import (
	"fmt"
	"strings"
)

// ToName converts s to canonical form: upper case with spaces and dashes
// collapsed to underscores. Lookups and equality checks always go through
// the canonical form so that "time rate", "TIME_RATE" and "time-rate"
// identify the same parameter.
func ToName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ToUpper(s)
}

// ValidName returns the canonical form of s, or an error if the result
// contains characters outside [A-Z0-9_] or is empty.
func ValidName(s string) (string, error) {
	name := ToName(s)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	for _, r := range name {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
		}
	}
	return name, nil
}
