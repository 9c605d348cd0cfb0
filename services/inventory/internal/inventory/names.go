package inventory

import (
	"strings"

	"golang.org/x/text/cases"
)

// NameKey returns the lookup key used to match item, ingredient and recipe
// names: surrounding whitespace trimmed, case folded.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func unitKey(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}
