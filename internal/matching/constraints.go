// Package matching draws Secret Santa assignments under exclusion constraints.
package matching

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"santa/internal/models"
)

// Normalize returns the comparison key for a name: trimmed, NFC composed and case folded.
// Display names are never replaced by their key.
func Normalize(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	// A Caser is stateful, so a fresh one is used per call.
	return cases.Fold().String(norm.NFC.String(trimmed))
}

// ForbiddenSet returns the normalized names p must not receive: p itself, p's partner,
// p's explicit exclusions, and anyone in all who declared p as their partner.
func ForbiddenSet(p models.Participant, all []models.Participant) map[string]struct{} {
	self := Normalize(p.Name)
	forbidden := map[string]struct{}{self: {}}

	add := func(name string) {
		if key := Normalize(name); key != "" {
			forbidden[key] = struct{}{}
		}
	}

	add(p.Partner)
	for _, name := range p.Exclusions {
		add(name)
	}
	for _, other := range all {
		if other.Partner != "" && Normalize(other.Partner) == self {
			add(other.Name)
		}
	}

	return forbidden
}
