package matching

import (
	"fmt"

	"santa/internal/models"
)

// Validate reports whether assignments is a complete bijection over the named
// participants that respects every participant's forbidden set.
func Validate(participants []models.Participant, assignments []models.Assignment) error {
	eligible := Eligible(participants)
	if len(assignments) != len(eligible) {
		return fmt.Errorf("%w: %d assignments for %d participants",
			ErrInvalidAssignment, len(assignments), len(eligible))
	}

	byKey := make(map[string]models.Participant, len(eligible))
	for _, p := range eligible {
		byKey[Normalize(p.Name)] = p
	}

	gave := make(map[string]bool, len(eligible))
	got := make(map[string]bool, len(eligible))
	for _, a := range assignments {
		giverKey, receiverKey := Normalize(a.Giver), Normalize(a.Receiver)

		giver, ok := byKey[giverKey]
		if !ok {
			return fmt.Errorf("%w: unknown giver %q", ErrInvalidAssignment, a.Giver)
		}
		if _, ok := byKey[receiverKey]; !ok {
			return fmt.Errorf("%w: unknown receiver %q", ErrInvalidAssignment, a.Receiver)
		}
		if gave[giverKey] {
			return fmt.Errorf("%w: %q gives twice", ErrInvalidAssignment, a.Giver)
		}
		if got[receiverKey] {
			return fmt.Errorf("%w: %q receives twice", ErrInvalidAssignment, a.Receiver)
		}
		if _, forbidden := ForbiddenSet(giver, eligible)[receiverKey]; forbidden {
			return fmt.Errorf("%w: %q must not give to %q", ErrInvalidAssignment, a.Giver, a.Receiver)
		}
		gave[giverKey] = true
		got[receiverKey] = true
	}

	return nil
}
