package matching

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Solver.
var (
	// ErrInsufficientParticipants is returned when fewer than two participants have a name.
	ErrInsufficientParticipants = errors.New("at least two participants are required")

	// ErrInfeasibleAssignment is returned when no valid assignment could be found.
	// Use errors.As with *InfeasibleError for details.
	ErrInfeasibleAssignment = errors.New("no valid assignment could be found")

	// ErrDuplicateParticipant is returned when two participants share a name.
	ErrDuplicateParticipant = errors.New("duplicate participant name")

	// ErrInvalidAssignment is returned by Validate when an assignment breaks a constraint.
	ErrInvalidAssignment = errors.New("invalid assignment")
)

// InfeasibleError describes why a draw failed.
// Participant is set when the pre-check found someone with no permissible receiver;
// otherwise Attempts holds how many search rounds were spent.
type InfeasibleError struct {
	Participant string
	Attempts    int
}

func (e *InfeasibleError) Error() string {
	if e.Participant != "" {
		return fmt.Sprintf("%s: %q has nobody left to give to, loosen exclusions or pairings",
			ErrInfeasibleAssignment, e.Participant)
	}
	return fmt.Sprintf("%s after %d attempts, loosen exclusions or pairings",
		ErrInfeasibleAssignment, e.Attempts)
}

func (e *InfeasibleError) Unwrap() error {
	return ErrInfeasibleAssignment
}
