package services

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"santa/internal/matching"
	"santa/internal/models"
	"santa/internal/reveal"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateEmpty State = iota
	StateParticipantsSet
	StateAssigned
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateParticipantsSet:
		return "participants_set"
	case StateAssigned:
		return "assigned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session holds the participants and the current draw of one round.
// Methods are safe for concurrent use; each call is applied atomically.
type Session struct {
	mu           sync.Mutex
	solver       *matching.Solver
	participants []models.Participant
	assignments  []models.Assignment
	state        State
}

// NewSession creates an empty session that draws with solver.
func NewSession(solver *matching.Solver) *Session {
	return &Session{solver: solver}
}

// SetParticipants replaces the participant list and drops the current draw.
// Tokens handed out earlier stay decodable.
func (s *Session) SetParticipants(participants []models.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants = cloneParticipants(participants)
	s.assignments = nil
	if len(s.participants) == 0 {
		s.state = StateEmpty
	} else {
		s.state = StateParticipantsSet
	}
}

// CreateAssignments draws a new round for the current participants and
// replaces the previous draw. Solver errors are returned unchanged and leave the
// previous draw in place.
func (s *Session) CreateAssignments() ([]models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignments, err := s.solver.Solve(s.participants)
	if err != nil {
		return nil, err
	}
	if err := matching.Validate(s.participants, assignments); err != nil {
		return nil, fmt.Errorf("solver returned a broken draw: %w", err)
	}

	for i := range assignments {
		assignments[i].Token = reveal.Encode(assignments[i].Giver, assignments[i].Receiver)
	}
	s.assignments = assignments
	s.state = StateAssigned

	return append([]models.Assignment(nil), assignments...), nil
}

// Decode reads a reveal token. It does not look at session state.
func (s *Session) Decode(token string) (models.Pair, bool) {
	return reveal.Decode(token)
}

// Reset returns the session to StateEmpty.
func (s *Session) Reset() {
	s.SetParticipants(nil)
}

// Participants returns a copy of the participant list.
func (s *Session) Participants() []models.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneParticipants(s.participants)
}

// Assignments returns a copy of the current draw in giver input order.
func (s *Session) Assignments() []models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Assignment{}, s.assignments...)
}

// SortedAssignments returns the current draw ordered by giver name.
func (s *Session) SortedAssignments() []models.Assignment {
	assignments := s.Assignments()
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(assignments, func(i, j int) bool {
		return c.CompareString(assignments[i].Giver, assignments[j].Giver) < 0
	})
	return assignments
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func cloneParticipants(participants []models.Participant) []models.Participant {
	out := make([]models.Participant, len(participants))
	for i, p := range participants {
		if p.Exclusions != nil {
			p.Exclusions = append(make([]string, 0, len(p.Exclusions)), p.Exclusions...)
		}
		out[i] = p
	}
	return out
}
