package matching

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"santa/internal/models"
)

// DefaultAttempts is the number of randomized search rounds before giving up.
const DefaultAttempts = 500

// Option configures a Solver.
type Option func(*Solver)

// WithAttempts sets the number of randomized search rounds. Values below 1 are ignored.
func WithAttempts(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithRand sets the random source used for shuffling.
// A seeded source makes the draw reproducible in tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Solver) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithStepLimit caps candidate tries per search round.
// Zero restores the default, which scales with the participant count.
func WithStepLimit(n int) Option {
	return func(s *Solver) {
		if n >= 0 {
			s.stepLimit = n
		}
	}
}

// Solver computes giver -> receiver bijections with a randomized, restarting
// depth-first search. It does not guarantee a uniform pick among valid assignments,
// and a bounded number of restarts is not a completeness proof: a rare valid
// assignment can be missed.
type Solver struct {
	attempts  int
	stepLimit int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSolver creates a Solver with the given options applied.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		attempts: DefaultAttempts,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attempts returns the configured number of search rounds.
func (s *Solver) Attempts() int {
	return s.attempts
}

// Solve draws a bijection over the named participants: everyone gives exactly once
// and receives exactly once. Participants with a blank name are ignored.
// The result is ordered like the givers in participants.
func (s *Solver) Solve(participants []models.Participant) ([]models.Assignment, error) {
	eligible := Eligible(participants)
	if len(eligible) < 2 {
		return nil, ErrInsufficientParticipants
	}

	seen := make(map[string]struct{}, len(eligible))
	for _, p := range eligible {
		key := Normalize(p.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.Name)
		}
		seen[key] = struct{}{}
	}

	allowed, err := permittedReceivers(eligible)
	if err != nil {
		return nil, err
	}

	limit := s.stepLimit
	if limit == 0 {
		limit = 64 + 32*len(eligible)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < s.attempts; attempt++ {
		receiverOf, ok := s.search(allowed, limit)
		if !ok {
			continue
		}
		assignments := make([]models.Assignment, len(eligible))
		for giver, receiver := range receiverOf {
			assignments[giver] = models.Assignment{
				Giver:    eligible[giver].Name,
				Receiver: eligible[receiver].Name,
			}
		}
		return assignments, nil
	}

	return nil, &InfeasibleError{Attempts: s.attempts}
}

// Eligible returns the participants with a non-blank name, names trimmed.
func Eligible(participants []models.Participant) []models.Participant {
	eligible := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		p.Name = name
		eligible = append(eligible, p)
	}
	return eligible
}

// permittedReceivers returns, per giver index, the receiver indexes outside the giver's
// forbidden set. It fails fast when any giver has none.
func permittedReceivers(eligible []models.Participant) ([][]int, error) {
	keys := make([]string, len(eligible))
	for i, p := range eligible {
		keys[i] = Normalize(p.Name)
	}

	allowed := make([][]int, len(eligible))
	for i, p := range eligible {
		forbidden := ForbiddenSet(p, eligible)
		for j, key := range keys {
			if _, no := forbidden[key]; !no {
				allowed[i] = append(allowed[i], j)
			}
		}
		if len(allowed[i]) == 0 {
			return nil, &InfeasibleError{Participant: p.Name}
		}
	}
	return allowed, nil
}

type frame struct {
	giver      int
	candidates []int
	next       int
	chosen     int
}

// search runs one randomized round. The stack never grows past len(allowed).
// It returns receiverOf indexed by giver.
func (s *Solver) search(allowed [][]int, limit int) ([]int, bool) {
	n := len(allowed)
	order := s.rng.Perm(n)
	taken := make([]bool, n)
	receiverOf := make([]int, n)
	stack := make([]frame, 0, n)

	push := func() {
		giver := order[len(stack)]
		candidates := append([]int(nil), allowed[giver]...)
		s.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		stack = append(stack, frame{giver: giver, candidates: candidates, chosen: -1})
	}

	push()
	steps := 0
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.chosen >= 0 {
			taken[top.chosen] = false
			top.chosen = -1
		}

		for top.next < len(top.candidates) {
			receiver := top.candidates[top.next]
			top.next++
			if taken[receiver] {
				continue
			}
			steps++
			if steps > limit {
				return nil, false
			}
			taken[receiver] = true
			top.chosen = receiver
			receiverOf[top.giver] = receiver
			break
		}

		if top.chosen < 0 {
			// dead end, backtrack
			stack = stack[:len(stack)-1]
			continue
		}
		if len(stack) == n {
			return receiverOf, true
		}
		push()
	}

	return nil, false
}
