package matching

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santa/internal/models"
)

func names(ns ...string) []models.Participant {
	ps := make([]models.Participant, len(ns))
	for i, n := range ns {
		ps[i] = models.Participant{Name: n}
	}
	return ps
}

func couple(a, b string) []models.Participant {
	return []models.Participant{
		{Name: a, Partner: b, Exclusions: []string{b}},
		{Name: b, Partner: a, Exclusions: []string{a}},
	}
}

func TestSolver_Solve(t *testing.T) {
	solver := NewSolver()

	t.Run("two participants swap", func(t *testing.T) {
		got, err := solver.Solve(names("A", "B"))
		require.NoError(t, err)
		assert.Equal(t, []models.Assignment{
			{Giver: "A", Receiver: "B"},
			{Giver: "B", Receiver: "A"},
		}, got)
	})

	t.Run("three participants have no fixed point", func(t *testing.T) {
		ps := names("A", "B", "C")
		for i := 0; i < 50; i++ {
			got, err := solver.Solve(ps)
			require.NoError(t, err)
			require.NoError(t, Validate(ps, got))
			for _, a := range got {
				require.NotEqual(t, a.Giver, a.Receiver)
			}
		}
	})

	t.Run("explicit exclusion is honored", func(t *testing.T) {
		ps := []models.Participant{
			{Name: "Alex", Exclusions: []string{"Sam"}},
			{Name: "Sam"},
			{Name: "Taylor"},
		}
		for i := 0; i < 100; i++ {
			got, err := solver.Solve(ps)
			require.NoError(t, err)
			require.NoError(t, Validate(ps, got))
			assert.NotContains(t, got, models.Assignment{Giver: "Alex", Receiver: "Sam"})
		}
	})

	t.Run("exclusion matching ignores case and whitespace", func(t *testing.T) {
		ps := []models.Participant{
			{Name: "Alex", Exclusions: []string{"  SAM "}},
			{Name: "sam"},
			{Name: "Taylor"},
		}
		for i := 0; i < 50; i++ {
			got, err := solver.Solve(ps)
			require.NoError(t, err)
			assert.NotContains(t, got, models.Assignment{Giver: "Alex", Receiver: "sam"})
		}
	})

	t.Run("couples never draw each other", func(t *testing.T) {
		var ps []models.Participant
		ps = append(ps, couple("Ann", "Ben")...)
		ps = append(ps, couple("Cat", "Dan")...)
		ps = append(ps, couple("Eve", "Fin")...)
		for i := 0; i < 50; i++ {
			got, err := solver.Solve(ps)
			require.NoError(t, err)
			require.NoError(t, Validate(ps, got))
		}
	})

	t.Run("result follows input giver order", func(t *testing.T) {
		ps := names("Zed", "Amy", "Kim", "Bob")
		got, err := solver.Solve(ps)
		require.NoError(t, err)
		givers := make([]string, len(got))
		for i, a := range got {
			givers[i] = a.Giver
		}
		assert.Equal(t, []string{"Zed", "Amy", "Kim", "Bob"}, givers)
	})

	t.Run("blank names are ignored and display names trimmed", func(t *testing.T) {
		ps := names(" A ", "", "   ", "B")
		got, err := solver.Solve(ps)
		require.NoError(t, err)
		assert.Equal(t, []models.Assignment{
			{Giver: "A", Receiver: "B"},
			{Giver: "B", Receiver: "A"},
		}, got)
	})
}

func TestSolver_SolveErrors(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		opts         []Option
		wantErr      error
		validateFunc func(t *testing.T, err error)
	}{
		{
			name:         "no participants",
			participants: nil,
			wantErr:      ErrInsufficientParticipants,
		},
		{
			name:         "single participant",
			participants: names("A"),
			wantErr:      ErrInsufficientParticipants,
		},
		{
			name:         "only one non-blank name",
			participants: names("A", " ", ""),
			wantErr:      ErrInsufficientParticipants,
		},
		{
			name:         "duplicate names differing in case",
			participants: names("Alex", " alex", "Sam"),
			wantErr:      ErrDuplicateParticipant,
		},
		{
			name:         "two partners",
			participants: couple("A", "B"),
			wantErr:      ErrInfeasibleAssignment,
			validateFunc: func(t *testing.T, err error) {
				var infeasible *InfeasibleError
				require.True(t, errors.As(err, &infeasible))
				assert.Equal(t, "A", infeasible.Participant)
			},
		},
		{
			name: "everyone excluded",
			participants: []models.Participant{
				{Name: "A"},
				{Name: "B"},
				{Name: "C", Exclusions: []string{"a", "b"}},
			},
			wantErr: ErrInfeasibleAssignment,
			validateFunc: func(t *testing.T, err error) {
				var infeasible *InfeasibleError
				require.True(t, errors.As(err, &infeasible))
				assert.Equal(t, "C", infeasible.Participant)
			},
		},
		{
			name: "passes pre-check but has no bijection",
			participants: []models.Participant{
				{Name: "A", Exclusions: []string{"B"}},
				{Name: "B", Exclusions: []string{"A"}},
				{Name: "C"},
			},
			opts:    []Option{WithAttempts(5)},
			wantErr: ErrInfeasibleAssignment,
			validateFunc: func(t *testing.T, err error) {
				var infeasible *InfeasibleError
				require.True(t, errors.As(err, &infeasible))
				assert.Empty(t, infeasible.Participant)
				assert.Equal(t, 5, infeasible.Attempts)
			},
		},
		{
			name:         "step budget too small to finish",
			participants: names("A", "B", "C"),
			opts:         []Option{WithAttempts(3), WithStepLimit(1)},
			wantErr:      ErrInfeasibleAssignment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSolver(tt.opts...).Solve(tt.participants)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.validateFunc != nil {
				tt.validateFunc(t, err)
			}
		})
	}
}

func TestSolver_SeededIsReproducible(t *testing.T) {
	ps := names("A", "B", "C", "D", "E", "F", "G")

	first, err := NewSolver(WithRand(rand.New(rand.NewSource(42)))).Solve(ps)
	require.NoError(t, err)
	second, err := NewSolver(WithRand(rand.New(rand.NewSource(42)))).Solve(ps)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSolver_LargeGroup(t *testing.T) {
	var ps []models.Participant
	for i := 0; i < 100; i++ {
		ps = append(ps, models.Participant{Name: string(rune('A'+i%26)) + string(rune('a'+i/26))})
	}
	got, err := NewSolver().Solve(ps)
	require.NoError(t, err)
	require.NoError(t, Validate(ps, got))
}

func TestNewSolver_Options(t *testing.T) {
	assert.Equal(t, DefaultAttempts, NewSolver().Attempts())
	assert.Equal(t, 7, NewSolver(WithAttempts(7)).Attempts())
	assert.Equal(t, DefaultAttempts, NewSolver(WithAttempts(0)).Attempts())
}
