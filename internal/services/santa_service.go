package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/logger"

	"santa/internal/matching"
	"santa/internal/metrics"
	"santa/internal/models"
	"santa/internal/reveal"
	"santa/internal/roster"
)

// tenantSession is a Session plus the bookkeeping the service needs to expire it.
type tenantSession struct {
	*Session
	LastActivity time.Time
}

// SantaService manages one Session per tenant.
type SantaService struct {
	mu       sync.RWMutex
	sessions map[string]*tenantSession // Key: tenantID
	solver   *matching.Solver
	metrics  *metrics.Metrics
}

// NewSantaService creates and initializes a new SantaService.
// m may be nil, in which case nothing is recorded.
func NewSantaService(solver *matching.Solver, m *metrics.Metrics) *SantaService {
	return &SantaService{
		sessions: make(map[string]*tenantSession),
		solver:   solver,
		metrics:  m,
	}
}

// getSession returns a session for a tenant, creating one if it doesn't exist.
func (s *SantaService) getSession(tenantID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[tenantID]
	if !exists {
		session = &tenantSession{Session: NewSession(s.solver)}
		s.sessions[tenantID] = session
		s.metrics.SetActiveSessions(len(s.sessions))
	}
	session.LastActivity = time.Now()
	return session.Session
}

// SetParticipants replaces the participants of a tenant's round.
func (s *SantaService) SetParticipants(tenantID string, participants []models.Participant) {
	s.getSession(tenantID).SetParticipants(participants)
	logger.Infof("Tenant %s set %d participants", tenantID, len(participants))
}

// SetRows parses raw rows and makes them the tenant's participants.
func (s *SantaService) SetRows(tenantID string, rows []models.Row) []models.Participant {
	participants := roster.Parse(rows)
	s.SetParticipants(tenantID, participants)
	return participants
}

// GetParticipants returns the participants for a specific tenant.
func (s *SantaService) GetParticipants(tenantID string) []models.Participant {
	return s.getSession(tenantID).Participants()
}

// GetRows returns the tenant's participants regrouped into input rows.
func (s *SantaService) GetRows(tenantID string) []models.Row {
	return roster.ToRows(s.GetParticipants(tenantID))
}

// GetAssignments returns the tenant's current draw ordered by giver.
func (s *SantaService) GetAssignments(tenantID string) []models.Assignment {
	return s.getSession(tenantID).SortedAssignments()
}

// GetState returns the lifecycle state of the tenant's round.
func (s *SantaService) GetState(tenantID string) State {
	return s.getSession(tenantID).State()
}

// Draw performs the assignment draw for a specific tenant.
// The result is ordered by giver.
func (s *SantaService) Draw(tenantID string) ([]models.Assignment, error) {
	session := s.getSession(tenantID)

	start := time.Now()
	_, err := session.CreateAssignments()
	took := time.Since(start)

	if err != nil {
		s.metrics.ObserveDraw(drawResult(err), took)
		logger.Warningf("Draw failed for tenant %s: %v", tenantID, err)
		return nil, err
	}

	s.metrics.ObserveDraw(metrics.DrawOK, took)
	assignments := session.SortedAssignments()
	// Receivers stay out of the log.
	logger.Infof("Drew %d assignments for tenant %s in %s", len(assignments), tenantID, took)
	return assignments, nil
}

func drawResult(err error) string {
	switch {
	case errors.Is(err, matching.ErrInsufficientParticipants):
		return metrics.DrawInsufficient
	case errors.Is(err, matching.ErrInfeasibleAssignment):
		return metrics.DrawInfeasible
	default:
		return metrics.DrawInvalidInput
	}
}

// Reveal decodes a reveal token. No tenant is involved; tokens carry their own pair.
func (s *SantaService) Reveal(token string) (models.Pair, bool) {
	pair, ok := reveal.Decode(token)
	s.metrics.ObserveReveal(ok)
	return pair, ok
}

// CleanUpInactiveSessions removes sessions that have been inactive for longer than ttl
// and returns how many were removed.
func (s *SantaService) CleanUpInactiveSessions(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for tenantID, session := range s.sessions {
		if time.Since(session.LastActivity) > ttl {
			logger.Infof("Expiring inactive session for tenant: %s", tenantID)
			delete(s.sessions, tenantID)
			removed++
		}
	}
	s.metrics.SetActiveSessions(len(s.sessions))
	return removed
}

// ClearSession removes all data associated with a specific tenant.
func (s *SantaService) ClearSession(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tenantID)
	s.metrics.SetActiveSessions(len(s.sessions))
	logger.Infof("Cleared session for tenant: %s", tenantID)
}
