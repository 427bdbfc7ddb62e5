package session

import (
	"errors"
	"sync"

	"ai-content-planner/internal/planner"
	"ai-content-planner/internal/profile"
)

// ErrNoForm is returned by WithForm when no form was started.
var ErrNoForm = errors.New("no form in progress")

// Session is the per-chat state of the bot. Sessions never share plans.
type Session struct {
	ChatID    int64
	Form      *profile.Form
	View      View
	Generator planner.PlanGenerator

	mu sync.Mutex
}

// StartForm replaces any form in progress and clears the shown plan.
func (s *Session) StartForm() *profile.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Form = profile.NewForm()
	s.View.Reset()
	return s.Form
}

// WithForm runs fn on the form in progress while holding the session lock.
func (s *Session) WithForm(fn func(f *profile.Form) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Form == nil {
		return ErrNoForm
	}
	return fn(s.Form)
}

// FinishForm drops the form once its profile was submitted.
func (s *Session) FinishForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Form = nil
}

// Store keeps sessions in memory, keyed by chat ID.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	newGen   func() planner.PlanGenerator
}

// NewStore creates a Store. Each new session gets its own guarded generator
// built from gen, so one chat's request never blocks another's.
func NewStore(gen planner.PlanGenerator) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		newGen: func() planner.PlanGenerator {
			return planner.NewExclusive(gen)
		},
	}
}

// Get returns the session for chatID, creating it on first use.
func (s *Store) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{ChatID: chatID, Generator: s.newGen()}
		s.sessions[chatID] = sess
	}
	return sess
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
