// Package session holds the in-memory conversation state of active
// flows. A user has at most one live session; starting a new flow
// overwrites whatever was there. Sessions are never persisted and never
// expire on their own — only completion, cancellation or a new flow
// removes them.
package session

import "sync"

// FlowKind identifies which guided dialogue a session belongs to.
type FlowKind int

const (
	FlowPrediction FlowKind = iota
	FlowResultEntry
)

// State is the current step of a flow.
type State int

const (
	StateSelectMatch State = iota
	StateSelectScore
	StateSelectWinner
	StateConfirm
)

// Session is the accumulated partial input of one user's active flow.
type Session struct {
	Flow    FlowKind
	State   State
	MatchID int64
	Week    int
	Home    string
	Away    string
	Score   string
	Winner  string
}

// Store is a synchronized per-user session map with last-writer-wins
// semantics. It performs no validation; transitions are driven by the
// conversation engine.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

// Get returns a copy of the user's session, if one is active.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Set stores the user's session, silently discarding any previous one.
func (s *Store) Set(userID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Clear removes the user's session. Clearing an absent session is a
// no-op.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
