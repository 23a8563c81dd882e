// Package session keeps per-connection state in memory: whether the
// connection has logged in, which course it is viewing and the notices
// waiting to be shown.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notice is a transient message shown once to the user.
type Notice struct {
	Level   string
	Message string
}

// State is the state of one session. It starts anonymous with no course
// selected. All methods are safe for concurrent use.
type State struct {
	// ID identifies the session in the cookie.
	ID string

	mu            sync.Mutex
	authenticated bool
	selected      string
	notices       []Notice
	lastSeen      time.Time
}

// Authenticated reports whether the session has logged in.
func (s *State) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// MarkAuthenticated moves the session to the authenticated state. There is
// no way back.
func (s *State) MarkAuthenticated() {
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
}

// Selected returns the selected course code, if any.
func (s *State) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != ""
}

// Select records code as the current course.
func (s *State) Select(code string) {
	s.mu.Lock()
	s.selected = code
	s.mu.Unlock()
}

// AddNotice queues a notice for the next render.
func (s *State) AddNotice(n Notice) {
	s.mu.Lock()
	s.notices = append(s.notices, n)
	s.mu.Unlock()
}

// TakeNotices returns the queued notices and clears the queue.
func (s *State) TakeNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notices
	s.notices = nil
	return n
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Store holds all live sessions. Sessions idle for longer than the TTL are
// dropped lazily; there is no background sweeper.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns an empty store. A ttl <= 0 disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*State),
		ttl:      ttl,
		now:      time.Now,
	}
}

// New creates an anonymous session and sweeps expired ones.
func (s *Store) New() *State {
	now := s.now()
	st := &State{ID: uuid.NewString(), lastSeen: now}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.sessions[st.ID] = st
	return st
}

// Get returns the live session with the given id and refreshes its idle
// timer. Expired sessions are removed and reported as missing.
func (s *Store) Get(id string) (*State, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(st, now) {
		delete(s.sessions, id)
		return nil, false
	}
	st.touch(now)
	return st, true
}

// Len returns the number of sessions held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(st *State, now time.Time) bool {
	return s.ttl > 0 && st.idleSince(now) > s.ttl
}

func (s *Store) sweepLocked(now time.Time) {
	for id, st := range s.sessions {
		if s.expired(st, now) {
			delete(s.sessions, id)
		}
	}
}
