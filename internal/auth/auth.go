// Package auth adapts the external identity provider into an explicit
// store with a defined lifecycle: initialized at application start,
// torn down on sign-out. It exposes a read-only current-user snapshot
// and a subscribe/unsubscribe mechanism for auth-status observers.
package auth

import "sync"

// User is the identity snapshot the provider exposes. Nil means
// unauthenticated.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// GuestUID is the owner identifier attached to records persisted while
// unauthenticated.
const GuestUID = "guest"

// Store holds the current-user observable.
type Store struct {
	mu      sync.RWMutex
	current *User
	subs    map[int]func(*User)
	nextID  int
}

// NewStore initializes the auth store with no signed-in user.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(*User))}
}

// CurrentUser returns a read-only snapshot of the signed-in user, or
// nil when unauthenticated.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// OwnerID returns the identifier to attach to persisted records.
func (s *Store) OwnerID() string {
	if u := s.CurrentUser(); u != nil {
		return u.UID
	}
	return GuestUID
}

// SignIn records the authenticated user and notifies subscribers.
func (s *Store) SignIn(u User) {
	s.mu.Lock()
	s.current = &u
	subs := snapshot(s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(&u)
	}
}

// SignOut tears the session down and notifies subscribers with nil.
func (s *Store) SignOut() {
	s.mu.Lock()
	s.current = nil
	subs := snapshot(s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(nil)
	}
}

// Subscribe registers an observer for auth-status changes and returns
// an unsubscribe function.
func (s *Store) Subscribe(fn func(*User)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func snapshot(subs map[int]func(*User)) []func(*User) {
	out := make([]func(*User), 0, len(subs))
	for _, fn := range subs {
		out = append(out, fn)
	}
	return out
}
