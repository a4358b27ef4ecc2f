package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"uic-travel-backend/internal/model"
)

// Stage is the wizard's position. Control flows strictly forward:
// search -> packages -> purchase [-> payment] -> confirmation.
type Stage string

const (
	StageSearch       Stage = "search"
	StagePackages     Stage = "packages"
	StagePurchase     Stage = "purchase"
	StagePayment      Stage = "payment"
	StageConfirmation Stage = "confirmation"
)

// Session is the explicit draft object that replaces navigation-carried
// state: it holds exactly what each wizard stage forwards to the next.
// Nothing else survives between stage calls.
type Session struct {
	ID      string    `json:"id"`
	Stage   Stage     `json:"stage"`
	OwnerID string    `json:"owner_id,omitempty"`
	Created time.Time `json:"created"`

	Search   *model.TripSearch        `json:"search,omitempty"`
	Packages []model.InsurancePackage `json:"packages,omitempty"`
	Selected *model.InsurancePackage  `json:"selected,omitempty"`
	Draft    *model.PurchaseDraft     `json:"draft,omitempty"`
	Policy   *model.IssuedPolicy      `json:"policy,omitempty"`

	// RecordSaved is the local at-most-once flag for the download
	// persistence. Losing the session re-persists on the next
	// download; that is accepted, not silently fixed.
	RecordSaved bool `json:"record_saved"`
}

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("wizard session not found")

// Store carries sessions between stage calls.
type Store interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the in-process Store used in tests and single-node
// development runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
