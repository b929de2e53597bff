package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// MemoryStore keeps everything in maps guarded by an RWMutex. Reads take the
// shared lock so concurrent panels can list cards while nothing is written.
type MemoryStore struct {
	mu      sync.RWMutex
	session *model.Session
	cards   map[string][]model.UserCard
	now     func() time.Time
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cards: make(map[string][]model.UserCard),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SaveSession replaces the stored session.
func (m *MemoryStore) SaveSession(sess *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sess
	cp.UpdatedAt = m.now()
	m.session = &cp
	return nil
}

// LoadSession returns a copy of the session or ErrNotFound.
func (m *MemoryStore) LoadSession() (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, ErrNotFound
	}
	cp := *m.session
	return &cp, nil
}

// ClearSession forgets the credential. Cards are kept.
func (m *MemoryStore) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// AddCard appends a card to the document's list.
func (m *MemoryStore) AddCard(docID, front, back string) (*model.UserCard, error) {
	if err := validateCard(docID, front, back); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.cards[docID]) >= model.MaxUserCardsPerDocument {
		return nil, ErrCardLimit
	}
	card := model.UserCard{
		ID:         uuid.NewString(),
		DocumentID: docID,
		Front:      front,
		Back:       back,
		CreatedAt:  m.now(),
	}
	m.cards[docID] = append(m.cards[docID], card)
	return &card, nil
}

// ListCards returns the document's cards in insertion order.
func (m *MemoryStore) ListCards(docID string) ([]model.UserCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.UserCard, len(m.cards[docID]))
	copy(out, m.cards[docID])
	return out, nil
}

// DeleteCard removes one card, keeping the order of the rest.
func (m *MemoryStore) DeleteCard(docID, cardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cards := m.cards[docID]
	for i, c := range cards {
		if c.ID == cardID {
			m.cards[docID] = append(cards[:i:i], cards[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
