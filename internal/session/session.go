package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/cart"
	"github.com/safar/storefront/internal/checkout"
)

var ErrNotFound = errors.New("session not found")

// Session is one shopper's cart and checkout. Callers hold it through
// Store.With, which serializes access.
type Session struct {
	ID        uuid.UUID
	Cart      *cart.Cart
	Checkout  *checkout.Checkout
	CreatedAt time.Time

	mu sync.Mutex
}

// Store owns every live session for the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		now:      time.Now,
	}
}

func (s *Store) Create() uuid.UUID {
	sess := &Session{
		ID:        uuid.New(),
		Cart:      cart.New(),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess.ID
}

func (s *Store) get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// With runs fn while holding the session's lock. Other sessions are not
// blocked.
func (s *Store) With(id uuid.UUID, fn func(*Session) error) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
