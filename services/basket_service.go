package services

import (
	"sync"

	"basket-service/database"

	"go.uber.org/zap"
)

// BasketService owns one basket session per attached user. A session is
// created on first attach (login) and torn down on detach (logout); all
// mutations for a user flow through their session, which serializes them.
type BasketService struct {
	carts  database.CartRepository
	feed   *database.Changefeed
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewBasketService creates a new BasketService.
func NewBasketService(carts database.CartRepository, feed *database.Changefeed, logger *zap.Logger) *BasketService {
	return &BasketService{
		carts:    carts,
		feed:     feed,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Attach returns the session for userID, creating it if needed. An empty
// user id means unauthenticated and fails without touching any store.
func (b *BasketService) Attach(userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if sess, ok := b.sessions[userID]; ok {
		return sess, nil
	}

	sess := newSession(userID, b.carts, b.feed, b.logger)
	b.sessions[userID] = sess
	return sess, nil
}

// Detach tears down the user's session: its snapshot stream stops emitting
// and pending operations fail with ErrSessionClosed. Detaching a user with
// no session is a no-op.
func (b *BasketService) Detach(userID string) {
	b.mu.Lock()
	sess, ok := b.sessions[userID]
	delete(b.sessions, userID)
	b.mu.Unlock()

	if ok {
		sess.close()
	}
}

// Close detaches every session; used on shutdown.
func (b *BasketService) Close() {
	b.mu.Lock()
	sessions := b.sessions
	b.sessions = make(map[string]*Session)
	b.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}
