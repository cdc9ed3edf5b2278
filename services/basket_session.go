package services

import (
	"context"
	"sync"

	"basket-service/database"
	"basket-service/models"

	"go.uber.org/zap"
)

type command struct {
	apply func(ctx context.Context) error
	reply chan error
}

// Session is the cart aggregator for one user. A single worker goroutine
// owns all store mutations: callers hand it a command and wait for the
// reply, so two back-to-back mutations can never both read the
// pre-mutation state and race to write. The same goroutine recomputes the
// joined snapshot after every mutation and on every change event from the
// backing stores, which makes the snapshot stream monotonic.
type Session struct {
	userID string
	carts  database.CartRepository
	logger *zap.Logger

	cmds       chan command
	events     <-chan database.Event
	cancelFeed func()
	cancelRun  context.CancelFunc
	closed     chan struct{}
	closeOnce  sync.Once

	mu          sync.Mutex
	current     models.CartSnapshot
	watchers    map[int]chan models.CartSnapshot
	nextWatcher int
}

func newSession(userID string, carts database.CartRepository, feed *database.Changefeed, logger *zap.Logger) *Session {
	events, cancelFeed := feed.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		userID:     userID,
		carts:      carts,
		logger:     logger.With(zap.String("user_id", userID)),
		cmds:       make(chan command),
		events:     events,
		cancelFeed: cancelFeed,
		cancelRun:  cancel,
		closed:     make(chan struct{}),
		current:    models.CartSnapshot{IsLoading: true},
		watchers:   make(map[int]chan models.CartSnapshot),
	}

	go s.run(ctx)
	return s
}

// UserID returns the owning user's id.
func (s *Session) UserID() string { return s.userID }

// AddToCart merges quantity into the existing line for the product, or
// creates the line when absent. Non-positive quantities are rejected
// before any store access.
func (s *Session) AddToCart(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.do(ctx, func(ctx context.Context) error {
		existing, err := s.carts.GetItem(ctx, s.userID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Quantity += quantity
			return s.carts.UpdateItem(ctx, existing)
		}
		return s.carts.InsertItem(ctx, &models.CartItem{
			UserID:    s.userID,
			ProductID: productID,
			Quantity:  quantity,
		})
	})
}

// SetQuantity sets the line to the exact quantity, creating it when
// absent. A quantity of zero or less deletes the line; this is the single
// chokepoint enforcing that a persisted line never has quantity <= 0.
func (s *Session) SetQuantity(ctx context.Context, productID string, quantity int) error {
	return s.do(ctx, func(ctx context.Context) error {
		if quantity <= 0 {
			return s.carts.DeleteItem(ctx, s.userID, productID)
		}

		existing, err := s.carts.GetItem(ctx, s.userID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Quantity = quantity
			return s.carts.UpdateItem(ctx, existing)
		}
		return s.carts.InsertItem(ctx, &models.CartItem{
			UserID:    s.userID,
			ProductID: productID,
			Quantity:  quantity,
		})
	})
}

// Remove deletes the line for the product; removing an absent line is a
// no-op, not an error.
func (s *Session) Remove(ctx context.Context, productID string) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.carts.DeleteItem(ctx, s.userID, productID)
	})
}

// Clear deletes every line in the user's cart.
func (s *Session) Clear(ctx context.Context) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.carts.Clear(ctx, s.userID)
	})
}

// Snapshot returns the latest published snapshot.
func (s *Session) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a snapshot watcher. The current snapshot is
// delivered immediately; afterwards every recompute pushes a new one.
// Delivery is latest-wins: a slow consumer skips intermediate snapshots
// but never observes them out of order. The cancel func releases the
// watcher and closes its channel.
func (s *Session) Subscribe() (<-chan models.CartSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextWatcher
	s.nextWatcher++
	ch := make(chan models.CartSnapshot, 1)
	if s.watchers != nil {
		s.watchers[id] = ch
		ch <- s.current
	} else {
		// Session already closed; hand back a closed channel.
		close(ch)
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if w, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(w)
		}
	}
	return ch, cancel
}

// do submits a mutation to the worker and waits for it to be applied.
// The commands channel is unbuffered, so a successful send means the
// worker has taken ownership and will reply exactly once.
func (s *Session) do(ctx context.Context, apply func(context.Context) error) error {
	cmd := command{apply: apply, reply: make(chan error, 1)}

	select {
	case <-s.closed:
		return ErrSessionClosed
	default:
	}

	select {
	case s.cmds <- cmd:
		return <-cmd.reply
	case <-s.closed:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) run(ctx context.Context) {
	s.refresh(ctx)

	for {
		// Cancellation wins over a ready command or event.
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case cmd := <-s.cmds:
			err := cmd.apply(ctx)
			if err != nil {
				// Store failures degrade to an error-flagged snapshot;
				// the previous items stay visible.
				s.logger.Error("Cart mutation failed", zap.Error(err))
				s.publishError(err)
			} else {
				// Recompute before replying so the caller's next read
				// observes its own write.
				s.refresh(ctx)
			}
			cmd.reply <- err
		case _, ok := <-s.events:
			if !ok {
				return
			}
			// The event is only a wake-up signal; the join query is
			// user-scoped, so refreshing on unrelated events is harmless.
			s.refresh(ctx)
		}
	}
}

// refresh re-evaluates the cart/catalog join and publishes a new snapshot.
func (s *Session) refresh(ctx context.Context) {
	rows, err := s.carts.GetItemsWithProducts(ctx, s.userID)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Cart snapshot recompute failed", zap.Error(err))
			s.publishError(err)
		}
		return
	}

	items := make([]models.CartDisplayItem, 0, len(rows))
	total := 0.0
	for _, row := range rows {
		items = append(items, models.CartDisplayItem{
			ProductID:       row.ProductID,
			Name:            row.ProductName,
			Description:     row.ProductDescription,
			Price:           row.ProductPrice,
			ImageIdentifier: row.ProductImageIdentifier,
			Category:        row.ProductCategory,
			Quantity:        row.Quantity,
			LineID:          row.CartItemID,
		})
		total += row.ProductPrice * float64(row.Quantity)
	}

	s.publish(models.CartSnapshot{Items: items, TotalPrice: total})
}

func (s *Session) publish(snap models.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = snap
	s.notifyLocked()
}

// publishError flags the current snapshot without discarding its items.
func (s *Session) publishError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.IsLoading = false
	s.current.Error = err.Error()
	s.notifyLocked()
}

func (s *Session) notifyLocked() {
	for _, ch := range s.watchers {
		select {
		case ch <- s.current:
		default:
			// Watcher is behind; drop its pending snapshot for this one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.current:
			default:
			}
		}
	}
}

// close stops the worker, detaches from the changefeed and closes every
// watcher channel. Safe to call more than once.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.cancelRun()
		s.cancelFeed()

		s.mu.Lock()
		for _, ch := range s.watchers {
			close(ch)
		}
		s.watchers = nil
		s.mu.Unlock()
	})
}
