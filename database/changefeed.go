package database

import "sync"

// Event describes one committed write to a backing table.
type Event struct {
	Table  string // "products" or "cart_items"
	UserID string // empty for catalog events, which concern every user
}

// Changefeed is an in-process fan-out of store change events. Repositories
// publish after every successful write; basket sessions subscribe and
// re-evaluate their join on each delivery. Subscriber channels are buffered
// and delivery is coalescing: if a subscriber is behind, the pending event
// is superseded rather than queued without bound. An event is only a wake-up
// signal, so dropping intermediate ones loses nothing.
type Changefeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewChangefeed() *Changefeed {
	return &Changefeed{subs: make(map[int]chan Event)}
}

// Publish delivers the event to every subscriber without blocking.
func (f *Changefeed) Publish(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
			// Subscriber is behind; replace its pending event.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- e:
			default:
			}
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called to release it; after cancel the channel is closed.
func (f *Changefeed) Subscribe() (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan Event, 1)
	f.subs[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}
