package usecase

import (
	"sync"

	"StockScout/internal/domain/models"
)

const subscriberBuffer = 16

// ProgressBroadcaster fans screening progress snapshots out to any number of
// subscribers. Late subscribers only see events published after they join;
// there is no replay buffer. A slow subscriber loses its oldest pending
// snapshot instead of blocking the scheduler. Snapshots carry cumulative
// state, so dropping one is safe.
type ProgressBroadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan models.ProgressSnapshot
	nextID int
	closed bool
}

func NewProgressBroadcaster() *ProgressBroadcaster {
	return &ProgressBroadcaster{subs: make(map[int]chan models.ProgressSnapshot)}
}

// Subscribe registers an observer. The cancel func is idempotent and closes
// the returned channel.
func (b *ProgressBroadcaster) Subscribe() (<-chan models.ProgressSnapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan models.ProgressSnapshot)
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	ch := make(chan models.ProgressSnapshot, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber without blocking.
func (b *ProgressBroadcaster) Publish(snap models.ProgressSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Close terminates all subscriber channels. Publish becomes a no-op.
func (b *ProgressBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
