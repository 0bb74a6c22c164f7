package pipeline

import (
	"sync"

	"github.com/nguyentantai21042004/notetaker/internal/metrics"
)

const subscriberBuffer = 16

// bus fans status changes out to subscribers. Slow subscribers miss updates
// rather than blocking the orchestrator.
type bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan Status
	nextID      uint64
}

func newBus() *bus {
	return &bus{subscribers: make(map[uint64]chan Status)}
}

// subscribe returns a channel primed with current and a cancel function that
// closes it.
func (b *bus) subscribe(current Status) (<-chan Status, func()) {
	ch := make(chan Status, subscriberBuffer)
	ch <- current

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()
	metrics.StatusSubscribers.Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			close(ch)
			b.mu.Unlock()
			metrics.StatusSubscribers.Dec()
		})
	}
	return ch, cancel
}

func (b *bus) publish(s Status) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- s:
		default:
			// Drop if subscriber is slow
		}
	}
}

func (b *bus) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
