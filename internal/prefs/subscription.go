// ABOUTME: Subscription delivers committed snapshots to one observer.
// ABOUTME: An unbounded per-subscriber queue keeps writers from ever blocking.
package prefs

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is a live stream of preference snapshots.
type Subscription struct {
	ID uuid.UUID

	// C yields snapshots in commit order and closes when the
	// subscription ends.
	C <-chan Preferences

	out    chan Preferences
	mu     sync.Mutex
	queue  []Preferences
	wake   chan struct{}
	done   chan struct{}
	once   sync.Once
	cancel func()
}

func newSubscription() *Subscription {
	out := make(chan Preferences)
	sub := &Subscription{
		ID:   uuid.New(),
		C:    out,
		out:  out,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go sub.run()
	return sub
}

// Cancel ends the subscription and closes C.
func (sub *Subscription) Cancel() {
	if sub.cancel != nil {
		sub.cancel()
		return
	}
	sub.stop()
}

func (sub *Subscription) push(p Preferences) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, p)
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription) stop() {
	sub.once.Do(func() { close(sub.done) })
}

func (sub *Subscription) run() {
	defer close(sub.out)
	for {
		sub.mu.Lock()
		if len(sub.queue) == 0 {
			sub.mu.Unlock()
			select {
			case <-sub.wake:
				continue
			case <-sub.done:
				return
			}
		}
		next := sub.queue[0]
		sub.queue[0] = Preferences{}
		sub.queue = sub.queue[1:]
		sub.mu.Unlock()

		select {
		case sub.out <- next:
		case <-sub.done:
			return
		}
	}
}
