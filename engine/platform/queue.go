package platform

import (
	"sync"

	"github.com/hubastard/framekit/engine/core"
)

// queue is a FIFO of normalized messages with filtered peek/take.
type queue struct {
	mu   sync.Mutex
	msgs []core.Message
}

func (q *queue) push(ms ...core.Message) {
	q.mu.Lock()
	q.msgs = append(q.msgs, ms...)
	q.mu.Unlock()
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}

// take returns the oldest message accepted by filter, removing it when
// remove is set. Messages of other classes keep their position.
func (q *queue) take(filter core.MessageFilter, remove bool) (core.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, m := range q.msgs {
		if !filter.Accepts(m.Kind) {
			continue
		}
		if remove {
			q.msgs = append(q.msgs[:i], q.msgs[i+1:]...)
		}
		return m, true
	}
	return core.Message{}, false
}

func (q *queue) reset() {
	q.mu.Lock()
	q.msgs = nil
	q.mu.Unlock()
}
