package universe

import "sync"

// mailbox is a multi-producer, single-consumer queue of closures drained by
// the frame loop.
type mailbox struct {
	mu sync.Mutex
	q  []func()
}

func (mb *mailbox) push(fn func()) {
	if fn == nil {
		return
	}
	mb.mu.Lock()
	mb.q = append(mb.q, fn)
	mb.mu.Unlock()
}

// drain runs every queued closure, including ones queued while draining.
func (mb *mailbox) drain() {
	for {
		mb.mu.Lock()
		q := mb.q
		mb.q = nil
		mb.mu.Unlock()
		if len(q) == 0 {
			return
		}
		for _, fn := range q {
			fn()
		}
	}
}
