/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package queue

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ring is the bounded-buffer implementation of Queue. empty_slots and
// filled_slots from the contract are modeled as a pair of weighted
// semaphores: empty starts full (capacity units available, none acquired)
// and filled starts drained (acquired down to zero at construction) so a
// Dequeue call blocks until an Enqueue signals it via Release.
//
// Shutdown wakeup does not go through filled: a sibling Dequeue already
// has its Acquire tied to ctx via an internal cancel, so closing done is
// enough to unblock every waiter without touching the semaphore's
// accounting (Release past what was Acquired panics, and occupancy at
// shutdown is whatever load happens to leave it).
type ring struct {
	mu   sync.Mutex
	buf  []net.Conn
	head int
	tail int
	n    int

	capacity int
	empty    *semaphore.Weighted
	filled   *semaphore.Weighted
	stopped  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

func newRing(capacity int) *ring {
	r := &ring{
		buf:      make([]net.Conn, capacity),
		capacity: capacity,
		empty:    semaphore.NewWeighted(int64(capacity)),
		filled:   semaphore.NewWeighted(int64(capacity)),
		done:     make(chan struct{}),
	}

	// Drain filled_slots to zero: nothing is queued yet, so no Dequeue may
	// proceed until the first signal from Enqueue.
	_ = r.filled.Acquire(context.Background(), int64(capacity))

	return r
}

func (r *ring) push(conn net.Conn) {
	r.mu.Lock()
	r.buf[r.tail] = conn
	r.tail = (r.tail + 1) % r.capacity
	r.n++
	r.mu.Unlock()
}

func (r *ring) pop() net.Conn {
	r.mu.Lock()
	conn := r.buf[r.head]
	r.buf[r.head] = nil
	r.head = (r.head + 1) % r.capacity
	r.n--
	r.mu.Unlock()
	return conn
}

func (r *ring) Enqueue(ctx context.Context, conn net.Conn) error {
	// As in Dequeue, a producer blocked on a full queue wakes when Shutdown
	// closes done.
	acqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-r.done:
			cancel()
		case <-acqCtx.Done():
		}
	}()

	if err := r.empty.Acquire(acqCtx, 1); err != nil {
		if r.stopped.Load() {
			return ErrShutdown
		}
		return err
	}

	if r.stopped.Load() {
		r.empty.Release(1)
		return ErrShutdown
	}

	r.push(conn)
	r.filled.Release(1)
	return nil
}

func (r *ring) TryEnqueue(conn net.Conn) bool {
	if !r.empty.TryAcquire(1) {
		return false
	}

	if r.stopped.Load() {
		r.empty.Release(1)
		return false
	}

	r.push(conn)
	r.filled.Release(1)
	return true
}

func (r *ring) Dequeue(ctx context.Context) (net.Conn, bool) {
	select {
	case <-r.done:
		return nil, false
	default:
	}

	// Tie the Acquire to a context that also cancels when Shutdown closes
	// done, so a blocked waiter wakes without any matching Release.
	acqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-r.done:
			cancel()
		case <-watchDone:
		}
	}()

	if err := r.filled.Acquire(acqCtx, 1); err != nil {
		return nil, false
	}

	conn := r.pop()
	r.empty.Release(1)
	return conn, true
}

func (r *ring) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

func (r *ring) Shutdown() {
	r.stopped.Store(true)
	r.doneOnce.Do(func() { close(r.done) })
}

func (r *ring) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < r.n; i++ {
		idx := (r.head + i) % r.capacity
		if c := r.buf[idx]; c != nil {
			_ = c.Close()
		}
	}

	r.buf = nil
	r.n = 0
}
