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

// Package pool implements the fixed-size thread pool that drains a worker's
// connection queue: a fixed number of goroutines, each pulling one
// connection at a time and running it through a handler until the queue
// shuts down.
package pool

import (
	"net"
	"time"

	"github.com/prefork/staticd/queue"
)

// Handler processes one accepted connection end to end (request parse,
// response write) and is responsible for closing conn before returning.
type Handler func(conn net.Conn)

// Pool is a fixed-size set of goroutines consuming a queue.Queue.
type Pool interface {
	// Start launches the pool's worker goroutines. It returns
	// ErrAlreadyRunning if called twice without an intervening Stop.
	Start() error

	// Stop blocks until every worker goroutine has exited. The queue
	// itself must already be (or be about to be) shut down by the
	// caller; Stop does not shut the queue down itself since a queue can
	// outlive the pool that drains it.
	Stop()

	// Active reports how many worker goroutines are currently busy
	// running a connection through the handler (as opposed to blocked in
	// Dequeue waiting for one).
	Active() int
}

// New builds a Pool of size goroutines draining q, each connection handled
// by handle under the given per-connection I/O deadline.
func New(size int, q queue.Queue, timeout time.Duration, handle Handler) (Pool, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &fixedPool{
		size:    size,
		queue:   q,
		timeout: timeout,
		handle:  handle,
	}, nil
}
