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

// Package queue implements the bounded, FIFO, admission-controlled
// connection queue that sits between a worker's accept loop and its thread
// pool.
package queue

import (
	"context"
	"net"
)

// Queue is a bounded FIFO of accepted connections with admission control
// and orderly shutdown. A Queue belongs to exactly one worker.
type Queue interface {
	// Enqueue blocks until a slot is available, the queue shuts down, or
	// ctx is done. On shutdown or ctx cancellation it returns an error and
	// the caller keeps ownership of conn (and must close it).
	Enqueue(ctx context.Context, conn net.Conn) error

	// TryEnqueue is the non-blocking admission-control path: it returns
	// false immediately if no slot is free, without waiting.
	TryEnqueue(conn net.Conn) bool

	// Dequeue blocks until a connection is available or the queue shuts
	// down, in which case ok is false.
	Dequeue(ctx context.Context) (conn net.Conn, ok bool)

	// Size returns the current occupancy. Advisory: may lag concurrent
	// Enqueue/Dequeue calls.
	Size() int

	// Shutdown marks the queue as draining and wakes every blocked
	// Dequeue call so consumer threads can exit.
	Shutdown()

	// Destroy closes every connection still buffered in the queue. Call
	// after Shutdown and after every consumer thread has exited.
	Destroy()
}

// New allocates a Queue with room for capacity connections.
func New(capacity int) Queue {
	return newRing(capacity)
}
