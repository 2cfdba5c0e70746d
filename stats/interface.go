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

// Package stats implements the process-wide counters shared between the
// master and every worker via an anonymous memory-mapped page, guarded by a
// cross-process fcntl byte-range lock held on that same page's file
// descriptor.
package stats

import (
	"github.com/sirupsen/logrus"
)

// Snapshot is a point-in-time, non-mutating copy of every counter.
type Snapshot struct {
	TotalRequests       uint64
	BytesSent           uint64
	Status200           uint64
	Status404           uint64
	Status5xx           uint64
	ActiveConnections   uint64
	ResponseTimeTotalMS uint64
	ResponseTimeCount   uint64
}

// Stats is the shared-memory counters contract (spec.md §4.A). Every
// mutating method is atomic with respect to every other process holding a
// Stats created from the same backing descriptor.
type Stats interface {
	// Update records one completed request: total_requests += 1,
	// bytes_sent += bytes, and the matching status bucket (200, 404, or
	// the 5xx bucket). Every 15th call also emits a summary log line.
	Update(bytes int64, status int)

	// IncActive/DecActive adjust the active-connection gauge. DecActive
	// is a no-op once the gauge is already zero.
	IncActive()
	DecActive()

	// AddResponseTime accumulates one response-time sample.
	AddResponseTime(ms int64)

	// Snapshot copies every counter under the shared lock.
	Snapshot() Snapshot

	// FD returns the underlying shared-memory file descriptor, so a
	// caller (the master) can pass it to forked workers via
	// exec.Cmd.ExtraFiles.
	FD() int

	// Cleanup releases the mapping and closes the descriptor. Master-only;
	// workers just let process exit close their inherited copy.
	Cleanup() error
}

// New allocates a fresh shared-memory page and returns a Stats backed by
// it. Called once, by the master, before forking any worker.
func New(log logrus.FieldLogger) (Stats, error) {
	return newAnonShared(log)
}

// Open reconstructs a Stats from a shared-memory file descriptor inherited
// from the master (spec.md §9 "Cross-process shared state"). Called once
// per worker, immediately after the re-exec that inherited fd.
func Open(fd int, log logrus.FieldLogger) (Stats, error) {
	return openShared(fd, log)
}
