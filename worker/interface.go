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

// Package worker implements one prefork worker: a private cache, a bounded
// connection queue, a fixed thread pool draining it, and the single accept
// loop that feeds both the priority fast-path and the queue.
package worker

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prefork/staticd/stats"
)

// Config holds the per-worker settings the master derives from the loaded
// configuration (spec.md §4.G step 1's defaults already resolved).
type Config struct {
	DocumentRoot     string
	CacheSizeMB      int
	QueueCapacity    int
	ThreadsPerWorker int
	Timeout          time.Duration
}

// Worker owns exactly one listening socket's accept loop for the lifetime
// of the process.
type Worker interface {
	// Run installs the worker's own termination-signal handler, starts the
	// thread pool, and blocks in the accept loop until SIGINT/SIGTERM (or
	// the listener failing) ends it, then performs the graceful shutdown
	// sequence (spec.md §4.F) before returning.
	Run(listener net.Listener) error

	// Rejections reports the total number of connections turned away by
	// admission control since startup.
	Rejections() int64

	// Stop triggers the same graceful shutdown sequence a termination
	// signal would, without requiring one - useful for an in-process
	// supervisor or a test harness. Idempotent.
	Stop()
}

// New builds a Worker ready to Run against an inherited listening socket.
func New(cfg Config, s stats.Stats, log logrus.FieldLogger) (Worker, error) {
	if cfg.ThreadsPerWorker <= 0 {
		return nil, ErrInvalidThreads
	}
	if cfg.QueueCapacity <= 0 {
		return nil, ErrInvalidQueue
	}

	return newWorker(cfg, s, log)
}
