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

package pool

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prefork/staticd/queue"
)

type fixedPool struct {
	mu      sync.Mutex
	size    int
	queue   queue.Queue
	timeout time.Duration
	handle  Handler

	wg      sync.WaitGroup
	active  atomic.Int64
	running bool
	cancel  context.CancelFunc
}

func (o *fixedPool) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.running = true

	for i := 0; i < o.size; i++ {
		o.wg.Add(1)
		go o.worker(ctx)
	}

	return nil
}

func (o *fixedPool) worker(ctx context.Context) {
	defer o.wg.Done()

	for {
		conn, ok := o.queue.Dequeue(ctx)
		if !ok {
			return
		}

		o.active.Add(1)
		o.run(conn)
		o.active.Add(-1)
	}
}

func (o *fixedPool) run(conn net.Conn) {
	if o.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(o.timeout))
	}

	o.handle(conn)
}

func (o *fixedPool) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	cancel := o.cancel
	o.running = false
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	o.wg.Wait()
}

func (o *fixedPool) Active() int {
	return int(o.active.Load())
}
