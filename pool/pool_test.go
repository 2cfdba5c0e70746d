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

package pool_test

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prefork/staticd/pool"
	"github.com/prefork/staticd/queue"
)

func pipeConn() net.Conn {
	a, b := net.Pipe()
	_ = b.Close()
	return a
}

var _ = Describe("Pool", func() {
	It("rejects a non-positive size", func() {
		q := queue.New(1)
		_, err := pool.New(0, q, time.Second, func(net.Conn) {})
		Expect(err).To(MatchError(pool.ErrInvalidSize))
	})

	It("drains every enqueued connection exactly once", func() {
		q := queue.New(4)
		var (
			mu   sync.Mutex
			seen = map[net.Conn]int{}
		)

		p, err := pool.New(3, q, time.Second, func(c net.Conn) {
			mu.Lock()
			seen[c]++
			mu.Unlock()
			_ = c.Close()
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Start()).To(Succeed())

		conns := []net.Conn{pipeConn(), pipeConn(), pipeConn(), pipeConn()}
		for _, c := range conns {
			Expect(q.Enqueue(context.Background(), c)).To(Succeed())
		}

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(seen)
		}).Should(Equal(4))

		for _, c := range conns {
			mu.Lock()
			n := seen[c]
			mu.Unlock()
			Expect(n).To(Equal(1))
		}

		q.Shutdown()
		p.Stop()
	})

	It("rejects a second Start before Stop", func() {
		q := queue.New(1)
		p, err := pool.New(1, q, time.Second, func(net.Conn) {})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Start()).To(Succeed())
		defer func() {
			q.Shutdown()
			p.Stop()
		}()

		Expect(p.Start()).To(MatchError(pool.ErrAlreadyRunning))
	})

	It("reports Active while a handler is in flight and zero once it returns", func() {
		q := queue.New(1)
		release := make(chan struct{})
		entered := make(chan struct{})

		p, err := pool.New(1, q, time.Second, func(c net.Conn) {
			close(entered)
			<-release
			_ = c.Close()
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Start()).To(Succeed())

		Expect(q.Enqueue(context.Background(), pipeConn())).To(Succeed())

		<-entered
		Expect(p.Active()).To(Equal(1))
		close(release)

		Eventually(p.Active).Should(Equal(0))

		q.Shutdown()
		p.Stop()
	})

	It("Stop returns once every worker goroutine has exited", func() {
		q := queue.New(2)
		var handled atomic.Int64

		p, err := pool.New(2, q, time.Second, func(c net.Conn) {
			handled.Add(1)
			_ = c.Close()
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Start()).To(Succeed())

		Expect(q.Enqueue(context.Background(), pipeConn())).To(Succeed())
		Eventually(handled.Load).Should(Equal(int64(1)))

		q.Shutdown()
		p.Stop()

		Expect(p.Active()).To(Equal(0))
	})
})
