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

package queue_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prefork/staticd/queue"
)

// pipeConn returns a usable net.Conn backed by an in-memory pipe; the peer
// is closed immediately since these tests only care about queue plumbing.
func pipeConn() net.Conn {
	a, b := net.Pipe()
	_ = b.Close()
	return a
}

var _ = Describe("Queue", func() {
	var q queue.Queue

	BeforeEach(func() {
		q = queue.New(2)
	})

	It("dequeues in FIFO order", func() {
		c1, c2 := pipeConn(), pipeConn()
		Expect(q.Enqueue(context.Background(), c1)).To(Succeed())
		Expect(q.Enqueue(context.Background(), c2)).To(Succeed())

		got1, ok := q.Dequeue(context.Background())
		Expect(ok).To(BeTrue())
		Expect(got1).To(BeIdenticalTo(c1))

		got2, ok := q.Dequeue(context.Background())
		Expect(ok).To(BeTrue())
		Expect(got2).To(BeIdenticalTo(c2))
	})

	It("reports occupancy via Size", func() {
		Expect(q.Size()).To(Equal(0))
		Expect(q.Enqueue(context.Background(), pipeConn())).To(Succeed())
		Expect(q.Size()).To(Equal(1))
	})

	It("TryEnqueue fails immediately once the bound is reached", func() {
		Expect(q.TryEnqueue(pipeConn())).To(BeTrue())
		Expect(q.TryEnqueue(pipeConn())).To(BeTrue())
		Expect(q.TryEnqueue(pipeConn())).To(BeFalse())
	})

	It("unblocks every waiting consumer on Shutdown", func() {
		results := make(chan bool, 3)
		for i := 0; i < 3; i++ {
			go func() {
				_, ok := q.Dequeue(context.Background())
				results <- ok
			}()
		}

		// Give the goroutines a chance to block on an empty queue.
		time.Sleep(20 * time.Millisecond)
		q.Shutdown()

		for i := 0; i < 3; i++ {
			Eventually(results).Should(Receive(BeFalse()))
		}
	})

	It("does not panic on Shutdown while connections are still buffered", func() {
		// Both slots filled and never dequeued: Shutdown must not rely on
		// releasing units it never acquired back from an idle consumer.
		Expect(q.Enqueue(context.Background(), pipeConn())).To(Succeed())
		Expect(q.Enqueue(context.Background(), pipeConn())).To(Succeed())
		Expect(q.Size()).To(Equal(2))

		Expect(q.Shutdown).NotTo(Panic())

		_, ok := q.Dequeue(context.Background())
		Expect(ok).To(BeFalse())
	})

	It("fails Enqueue after Shutdown", func() {
		q.Shutdown()
		err := q.Enqueue(context.Background(), pipeConn())
		Expect(err).To(HaveOccurred())
	})

	It("respects context cancellation while blocked", func() {
		full := queue.New(1)
		Expect(full.TryEnqueue(pipeConn())).To(BeTrue())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := full.Enqueue(ctx, pipeConn())
		Expect(err).To(HaveOccurred())
	})

	It("closes buffered connections on Destroy", func() {
		c := pipeConn()
		Expect(q.Enqueue(context.Background(), c)).To(Succeed())
		q.Destroy()

		_, err := c.Write([]byte("x"))
		Expect(err).To(HaveOccurred())
	})
})
