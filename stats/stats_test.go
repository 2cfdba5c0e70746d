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

package stats_test

import (
	"sync"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prefork/staticd/stats"
)

var _ = Describe("Stats", func() {
	var s stats.Stats

	BeforeEach(func() {
		var err error
		s, err = stats.New(logrus.StandardLogger())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(s.Cleanup()).To(Succeed())
	})

	It("starts at zero", func() {
		snap := s.Snapshot()
		Expect(snap).To(Equal(stats.Snapshot{}))
	})

	It("accumulates totals and status buckets monotonically", func() {
		s.Update(100, 200)
		s.Update(50, 404)
		s.Update(10, 500)

		snap := s.Snapshot()
		Expect(snap.TotalRequests).To(Equal(uint64(3)))
		Expect(snap.BytesSent).To(Equal(uint64(160)))
		Expect(snap.Status200).To(Equal(uint64(1)))
		Expect(snap.Status404).To(Equal(uint64(1)))
		Expect(snap.Status5xx).To(Equal(uint64(1)))
	})

	It("balances the active-connection gauge", func() {
		s.IncActive()
		s.IncActive()
		s.DecActive()
		Expect(s.Snapshot().ActiveConnections).To(Equal(uint64(1)))
	})

	It("never decrements the active gauge below zero", func() {
		s.DecActive()
		Expect(s.Snapshot().ActiveConnections).To(Equal(uint64(0)))
	})

	It("accumulates response time totals and sample counts", func() {
		s.AddResponseTime(10)
		s.AddResponseTime(20)

		snap := s.Snapshot()
		Expect(snap.ResponseTimeTotalMS).To(Equal(uint64(30)))
		Expect(snap.ResponseTimeCount).To(Equal(uint64(2)))
	})

	It("is safe under concurrent updates from multiple goroutines", func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Update(1, 200)
			}()
		}
		wg.Wait()

		Expect(s.Snapshot().TotalRequests).To(Equal(uint64(50)))
	})

	It("can be reopened from its own file descriptor like a forked worker would", func() {
		reopened, err := stats.Open(s.FD(), logrus.StandardLogger())
		Expect(err).NotTo(HaveOccurred())

		s.Update(5, 200)
		Expect(reopened.Snapshot().TotalRequests).To(Equal(uint64(1)))
	})
})
