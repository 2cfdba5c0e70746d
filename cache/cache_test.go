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

package cache_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prefork/staticd/cache"
)

var _ = Describe("New", func() {
	It("rejects a zero or negative capacity", func() {
		_, err := cache.New(0)
		Expect(err).To(HaveOccurred())

		_, err = cache.New(-1)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Cache", func() {
	var c cache.Cache

	BeforeEach(func() {
		var err error
		c, err = cache.New(1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("misses on an unknown path", func() {
		_, _, ok := c.Get("/missing")
		Expect(ok).To(BeFalse())
	})

	It("round-trips a stored body", func() {
		Expect(c.Put("/a", []byte("hello"), 5)).To(BeTrue())

		body, size, ok := c.Get("/a")
		Expect(ok).To(BeTrue())
		Expect(size).To(Equal(int64(5)))
		Expect(body).To(Equal([]byte("hello")))
	})

	It("ignores a put with a zero size", func() {
		Expect(c.Put("/empty", nil, 0)).To(BeFalse())
		_, _, ok := c.Get("/empty")
		Expect(ok).To(BeFalse())
	})

	It("ignores a put larger than MaxFileSize", func() {
		oversize := int64(cache.MaxFileSize + 1)
		Expect(c.Put("/huge", make([]byte, oversize), oversize)).To(BeFalse())
	})

	It("ignores a put with a path longer than MaxPathLength", func() {
		p := "/" + strings.Repeat("a", cache.MaxPathLength+1)
		Expect(c.Put(p, []byte("x"), 1)).To(BeFalse())
	})

	It("returns a copy that survives later mutation of the backing cache", func() {
		Expect(c.Put("/a", []byte("hello"), 5)).To(BeTrue())
		body, _, ok := c.Get("/a")
		Expect(ok).To(BeTrue())

		Expect(c.Put("/a", []byte("world"), 5)).To(BeTrue())
		Expect(body).To(Equal([]byte("hello")))
	})

	It("overwrites an existing path and adjusts total size", func() {
		Expect(c.Put("/a", []byte("hello"), 5)).To(BeTrue())
		Expect(c.Put("/a", []byte("hi"), 2)).To(BeTrue())

		s := c.Stats()
		Expect(s.Entries).To(Equal(1))
		Expect(s.TotalSize).To(Equal(int64(2)))
	})

	It("evicts from the LRU tail to stay within max_bytes", func() {
		small, err := cache.New(1)
		Expect(err).NotTo(HaveOccurred())

		chunk := make([]byte, 400*1024)
		Expect(small.Put("/a", chunk, int64(len(chunk)))).To(BeTrue())
		Expect(small.Put("/b", chunk, int64(len(chunk)))).To(BeTrue())

		// get(a) promotes a to MRU; put(c) must now evict b, not a.
		_, _, ok := small.Get("/a")
		Expect(ok).To(BeTrue())
		Expect(small.Put("/c", chunk, int64(len(chunk)))).To(BeTrue())

		_, _, ok = small.Get("/a")
		Expect(ok).To(BeTrue())
		_, _, ok = small.Get("/b")
		Expect(ok).To(BeFalse())
		_, _, ok = small.Get("/c")
		Expect(ok).To(BeTrue())
	})

	It("keeps total_size within max_size under heavy eviction traffic", func() {
		one, err := cache.New(1)
		Expect(err).NotTo(HaveOccurred())

		chunk := make([]byte, 100*1024)
		for i := 0; i < 40; i++ {
			one.Put(pathFor(i), chunk, int64(len(chunk)))
			Expect(one.Stats().TotalSize).To(BeNumerically("<=", 1<<20)) // cache.New(1): 1 MiB
		}
	})

	It("reports an empty snapshot after Destroy", func() {
		Expect(c.Put("/a", []byte("hello"), 5)).To(BeTrue())
		c.Destroy()

		s := c.Stats()
		Expect(s.Entries).To(Equal(0))
		Expect(s.TotalSize).To(Equal(int64(0)))
	})
})

var _ = Describe("NewDisabled", func() {
	It("always misses and never stores", func() {
		c := cache.NewDisabled()
		Expect(c.Put("/a", []byte("hello"), 5)).To(BeFalse())
		_, _, ok := c.Get("/a")
		Expect(ok).To(BeFalse())
		Expect(c.Stats()).To(Equal(cache.Stats{}))
	})
})

func pathFor(i int) string {
	return "/file" + string(rune('a'+i%26))
}
