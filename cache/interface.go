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

// Package cache implements a per-worker, bounded, thread-safe LRU cache of
// small file bodies, keyed by filesystem path.
package cache

const (
	// MaxFileSize is the largest body a single entry may hold, regardless of
	// the cache's overall capacity.
	MaxFileSize = 1 << 20 // 1 MiB

	// MaxPathLength bounds the key; paths longer than this are rejected by
	// Put rather than silently truncated.
	MaxPathLength = 511

	bytesPerMB = 1 << 20
)

// Stats is a non-mutating snapshot of a Cache's occupancy.
type Stats struct {
	Entries   int
	TotalSize int64
	MaxSize   int64
}

// Cache is a thread-safe, bounded LRU mapping of path to file body. A single
// Cache belongs to exactly one worker; it is never shared across processes.
type Cache interface {
	// Get performs a recency-updating lookup. The returned slice is a copy
	// owned by the caller and remains valid regardless of subsequent Put or
	// Get calls on this Cache - see DESIGN.md for the borrow-lifetime choice.
	Get(path string) (body []byte, size int64, ok bool)

	// Put inserts or overwrites the entry for path. It is ignored (returns
	// false, no visible side effect) when body is empty, larger than
	// MaxFileSize, larger than the cache's max size, or when path exceeds
	// MaxPathLength. Otherwise entries are evicted from the LRU tail until
	// the new entry fits, then the entry is inserted at the MRU head.
	Put(path string, body []byte, size int64) bool

	// Stats returns a non-mutating snapshot of occupancy.
	Stats() Stats

	// Destroy frees every entry, leaving the Cache empty.
	Destroy()
}

// New allocates an LRU cache with the given capacity in megabytes. maxMB
// must be strictly positive; use NewDisabled for a capacity-zero worker.
func New(maxMB int) (Cache, error) {
	if maxMB <= 0 {
		return nil, ErrInvalidCapacity
	}

	return newLRU(int64(maxMB) * bytesPerMB), nil
}

// NewDisabled returns the sentinel cache installed when a worker is
// configured with zero cache capacity: every Get is a miss and every Put is
// a silent no-op.
func NewDisabled() Cache {
	return disabled{}
}

type disabled struct{}

func (disabled) Get(string) ([]byte, int64, bool) { return nil, 0, false }
func (disabled) Put(string, []byte, int64) bool   { return false }
func (disabled) Stats() Stats                     { return Stats{} }
func (disabled) Destroy()                         {}
