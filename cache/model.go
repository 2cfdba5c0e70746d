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

package cache

import "sync"

// nilLink marks the absence of a prev/next/free neighbor inside the arena.
const nilLink = -1

// node is one slot of the intrusive recency list. prev/next place it in the
// MRU-to-LRU chain; a node not currently holding an entry sits on the free
// list instead, linked through next.
type node struct {
	path string
	body []byte
	size int64
	prev int
	next int
}

// lru is the per-worker LRU file cache. The recency list and the path index
// share a single RWMutex: Get takes the writer side because a hit mutates
// recency, matching the contract's requirement that get/put/destroy all
// serialize on the writer lock while stats() may use the reader side.
type lru struct {
	mu    sync.RWMutex
	arena []node
	index map[string]int

	head int // most recently used
	tail int // least recently used
	free int // head of the free list, linked through node.next

	total int64
	max   int64
}

func newLRU(maxBytes int64) *lru {
	return &lru{
		index: make(map[string]int),
		head:  nilLink,
		tail:  nilLink,
		free:  nilLink,
		max:   maxBytes,
	}
}

// alloc returns an arena index ready to hold a new entry, reusing a freed
// slot when one is available instead of growing the arena.
func (c *lru) alloc() int {
	if c.free != nilLink {
		i := c.free
		c.free = c.arena[i].next
		return i
	}

	c.arena = append(c.arena, node{})
	return len(c.arena) - 1
}

// release returns a slot to the free list after its entry has been evicted
// or overwritten.
func (c *lru) release(i int) {
	c.arena[i] = node{next: c.free, prev: nilLink}
	c.free = i
}

func (c *lru) unlink(i int) {
	n := &c.arena[i]

	if n.prev != nilLink {
		c.arena[n.prev].next = n.next
	} else {
		c.head = n.next
	}

	if n.next != nilLink {
		c.arena[n.next].prev = n.prev
	} else {
		c.tail = n.prev
	}

	n.prev, n.next = nilLink, nilLink
}

// pushFront relinks i as the new MRU head.
func (c *lru) pushFront(i int) {
	n := &c.arena[i]
	n.prev = nilLink
	n.next = c.head

	if c.head != nilLink {
		c.arena[c.head].prev = i
	}
	c.head = i

	if c.tail == nilLink {
		c.tail = i
	}
}

func (c *lru) evictTail() {
	i := c.tail
	n := &c.arena[i]

	c.total -= n.size
	delete(c.index, n.path)
	c.unlink(i)
	c.release(i)
}

// Get implements Cache. The returned slice is a defensive copy: the caller
// owns it outright, so later Put/evict activity on this cache can never
// invalidate a response already in flight. This is the "copy out at hit
// time" choice documented in DESIGN.md for the borrow-lifetime question.
func (c *lru) Get(path string) ([]byte, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[path]
	if !ok {
		return nil, 0, false
	}

	n := &c.arena[i]

	if i != c.head {
		c.unlink(i)
		c.pushFront(i)
	}

	out := make([]byte, len(n.body))
	copy(out, n.body)
	return out, n.size, true
}

func (c *lru) Put(path string, body []byte, size int64) bool {
	if size <= 0 || size > MaxFileSize || size > c.max || len(path) > MaxPathLength {
		return false
	}

	stored := make([]byte, len(body))
	copy(stored, body)

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[path]; ok {
		n := &c.arena[i]
		c.total += size - n.size
		n.body = stored
		n.size = size

		if i != c.head {
			c.unlink(i)
			c.pushFront(i)
		}
		return true
	}

	for c.total+size > c.max && c.tail != nilLink {
		c.evictTail()
	}

	i := c.alloc()
	c.arena[i] = node{path: path, body: stored, size: size, prev: nilLink, next: nilLink}
	c.pushFront(i)
	c.index[path] = i
	c.total += size

	return true
}

func (c *lru) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Entries:   len(c.index),
		TotalSize: c.total,
		MaxSize:   c.max,
	}
}

func (c *lru) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.arena = nil
	c.index = make(map[string]int)
	c.head, c.tail, c.free = nilLink, nilLink, nilLink
	c.total = 0
}
