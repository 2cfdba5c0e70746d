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

package worker

import (
	"bytes"
	"net"

	"golang.org/x/sys/unix"
)

// peekCap bounds the peek at 511 bytes, well past the longest recognized
// priority prefix ("HEAD /metrics") plus one trailing space.
const peekCap = 511

var priorityPrefixes = [][]byte{
	[]byte("GET /metrics"),
	[]byte("HEAD /metrics"),
	[]byte("GET /health"),
	[]byte("HEAD /health"),
	[]byte("GET /stats"),
	[]byte("HEAD /stats"),
}

// isPriority non-destructively inspects up to peekCap bytes of conn via
// MSG_PEEK: the data peeked here is still there for the pipeline's own Read
// later, whichever path (fast path or queue) ends up serving it.
func isPriority(conn net.Conn) bool {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return false
	}

	raw, err := tc.SyscallConn()
	if err != nil {
		return false
	}

	buf := make([]byte, peekCap)
	var n int
	var rerr error

	err = raw.Read(func(fd uintptr) bool {
		n, _, rerr = unix.Recvfrom(int(fd), buf, unix.MSG_PEEK)
		return rerr != unix.EAGAIN
	})
	if err != nil || rerr != nil || n <= 0 {
		return false
	}

	peeked := buf[:n]
	for _, prefix := range priorityPrefixes {
		if bytes.HasPrefix(peeked, prefix) {
			return true
		}
	}
	return false
}
