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

package queue

import "github.com/prefork/staticd/apperr"

const (
	codeShutdown apperr.CodeError = iota + apperr.MinPkgQueue
	codeFull
)

func init() {
	if apperr.ExistInMapMessage(codeShutdown) {
		return
	}

	apperr.RegisterIdFctMessage(apperr.MinPkgQueue, func(code apperr.CodeError) string {
		switch code {
		case codeShutdown:
			return "queue is shutting down"
		case codeFull:
			return "queue is full"
		default:
			return ""
		}
	})
}

// ErrShutdown is returned by Enqueue when the queue has been (or becomes,
// while the caller was waiting) shut down.
var ErrShutdown = codeShutdown.Error()

// ErrFull is returned by TryEnqueue when no slot is immediately available.
var ErrFull = codeFull.Error()
