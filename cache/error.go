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

import "github.com/prefork/staticd/apperr"

const (
	codeInvalidCapacity apperr.CodeError = iota + apperr.MinPkgCache
	codePathTooLong
	codeBodyTooLarge
	codeEmptyBody
)

func init() {
	if apperr.ExistInMapMessage(codeInvalidCapacity) {
		return
	}

	apperr.RegisterIdFctMessage(apperr.MinPkgCache, func(code apperr.CodeError) string {
		switch code {
		case codeInvalidCapacity:
			return "cache capacity must be greater than zero megabytes"
		case codePathTooLong:
			return "cache key exceeds maximum path length"
		case codeBodyTooLarge:
			return "body exceeds MaxFileSize or cache capacity"
		case codeEmptyBody:
			return "body is empty"
		default:
			return ""
		}
	})
}

var (
	ErrInvalidCapacity = codeInvalidCapacity.Error()
	ErrPathTooLong     = codePathTooLong.Error()
	ErrBodyTooLarge    = codeBodyTooLarge.Error()
	ErrEmptyBody       = codeEmptyBody.Error()
)
