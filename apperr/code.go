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

// Package apperr provides a small HTTP-status-like error code registry shared
// by every package in this module. Each package reserves a numeric range
// with a MinPkgXxx offset (see modules.go) and registers a message function
// for the codes it defines, following the same split as the teacher's own
// error-code package.
package apperr

import (
	"sort"
	"strconv"
)

// CodeError is a numeric error code, similar in spirit to an HTTP status
// code but scoped per package via the MinPkgXxx offsets.
type CodeError uint16

const (
	// UnknownError is returned when no specific code applies.
	UnknownError CodeError = 0
	// UnknownMessage is the fallback message for UnknownError and any
	// code with no registered message function.
	UnknownMessage = "unknown error"
)

// Message generates the human-readable message for a CodeError.
type Message func(code CodeError) string

var idMsgFct = make(map[CodeError]Message)

// RegisterIdFctMessage registers the message function responsible for every
// code reachable from the given minimum offset onward, up to the next
// registered offset. Packages call this once from an init() alongside their
// const block of codes.
func RegisterIdFctMessage(min CodeError, fct Message) {
	idMsgFct[min] = fct
}

// ExistInMapMessage reports whether a message function has already been
// registered for the package owning this code's range. Used by package
// init() functions to avoid double registration under repeated imports.
func ExistInMapMessage(code CodeError) bool {
	_, ok := idMsgFct[findOffset(code)]
	return ok
}

// findOffset returns the largest registered offset not greater than code.
func findOffset(code CodeError) CodeError {
	offsets := make([]CodeError, 0, len(idMsgFct))
	for k := range idMsgFct {
		offsets = append(offsets, k)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	var best CodeError
	for _, o := range offsets {
		if o <= code {
			best = o
		}
	}
	return best
}

// Message returns the registered message for this code, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}
	if fct, ok := idMsgFct[findOffset(c)]; ok {
		if m := fct(c); m != "" {
			return m
		}
	}
	return UnknownMessage
}

// String implements fmt.Stringer.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Error builds an Error value carrying this code's registered message and
// any parent errors supplied.
func (c CodeError) Error(parents ...error) Error {
	return New(c, c.Message(), parents...)
}

// ErrorParent is a convenience for the common single-parent case.
func (c CodeError) ErrorParent(parent error) Error {
	return New(c, c.Message(), parent)
}

// Iferror returns nil if err is nil, otherwise an Error wrapping it under
// this code.
func (c CodeError) Iferror(err error) Error {
	if err == nil {
		return nil
	}
	return New(c, c.Message(), err)
}
