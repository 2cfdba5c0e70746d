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

package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the value type returned by every fallible operation in this
// module's core packages. It pairs a CodeError with an optional chain of
// parent errors so the original cause survives past the point an operation
// gets mapped onto a coarser code (e.g. an os.PathError becoming a 404).
type Error interface {
	error
	Code() CodeError
	HasParent() bool
	Unwrap() error
}

type appError struct {
	code    CodeError
	message string
	parents []error
}

// New builds an Error with an explicit message, independent of the code's
// registered message function. Most callers prefer CodeError.Error/.
func New(code CodeError, message string, parents ...error) Error {
	return &appError{code: code, message: message, parents: parents}
}

func (e *appError) Code() CodeError {
	return e.code
}

func (e *appError) HasParent() bool {
	return len(e.parents) > 0
}

func (e *appError) Unwrap() error {
	if len(e.parents) == 0 {
		return nil
	}
	return e.parents[0]
}

func (e *appError) Error() string {
	if !e.HasParent() {
		return fmt.Sprintf("[%d] %s", e.code, e.message)
	}

	parts := make([]string, 0, len(e.parents))
	for _, p := range e.parents {
		if p != nil {
			parts = append(parts, p.Error())
		}
	}
	return fmt.Sprintf("[%d] %s: %s", e.code, e.message, strings.Join(parts, "; "))
}

// Is allows errors.Is(err, apperr.CodeError(x).Error()) style comparisons by
// code rather than identity.
func (e *appError) Is(target error) bool {
	var other *appError
	if errors.As(target, &other) {
		return other.code == e.code
	}
	return false
}
