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

package apperr_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prefork/staticd/apperr"
)

const testCode apperr.CodeError = iota + apperr.MinAvailable

func init() {
	if !apperr.ExistInMapMessage(testCode) {
		apperr.RegisterIdFctMessage(apperr.MinAvailable, func(c apperr.CodeError) string {
			if c == testCode {
				return "test code message"
			}
			return ""
		})
	}
}

var _ = Describe("CodeError", func() {
	It("resolves a registered message", func() {
		Expect(testCode.Message()).To(Equal("test code message"))
	})

	It("falls back to UnknownMessage for unregistered codes", func() {
		Expect(apperr.CodeError(65000).Message()).To(Equal(apperr.UnknownMessage))
	})

	It("wraps a parent error and preserves Unwrap", func() {
		parent := fmt.Errorf("boom")
		err := testCode.ErrorParent(parent)
		Expect(err.HasParent()).To(BeTrue())
		Expect(errors.Unwrap(err)).To(Equal(parent))
		Expect(err.Error()).To(ContainSubstring("boom"))
	})

	It("Iferror returns nil for a nil error", func() {
		Expect(testCode.Iferror(nil)).To(BeNil())
	})
})
