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

package atomic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libatm "github.com/prefork/staticd/atomic"
)

var _ = Describe("Cast", func() {
	It("casts a matching type", func() {
		v, ok := libatm.Cast[int](42)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(42))
	})

	It("fails to cast a mismatching type", func() {
		_, ok := libatm.Cast[string](42)
		Expect(ok).To(BeFalse())
	})

	It("treats the zero value of the target type as not-castable", func() {
		_, ok := libatm.Cast[int](0)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("IsEmpty", func() {
	It("is true for nil", func() {
		Expect(libatm.IsEmpty[string](nil)).To(BeTrue())
	})

	It("is true for the zero value", func() {
		Expect(libatm.IsEmpty[int](0)).To(BeTrue())
	})

	It("is false for a non-zero value", func() {
		Expect(libatm.IsEmpty[int](7)).To(BeFalse())
	})
})
