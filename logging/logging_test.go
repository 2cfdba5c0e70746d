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

package logging_test

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prefork/staticd/logging"
)

var _ = Describe("New", func() {
	It("creates the log file and writes entries to it", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "server.log")

		log, closer, err := logging.New(path)
		Expect(err).NotTo(HaveOccurred())
		defer closer.Close()

		log.Info("hello")

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("hello"))
	})
})

var _ = Describe("HookFile", func() {
	It("rotates the file once it exceeds the size threshold", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "big.log")

		hook, err := logging.NewHookFile(path, []logrus.Level{logrus.InfoLevel})
		Expect(err).NotTo(HaveOccurred())
		defer hook.Close()

		big := make([]byte, 11*1<<20)
		for i := range big {
			big[i] = 'a'
		}
		_, err = hook.Write(big)
		Expect(err).NotTo(HaveOccurred())

		_, err = hook.Write([]byte("after-rotate"))
		Expect(err).NotTo(HaveOccurred())

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(entries)).To(BeNumerically(">=", 2))

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("after-rotate"))
	})
})
