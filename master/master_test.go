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

// This suite runs as package master (not master_test): spawning a real
// worker means re-exec'ing the current binary, which inside `go test` would
// re-launch the test binary itself rather than a worker entrypoint. The
// exec-boundary plumbing (listen, env building, fd reconstruction) is
// therefore covered directly against its unexported surface instead of
// through a real multi-process Run.
package master

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("listen", func() {
	It("binds an ephemeral port with SO_REUSEADDR/SO_REUSEPORT applied", func() {
		ln, err := listen(0)
		Expect(err).NotTo(HaveOccurred())
		defer ln.Close()
		Expect(ln.Addr().String()).NotTo(BeEmpty())
	})
})

var _ = Describe("workerEnv", func() {
	It("sets the worker flag and both inherited fd numbers", func() {
		env := workerEnv()
		Expect(env).To(ContainElement(WorkerEnvKey + "=1"))
		Expect(env).To(ContainElement(ListenFDEnvKey + "=3"))
		Expect(env).To(ContainElement(StatsFDEnvKey + "=4"))
	})
})

var _ = Describe("spawnWorker", func() {
	It("reports an error when the binary cannot be executed", func() {
		devNull, err := os.Open(os.DevNull)
		Expect(err).NotTo(HaveOccurred())
		defer devNull.Close()

		_, err = spawnWorker("/nonexistent/staticd-binary-xyz", "server.conf", devNull, devNull)
		Expect(err).To(MatchError(ErrSpawn))
	})
})

var _ = Describe("envFD", func() {
	It("parses a numeric descriptor", func() {
		Expect(os.Setenv("STATICD_TEST_FD", "7")).To(Succeed())
		defer os.Unsetenv("STATICD_TEST_FD")

		fd, err := envFD("STATICD_TEST_FD")
		Expect(err).NotTo(HaveOccurred())
		Expect(fd).To(Equal(7))
	})

	It("errors on a non-numeric value", func() {
		Expect(os.Setenv("STATICD_TEST_FD", "not-a-number")).To(Succeed())
		defer os.Unsetenv("STATICD_TEST_FD")

		_, err := envFD("STATICD_TEST_FD")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("IsWorkerProcess", func() {
	It("reflects the worker environment variable", func() {
		Expect(os.Unsetenv(WorkerEnvKey)).To(Succeed())
		Expect(IsWorkerProcess()).To(BeFalse())

		Expect(os.Setenv(WorkerEnvKey, "1")).To(Succeed())
		defer os.Unsetenv(WorkerEnvKey)
		Expect(IsWorkerProcess()).To(BeTrue())
	})
})

var _ = Describe("RunWorker", func() {
	It("fails cleanly when the inherited listener fd cannot be parsed", func() {
		dir := GinkgoT().TempDir()
		cfgPath := filepath.Join(dir, "server.conf")
		Expect(os.WriteFile(cfgPath, []byte("PORT=8080\n"), 0o644)).To(Succeed())

		Expect(os.Setenv(ListenFDEnvKey, "not-a-fd")).To(Succeed())
		defer os.Unsetenv(ListenFDEnvKey)

		err := RunWorker(cfgPath)
		Expect(err).To(HaveOccurred())
		Expect(strings.Contains(err.Error(), codeFDInherit.Message())).To(BeTrue())
	})
})
