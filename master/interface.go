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

// Package master implements the prefork supervisor (spec.md §4.G): it loads
// configuration, opens the shared listening socket, execs N worker copies of
// the current binary passing the listening socket and the shared-memory
// stats descriptor across the exec boundary, and supervises them until a
// termination signal arrives.
//
// Go has no fork(2) that preserves goroutines safely, so "fork N workers"
// here means re-exec: the master starts N copies of os.Args[0] with
// STATICD_WORKER=1 and the inherited descriptors passed via
// exec.Cmd.ExtraFiles. Each copy's entrypoint calls RunWorker to reconstruct
// them and run exactly one worker (spec.md §4.F).
package master

import (
	"os"
)

// Environment variables the master sets on a forked worker and that
// RunWorker reads back. The descriptor numbers are fixed because
// exec.Cmd.ExtraFiles is always appended right after fd 2 (stderr).
const (
	WorkerEnvKey   = "STATICD_WORKER"
	ListenFDEnvKey = "STATICD_LISTEN_FD"
	StatsFDEnvKey  = "STATICD_STATS_FD"

	listenFD = 3
	statsFD  = 4
)

// defaultQueueCapacity is spec.md §4.C's fixed queue capacity Q; unlike the
// other tunables it is not exposed in the configuration grammar (spec.md
// §6).
const defaultQueueCapacity = 100

// Master owns the listening socket and the set of worker processes for the
// lifetime of the program.
type Master interface {
	// Run loads configuration, opens the listening socket, forks the
	// configured number of workers, and blocks in the supervisor loop
	// (spec.md §4.G steps 1-7) until a termination signal is handled and
	// every worker has exited.
	Run() error
}

// New builds a Master that will load its configuration from cfgPath when
// Run is called.
func New(cfgPath string) Master {
	return &mst{cfgPath: cfgPath}
}

// IsWorkerProcess reports whether the current process was exec'd by a
// Master as a worker, i.e. whether the entrypoint should call RunWorker
// instead of constructing a Master.
func IsWorkerProcess() bool {
	return os.Getenv(WorkerEnvKey) == "1"
}
