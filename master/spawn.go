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

package master

import (
	"fmt"
	"os"
	"os/exec"
)

// workerProc is one running worker: spec.md's "fork N workers" realized as
// a re-exec of the current binary (see the package doc for why).
type workerProc struct {
	cmd *exec.Cmd
	pid int
}

// workerEnv builds the environment a spawned worker needs to find its
// inherited descriptors, layered on top of the parent's own environment.
func workerEnv() []string {
	return append(os.Environ(),
		WorkerEnvKey+"=1",
		fmt.Sprintf("%s=%d", ListenFDEnvKey, listenFD),
		fmt.Sprintf("%s=%d", StatsFDEnvKey, statsFD),
	)
}

// spawnWorker execs a new copy of the running binary with listenFile and
// statsFile inherited as fd 3 and fd 4 (exec.Cmd.ExtraFiles always starts
// numbering right after stderr).
func spawnWorker(binary, cfgPath string, listenFile, statsFile *os.File) (*workerProc, error) {
	cmd := exec.Command(binary, cfgPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = workerEnv()
	cmd.ExtraFiles = []*os.File{listenFile, statsFile}

	if err := cmd.Start(); err != nil {
		return nil, codeSpawn.ErrorParent(err)
	}

	return &workerProc{cmd: cmd, pid: cmd.Process.Pid}, nil
}
