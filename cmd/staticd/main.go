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

// Command staticd is the prefork static-content HTTP/1.1 server (spec.md
// §6). Usage: staticd [config-path], defaulting to server.conf.
//
// The same binary plays two roles. Run plainly, it is the master: it loads
// configuration, opens the listening socket, and re-execs itself N times to
// become the workers. A re-exec'd copy recognizes itself via
// master.IsWorkerProcess (set through the environment, never a CLI flag, so
// both roles accept the identical config-path argument) and runs exactly
// one worker against the descriptors it inherited.
package main

import (
	"fmt"
	"os"

	"github.com/prefork/staticd/master"
)

const defaultConfigPath = "server.conf"

func main() {
	cfgPath := defaultConfigPath
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	var err error
	if master.IsWorkerProcess() {
		err = master.RunWorker(cfgPath)
	} else {
		err = master.New(cfgPath).Run()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
