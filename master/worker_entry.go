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
	"net"
	"os"
	"strconv"
	"time"

	"github.com/prefork/staticd/config"
	"github.com/prefork/staticd/logging"
	"github.com/prefork/staticd/stats"
	"github.com/prefork/staticd/worker"
)

// RunWorker is the entrypoint a re-exec'd process calls when
// IsWorkerProcess reports true. It reconstructs the listening socket and
// the shared stats region from the descriptors the master passed across
// exec, then runs exactly one worker (spec.md §4.F) until termination.
func RunWorker(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfgPath + ".log")
	if err != nil {
		return err
	}
	defer closer.Close()

	lfd, err := envFD(ListenFDEnvKey)
	if err != nil {
		return codeFDInherit.ErrorParent(err)
	}
	sfd, err := envFD(StatsFDEnvKey)
	if err != nil {
		return codeFDInherit.ErrorParent(err)
	}

	listener, err := net.FileListener(os.NewFile(uintptr(lfd), "staticd-inherited-listener"))
	if err != nil {
		return codeFDInherit.ErrorParent(err)
	}

	s, err := stats.Open(sfd, log)
	if err != nil {
		return codeFDInherit.ErrorParent(err)
	}

	w, err := worker.New(worker.Config{
		DocumentRoot:     cfg.DocumentRoot,
		CacheSizeMB:      cfg.CacheSizeMB,
		QueueCapacity:    defaultQueueCapacity,
		ThreadsPerWorker: cfg.ThreadsPerWorker,
		Timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, s, log)
	if err != nil {
		return err
	}

	return w.Run(listener)
}

func envFD(key string) (int, error) {
	return strconv.Atoi(os.Getenv(key))
}
