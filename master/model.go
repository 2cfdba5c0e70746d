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
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/prefork/staticd/config"
	"github.com/prefork/staticd/logging"
	"github.com/prefork/staticd/stats"
)

const (
	tickInterval     = time.Second
	statsLogEveryNth = 30
)

type mst struct {
	cfgPath string

	cfg   config.Config
	log   logrus.FieldLogger
	stats stats.Stats

	listener *os.File
	statsFD  *os.File

	workers []*workerProc
	stopped atomic.Bool
}

func (m *mst) Run() error {
	cfg, err := config.Load(m.cfgPath)
	if err != nil {
		return err
	}
	m.cfg = cfg

	log, closer, err := logging.New(m.cfgPath + ".log")
	if err != nil {
		return err
	}
	defer closer.Close()
	m.log = log

	s, err := stats.New(log)
	if err != nil {
		return err
	}
	m.stats = s
	defer s.Cleanup()

	ln, err := listen(cfg.Port)
	if err != nil {
		return err
	}
	defer ln.Close()

	lnFile, err := ln.File()
	if err != nil {
		return codeListen.ErrorParent(err)
	}
	defer lnFile.Close()
	m.listener = lnFile

	// Dup the stats fd before wrapping it: s retains ownership of the
	// original, and closing this copy at shutdown must not invalidate it.
	dupFD, err := unix.Dup(s.FD())
	if err != nil {
		return codeFDInherit.ErrorParent(err)
	}
	statsFile := os.NewFile(uintptr(dupFD), "staticd-stats")
	defer statsFile.Close()
	m.statsFD = statsFile

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	signal.Ignore(syscall.SIGCHLD)
	defer signal.Stop(sig)

	binary, err := os.Executable()
	if err != nil {
		binary = os.Args[0]
	}

	for i := 0; i < cfg.NumWorkers; i++ {
		wp, err := spawnWorker(binary, m.cfgPath, m.listener, m.statsFD)
		if err != nil {
			log.WithError(err).Error("failed to spawn worker, continuing with fewer workers")
			continue
		}
		m.workers = append(m.workers, wp)
		log.WithField("pid", wp.pid).Info("worker started")
	}

	m.supervise(sig)
	m.terminateWorkers()

	log.Info("master shutting down")
	return nil
}

func (m *mst) supervise(sig chan os.Signal) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-sig:
			m.stopped.Store(true)
			return
		case <-ticker.C:
			ticks++
			m.reapExited()
			if ticks%statsLogEveryNth == 0 {
				snap := m.stats.Snapshot()
				m.log.WithFields(logrus.Fields{
					"total_requests": snap.TotalRequests,
					"bytes_sent":     snap.BytesSent,
					"status_200":     snap.Status200,
					"status_404":     snap.Status404,
					"status_5xx":     snap.Status5xx,
					"active":         snap.ActiveConnections,
				}).Info("aggregated stats")
			}
		}
	}
}

// reapExited non-blockingly detects any worker that has already exited, logs
// it, and drops it from the supervised set (spec.md §4.G step 6).
func (m *mst) reapExited() {
	live := m.workers[:0]
	for _, wp := range m.workers {
		var status syscall.WaitStatus
		pid, err := syscall.Wait4(wp.pid, &status, syscall.WNOHANG, nil)
		if err == nil && pid == wp.pid {
			m.log.WithFields(logrus.Fields{
				"pid":  wp.pid,
				"code": status.ExitStatus(),
			}).Warn("worker exited, not respawning")
			continue
		}
		// With SIGCHLD ignored the kernel reaps an exited worker itself, and
		// Wait4 then reports ECHILD with no exit status to read.
		if err == syscall.ECHILD {
			m.log.WithField("pid", wp.pid).Warn("worker exited, not respawning")
			continue
		}
		live = append(live, wp)
	}
	m.workers = live
}

func (m *mst) terminateWorkers() {
	for _, wp := range m.workers {
		_ = wp.cmd.Process.Signal(syscall.SIGTERM)
	}
	for _, wp := range m.workers {
		_, _ = wp.cmd.Process.Wait()
	}
}
