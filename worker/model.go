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

package worker

import (
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prefork/staticd/cache"
	"github.com/prefork/staticd/httpd"
	"github.com/prefork/staticd/pool"
	"github.com/prefork/staticd/queue"
	"github.com/prefork/staticd/stats"
)

type wrk struct {
	cfg   Config
	stats stats.Stats
	log   logrus.FieldLogger

	cache    cache.Cache
	queue    queue.Queue
	pool     pool.Pool
	pipeline httpd.Pipeline

	stopped    atomic.Bool
	rejections atomic.Int64

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newWorker(cfg Config, s stats.Stats, log logrus.FieldLogger) (*wrk, error) {
	var (
		c   cache.Cache
		err error
	)

	if cfg.CacheSizeMB > 0 {
		c, err = cache.New(cfg.CacheSizeMB)
		if err != nil {
			return nil, err
		}
	} else {
		c = cache.NewDisabled()
	}

	p, err := httpd.New(cfg.DocumentRoot, c, s, log)
	if err != nil {
		return nil, err
	}

	q := queue.New(cfg.QueueCapacity)

	w := &wrk{
		cfg:      cfg,
		stats:    s,
		log:      log,
		cache:    c,
		queue:    q,
		pipeline: p,
		stopCh:   make(chan struct{}),
	}

	pl, err := pool.New(cfg.ThreadsPerWorker, q, cfg.Timeout, w.pipeline.Serve)
	if err != nil {
		return nil, err
	}
	w.pool = pl

	return w, nil
}

func (w *wrk) Rejections() int64 {
	return w.rejections.Load()
}

func (w *wrk) Run(listener net.Listener) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	if err := w.pool.Start(); err != nil {
		return err
	}

	go func() {
		select {
		case <-sig:
		case <-w.stopCh:
		}
		w.stopped.Store(true)
		_ = listener.Close()
	}()

	w.acceptLoop(listener)
	w.shutdown()
	return nil
}

func (w *wrk) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *wrk) acceptLoop(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if !w.stopped.Load() {
				w.log.WithError(err).Error("accept failed, ending accept loop")
			}
			return
		}

		if w.cfg.Timeout > 0 {
			_ = conn.SetDeadline(time.Now().Add(w.cfg.Timeout))
		}

		if isPriority(conn) {
			// Served inline on the accept thread so /health, /metrics, and
			// /stats stay reachable even when the queue is saturated.
			w.pipeline.Serve(conn)
			continue
		}

		if !w.queue.TryEnqueue(conn) {
			w.reject(conn)
		}
	}
}

func (w *wrk) reject(conn net.Conn) {
	_ = httpd.RespondServiceUnavailable(conn)
	_ = conn.Close()

	n := w.rejections.Add(1)
	if n%100 == 0 {
		w.log.WithField("rejections", n).Warn("connection queue saturated, rejecting admission")
	}
}

func (w *wrk) shutdown() {
	w.queue.Shutdown()
	w.pool.Stop()

	cs := w.cache.Stats()
	w.log.WithFields(logrus.Fields{
		"entries":    cs.Entries,
		"total_size": cs.TotalSize,
		"max_size":   cs.MaxSize,
	}).Info("worker shutting down, final cache statistics")

	w.cache.Destroy()
	w.queue.Destroy()
}
