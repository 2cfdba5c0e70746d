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

package httpd

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/prefork/staticd/cache"
	"github.com/prefork/staticd/mime"
	"github.com/prefork/staticd/stats"
)

type pipeline struct {
	root  string
	cache cache.Cache
	stats stats.Stats
	log   logrus.FieldLogger
	reg   *prometheus.Registry
}

func (p *pipeline) Serve(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	start := time.Now()
	p.stats.IncActive()
	defer func() {
		p.stats.AddResponseTime(time.Since(start).Milliseconds())
		p.stats.DecActive()
	}()

	buf := make([]byte, maxReadBuffer)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		if err != nil && err != io.EOF && p.log != nil {
			p.log.WithError(err).Debug("connection read failed")
		}
		return
	}

	req, ok := parseRequestLine(buf[:n])
	if !ok {
		p.respondError(conn, 400, false)
		return
	}

	head := req.method == "HEAD"
	if req.method != "GET" && req.method != "HEAD" {
		p.respondError(conn, 501, head)
		return
	}

	switch builtinTarget(req.target) {
	case "/health":
		p.serveHealth(conn, head)
		return
	case "/metrics":
		p.serveMetrics(conn, head)
		return
	case "/stats":
		p.serveStats(conn, head)
		return
	}

	rel := relativePath(req.target)
	if strings.Contains(rel, "..") {
		p.respondError(conn, 403, head)
		return
	}

	p.serveFile(conn, filepath.Join(p.root, rel), head)
}

// serveFile implements spec.md §4.E's "File serving sub-protocol": a cache
// lookup first, then open/stat/cacheable-read-or-stream on miss.
func (p *pipeline) serveFile(conn net.Conn, fullPath string, head bool) {
	if p.cache != nil {
		if body, size, ok := p.cache.Get(fullPath); ok {
			p.sendBody(conn, fullPath, size, "HIT", body, head)
			return
		}
	}

	f, err := os.Open(fullPath)
	if err != nil {
		p.respondError(conn, 404, head)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		p.respondError(conn, 500, head)
		return
	}
	if info.IsDir() {
		p.respondError(conn, 403, head)
		return
	}

	size := info.Size()
	cacheable := p.cache != nil && size > 0 && size < cache.MaxFileSize

	if cacheable {
		body := make([]byte, size)
		rn, rerr := io.ReadFull(f, body)
		if rerr == nil && int64(rn) == size {
			p.cache.Put(fullPath, body, size)
			p.sendBody(conn, fullPath, size, "MISS", body, head)
			return
		}
		// Short read or allocation trouble: rewind and fall through to the
		// zero-copy streaming path below instead of caching a partial body.
		if _, err = f.Seek(0, io.SeekStart); err != nil {
			p.respondError(conn, 500, head)
			return
		}
	}

	if err = writeHeader(conn, 200, mime.TypeByPath(fullPath), size, ""); err != nil {
		return
	}
	if !head {
		// io.Copy hands off to (*net.TCPConn).ReadFrom when conn is a TCP
		// connection and f is an *os.File, which uses sendfile(2) under the
		// hood - the zero-copy facility spec.md §4.E asks for, with the
		// short-send/EINTR looping handled inside the runtime's copy path.
		_, _ = io.Copy(conn, f)
	}

	p.stats.Update(size, 200)
}

func (p *pipeline) sendBody(conn net.Conn, fullPath string, size int64, xCache string, body []byte, head bool) {
	if err := writeHeader(conn, 200, mime.TypeByPath(fullPath), size, xCache); err != nil {
		return
	}
	if !head {
		_, _ = conn.Write(body)
	}
	p.stats.Update(size, 200)
}
