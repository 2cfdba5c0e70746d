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
	"bytes"
	"encoding/json"
	"io"
	"net"

	"github.com/prometheus/common/expfmt"
)

type healthBody struct {
	Status            string `json:"status"`
	ActiveConnections uint64 `json:"active_connections"`
	TotalRequests     uint64 `json:"total_requests"`
}

func (p *pipeline) serveHealth(conn net.Conn, head bool) {
	snap := p.stats.Snapshot()
	body, err := json.Marshal(healthBody{
		Status:            "ok",
		ActiveConnections: snap.ActiveConnections,
		TotalRequests:     snap.TotalRequests,
	})
	if err != nil {
		p.respondError(conn, 500, head)
		return
	}
	p.writeJSON(conn, body, head)
}

func (p *pipeline) serveStats(conn net.Conn, head bool) {
	body, err := json.Marshal(p.stats.Snapshot())
	if err != nil {
		p.respondError(conn, 500, head)
		return
	}
	p.writeJSON(conn, body, head)
}

func (p *pipeline) writeJSON(conn net.Conn, body []byte, head bool) {
	if err := writeHeader(conn, 200, "application/json", int64(len(body)), ""); err != nil {
		return
	}
	if !head {
		_, _ = conn.Write(body)
	}
	p.stats.Update(int64(len(body)), 200)
}

// serveMetrics renders the registered collectors (just the stats snapshot
// adapter) in Prometheus text exposition format, the way promhttp.Handler
// would for a real net/http mux - but the raw pipeline owns the socket, so
// the encode target is a buffer instead of an http.ResponseWriter.
func (p *pipeline) serveMetrics(conn net.Conn, head bool) {
	mfs, err := p.reg.Gather()
	if err != nil {
		p.respondError(conn, 500, head)
		return
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, mf := range mfs {
		if err = enc.Encode(mf); err != nil {
			p.respondError(conn, 500, head)
			return
		}
	}

	if err = writeHeader(conn, 200, "text/plain; version=0.0.4", int64(buf.Len()), ""); err != nil {
		return
	}
	if !head {
		_, _ = io.Copy(conn, &buf)
	}

	p.stats.Update(int64(buf.Len()), 200)
}
