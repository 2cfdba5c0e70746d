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

// Package httpd implements the raw HTTP/1.1 request/response pipeline: one
// connection, one request, one response, no persistent connections, no
// pipelining. It owns request-line parsing, the three built-in observability
// endpoints, the traversal guard, and the file-serving sub-protocol.
package httpd

import (
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/prefork/staticd/cache"
	"github.com/prefork/staticd/stats"
)

// Server identifies this implementation in the Server response header.
const Server = "TemplateHTTP/1.0"

// Pipeline serves exactly one connection per call to Serve.
type Pipeline interface {
	// Serve consumes conn end to end: reads the request, writes exactly one
	// response, and closes conn before returning. It never panics on
	// malformed input or filesystem errors - those are converted to HTTP
	// status codes.
	Serve(conn net.Conn)
}

// New builds a Pipeline rooted at documentRoot. cache may be nil-like (use
// cache.NewDisabled()) when the worker's cache capacity is zero.
func New(documentRoot string, c cache.Cache, s stats.Stats, log logrus.FieldLogger) (Pipeline, error) {
	if documentRoot == "" {
		return nil, ErrEmptyRoot
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(stats.NewCollector(s))

	return &pipeline{
		root:  documentRoot,
		cache: c,
		stats: s,
		log:   log,
		reg:   reg,
	}, nil
}
