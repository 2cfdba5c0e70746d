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
	"strings"
)

const (
	maxReadBuffer = 8192
	maxMethodLen  = 15
	maxTargetLen  = 511
	maxVersionLen = 15
)

// requestLine is the parsed first line of an HTTP/1.1 request.
type requestLine struct {
	method  string
	target  string
	version string
}

// parseRequestLine extracts and bounds-checks the request line out of the
// raw bytes read from the socket. It never looks past the first line: body
// bytes (there are none the pipeline cares about, GET/HEAD carry no body)
// are simply ignored.
func parseRequestLine(buf []byte) (requestLine, bool) {
	line := buf
	if idx := bytes.IndexByte(buf, '\n'); idx >= 0 {
		line = buf[:idx]
	}
	line = bytes.TrimRight(line, "\r\n")

	parts := bytes.SplitN(line, []byte(" "), 3)
	if len(parts) != 3 {
		return requestLine{}, false
	}

	method, target, version := parts[0], parts[1], parts[2]
	if len(method) == 0 || len(method) > maxMethodLen {
		return requestLine{}, false
	}
	if len(target) == 0 || len(target) > maxTargetLen {
		return requestLine{}, false
	}
	if len(version) == 0 || len(version) > maxVersionLen {
		return requestLine{}, false
	}

	return requestLine{method: string(method), target: string(target), version: string(version)}, true
}

// stripQuery drops everything from the first '?' onward.
func stripQuery(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

// relativePath computes the filesystem-relative path per spec.md §4.E step
// 5: "/" maps to "/index.html", otherwise the query string is stripped.
func relativePath(target string) string {
	if target == "/" {
		return "/index.html"
	}
	return stripQuery(target)
}

// builtinTarget normalizes target for matching against the three built-in
// endpoints: query string stripped, one optional trailing slash tolerated.
func builtinTarget(target string) string {
	t := stripQuery(target)
	if t != "/" {
		t = strings.TrimSuffix(t, "/")
	}
	return t
}
