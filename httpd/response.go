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
	"fmt"
	"io"
	"net"
	"strings"
)

func reasonPhrase(code int) string {
	switch code {
	case 200:
		return "OK"
	case 400:
		return "Bad Request"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 503:
		return "Service Unavailable"
	default:
		return "Unknown"
	}
}

// errorBody renders the minimal HTML body for 400/403/404/500/501, and the
// longer, explanatory body spec.md §6 requires for 503.
func errorBody(code int) string {
	reason := reasonPhrase(code)
	if code == 503 {
		return "<html><body><h1>503 Service Unavailable</h1>" +
			"<p>The server is temporarily unable to handle this request " +
			"because its connection queue is full. Please retry shortly.</p>" +
			"</body></html>"
	}
	return fmt.Sprintf("<h1>%d %s</h1>", code, reason)
}

// writeHeader writes the status line and headers exactly in the order
// spec.md §4.E's "Response header format" names, followed by the blank
// line separating headers from body.
func writeHeader(w io.Writer, code int, contentType string, length int64, xCache string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", code, reasonPhrase(code))
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&b, "Content-Length: %d\r\n", length)
	fmt.Fprintf(&b, "Server: %s\r\n", Server)

	if xCache != "" {
		fmt.Fprintf(&b, "X-Cache: %s\r\n", xCache)
	}
	if code == 503 {
		b.WriteString("Retry-After: 1\r\n")
	}

	b.WriteString("Connection: close\r\n\r\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// respondError writes a full error response (headers plus body, body
// omitted for HEAD) and reports the outcome to stats. The byte count recorded
// is the body length, also for HEAD where the body is not sent.
func (p *pipeline) respondError(conn net.Conn, code int, head bool) {
	body := errorBody(code)

	if err := writeHeader(conn, code, "text/html", int64(len(body)), ""); err != nil {
		return
	}
	if !head {
		_, _ = io.WriteString(conn, body)
	}

	p.stats.Update(int64(len(body)), code)
}

// RespondServiceUnavailable writes the 503/Retry-After response used by the
// worker's admission-control rejection path, independent of any Pipeline -
// the queue is already known to be full, there is nothing left to parse.
func RespondServiceUnavailable(conn net.Conn) error {
	body := errorBody(503)
	if err := writeHeader(conn, 503, "text/html", int64(len(body)), ""); err != nil {
		return err
	}
	_, err := io.WriteString(conn, body)
	return err
}
