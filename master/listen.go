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

	"golang.org/x/sys/unix"
)

const listenBacklog = 128

// listen binds the configured port on all interfaces with SO_REUSEADDR
// always set, SO_REUSEPORT set best-effort, and a fixed backlog (spec.md
// §4.G step 4). The socket is built with raw unix syscalls rather than
// net.Listen because net.ListenConfig exposes no backlog knob, and
// SO_REUSEPORT has to be set between socket(2) and bind(2).
func listen(port int) (*net.TCPListener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, codeListen.ErrorParent(err)
	}

	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, codeListen.ErrorParent(err)
	}
	// Best-effort: kernels without SO_REUSEPORT support still bind and
	// listen correctly, just without the kernel-level fan-out across
	// duplicate sockets.
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)

	addr := unix.SockaddrInet4{Port: port}
	if err = unix.Bind(fd, &addr); err != nil {
		_ = unix.Close(fd)
		return nil, codeListen.ErrorParent(err)
	}

	if err = unix.Listen(fd, listenBacklog); err != nil {
		_ = unix.Close(fd)
		return nil, codeListen.ErrorParent(err)
	}

	f := os.NewFile(uintptr(fd), "staticd-listener")
	ln, err := net.FileListener(f)
	_ = f.Close()
	if err != nil {
		return nil, codeListen.ErrorParent(err)
	}

	tl, ok := ln.(*net.TCPListener)
	if !ok {
		_ = ln.Close()
		return nil, codeListen.Error()
	}

	return tl, nil
}
