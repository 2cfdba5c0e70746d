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

package stats

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/xujiajun/mmap-go"
	"golang.org/x/sys/unix"
)

// Field layout inside the shared page. Each counter is a little-endian
// uint64; updateCount is internal bookkeeping for the every-15th-update log
// line and is not part of Snapshot.
const (
	fieldTotalRequests = iota
	fieldBytesSent
	fieldStatus200
	fieldStatus404
	fieldStatus5xx
	fieldActiveConnections
	fieldResponseTimeTotal
	fieldResponseTimeCount
	fieldUpdateCount
	fieldCount

	recordSize = fieldCount * 8
	pageSize   = 4096
)

type shared struct {
	mu   sync.Mutex
	fd   int
	file *os.File
	mem  mmap.MMap
	log  logrus.FieldLogger
}

func newAnonShared(log logrus.FieldLogger) (Stats, error) {
	fd, err := unix.MemfdCreate("staticd-stats", 0)
	if err != nil {
		return nil, codeMemfdCreate.ErrorParent(err)
	}

	if err = unix.Ftruncate(fd, pageSize); err != nil {
		_ = unix.Close(fd)
		return nil, codeFtruncate.ErrorParent(err)
	}

	return mapShared(fd, log)
}

func openShared(fd int, log logrus.FieldLogger) (Stats, error) {
	return mapShared(fd, log)
}

func mapShared(fd int, log logrus.FieldLogger) (Stats, error) {
	f := os.NewFile(uintptr(fd), "staticd-stats")

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return nil, codeMmap.ErrorParent(err)
	}

	return &shared{fd: fd, file: f, mem: m, log: log}, nil
}

// lock/unlock take a whole-file fcntl byte-range lock rather than a
// flock(2) lock: flock locks belong to the open file description, so
// master and every worker re-exec'd with this fd inherited via
// cmd.ExtraFiles would all be holding the very same lock instead of
// contending for it. fcntl locks are associated with (process, inode),
// so they stay exclusive across that fork+exec boundary. Because a process
// never contends with itself for an fcntl lock, mu serializes the goroutines
// of this process around it.
func (s *shared) lock() error {
	s.mu.Lock()
	if err := unix.FcntlFlock(s.file.Fd(), unix.F_SETLKW, &unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: io.SeekStart,
	}); err != nil {
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *shared) unlock() {
	_ = unix.FcntlFlock(s.file.Fd(), unix.F_SETLK, &unix.Flock_t{
		Type:   unix.F_UNLCK,
		Whence: io.SeekStart,
	})
	s.mu.Unlock()
}

func (s *shared) get(field int) uint64 {
	return binary.LittleEndian.Uint64(s.mem[field*8:])
}

func (s *shared) set(field int, v uint64) {
	binary.LittleEndian.PutUint64(s.mem[field*8:], v)
}

func (s *shared) Update(bytes int64, status int) {
	if err := s.lock(); err != nil {
		return
	}
	defer s.unlock()

	s.set(fieldTotalRequests, s.get(fieldTotalRequests)+1)
	s.set(fieldBytesSent, s.get(fieldBytesSent)+uint64(bytes))

	switch {
	case status == 200:
		s.set(fieldStatus200, s.get(fieldStatus200)+1)
	case status == 404:
		s.set(fieldStatus404, s.get(fieldStatus404)+1)
	case status >= 500:
		s.set(fieldStatus5xx, s.get(fieldStatus5xx)+1)
	}

	cnt := s.get(fieldUpdateCount) + 1
	s.set(fieldUpdateCount, cnt)

	if cnt%15 == 0 && s.log != nil {
		s.log.WithFields(logrus.Fields{
			"total_requests": s.get(fieldTotalRequests),
			"bytes_sent":     s.get(fieldBytesSent),
			"status_200":     s.get(fieldStatus200),
			"status_404":     s.get(fieldStatus404),
			"status_5xx":     s.get(fieldStatus5xx),
			"active":         s.get(fieldActiveConnections),
		}).Info("stats snapshot")
	}
}

func (s *shared) IncActive() {
	if err := s.lock(); err != nil {
		return
	}
	defer s.unlock()
	s.set(fieldActiveConnections, s.get(fieldActiveConnections)+1)
}

func (s *shared) DecActive() {
	if err := s.lock(); err != nil {
		return
	}
	defer s.unlock()

	if v := s.get(fieldActiveConnections); v > 0 {
		s.set(fieldActiveConnections, v-1)
	}
}

func (s *shared) AddResponseTime(ms int64) {
	if err := s.lock(); err != nil {
		return
	}
	defer s.unlock()

	s.set(fieldResponseTimeTotal, s.get(fieldResponseTimeTotal)+uint64(ms))
	s.set(fieldResponseTimeCount, s.get(fieldResponseTimeCount)+1)
}

func (s *shared) Snapshot() Snapshot {
	if err := s.lock(); err != nil {
		return Snapshot{}
	}
	defer s.unlock()

	return Snapshot{
		TotalRequests:       s.get(fieldTotalRequests),
		BytesSent:           s.get(fieldBytesSent),
		Status200:           s.get(fieldStatus200),
		Status404:           s.get(fieldStatus404),
		Status5xx:           s.get(fieldStatus5xx),
		ActiveConnections:   s.get(fieldActiveConnections),
		ResponseTimeTotalMS: s.get(fieldResponseTimeTotal),
		ResponseTimeCount:   s.get(fieldResponseTimeCount),
	}
}

func (s *shared) FD() int {
	return s.fd
}

func (s *shared) Cleanup() error {
	if s.mem != nil {
		_ = s.mem.Unmap()
	}
	return s.file.Close()
}
