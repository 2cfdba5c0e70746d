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

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// maxFileSize is the rotation threshold spec.md §6 "Persisted state" names.
const maxFileSize = 10 * 1 << 20 // 10 MiB

// HookFile is the rotating file hook: a mutex-guarded *os.File that reopens
// itself on a seek failure and renames itself past maxFileSize before the
// next write, exactly as spec.md's log-rotation contract requires.
type HookFile struct {
	mu   sync.Mutex
	path string
	mode os.FileMode
	h    *os.File
	lvls []logrus.Level
}

// NewHookFile opens (creating if needed) the log file at path and returns a
// hook ready to register on a *logrus.Logger.
func NewHookFile(path string, lvls []logrus.Level) (*HookFile, error) {
	if len(lvls) == 0 {
		lvls = logrus.AllLevels
	}

	o := &HookFile{path: path, mode: 0o644, lvls: lvls}

	h, err := o.open()
	if err != nil {
		return nil, err
	}
	o.h = h

	return o, nil
}

func (o *HookFile) open() (*os.File, error) {
	h, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, o.mode)
	if err != nil {
		return nil, err
	}
	if _, err = h.Seek(0, io.SeekEnd); err != nil {
		_ = h.Close()
		return nil, err
	}
	return h, nil
}

// rotate renames the current file to <name>.<YYYYMMDD_HHMMSS> and reopens a
// fresh one at the original path. Caller must hold mu.
func (o *HookFile) rotate() error {
	if o.h != nil {
		_ = o.h.Close()
	}

	stamp := time.Now().Format("20060102_150405")
	if err := os.Rename(o.path, fmt.Sprintf("%s.%s", o.path, stamp)); err != nil && !os.IsNotExist(err) {
		return err
	}

	h, err := o.open()
	if err != nil {
		return err
	}
	o.h = h
	return nil
}

// checkRotate stats the open file before a write batch and rotates it past
// maxFileSize. Caller must hold mu.
func (o *HookFile) checkRotate() {
	if o.h == nil {
		return
	}

	info, err := o.h.Stat()
	if err != nil || info.Size() < maxFileSize {
		return
	}

	_ = o.rotate()
}

func (o *HookFile) Levels() []logrus.Level {
	return o.lvls
}

func (o *HookFile) Fire(entry *logrus.Entry) error {
	line, err := entry.Bytes()
	if err != nil {
		return err
	}
	_, err = o.Write(line)
	return err
}

func (o *HookFile) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.checkRotate()

	if o.h == nil {
		h, err := o.open()
		if err != nil {
			return 0, fmt.Errorf("logging.HookFile: cannot open %q: %w", o.path, err)
		}
		o.h = h
	} else if _, err := o.h.Seek(0, io.SeekEnd); err != nil {
		if err = o.rotate(); err != nil {
			return 0, fmt.Errorf("logging.HookFile: cannot reopen %q: %w", o.path, err)
		}
	}

	return o.h.Write(p)
}

func (o *HookFile) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.h == nil {
		return nil
	}

	err := o.h.Close()
	o.h = nil
	return err
}
