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
	"io"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// HookStandard is the diagnostic-stream hook: colorized stdout, for a human
// watching the process directly (as opposed to the rotating file meant for
// later inspection).
type HookStandard struct {
	w    io.Writer
	lvls []logrus.Level
}

// NewHookStandard returns a hook writing to a colorable stdout.
func NewHookStandard(lvls []logrus.Level) *HookStandard {
	if len(lvls) == 0 {
		lvls = logrus.AllLevels
	}

	return &HookStandard{
		w:    colorable.NewColorableStdout(),
		lvls: lvls,
	}
}

func (o *HookStandard) Levels() []logrus.Level {
	return o.lvls
}

func (o *HookStandard) Fire(entry *logrus.Entry) error {
	line, err := entry.Bytes()
	if err != nil {
		return err
	}
	_, err = o.w.Write(line)
	return err
}
