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

// Package logging wires up the process-wide *logrus.Logger: a rotating
// file hook for the persisted record and a colorized stdout hook for a
// human watching the process directly. Both are always active (spec.md §9
// Open Question 3: the spec mandates the rotating lineage).
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New builds a *logrus.Logger writing to logPath (rotating past 10 MiB)
// and to a colorized stdout. The returned io.Closer must be closed during
// graceful shutdown.
func New(logPath string) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)

	fileHook, err := NewHookFile(logPath, nil)
	if err != nil {
		return nil, nil, codeOpenFile.ErrorParent(err)
	}

	log.AddHook(fileHook)
	log.AddHook(NewHookStandard(nil))

	return log, fileHook, nil
}
