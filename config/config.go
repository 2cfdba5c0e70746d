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

// Package config loads the server's immutable configuration record from a
// flat KEY=VALUE file, defined entirely by spec.md §6 - intentionally not
// layered on any ecosystem config library, since the grammar here is
// strictly simpler than what those libraries parse.
package config

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config is the immutable record loaded once at master startup and copied
// unchanged into each forked worker.
type Config struct {
	Port             int
	DocumentRoot     string
	NumWorkers       int
	TimeoutSeconds   int
	CacheSizeMB      int
	ThreadsPerWorker int
}

// Default returns the configuration spec.md §6 mandates when no config
// file is present.
func Default() Config {
	return Config{
		Port:             8080,
		DocumentRoot:     "/var/www/html",
		NumWorkers:       4,
		TimeoutSeconds:   30,
		CacheSizeMB:      10,
		ThreadsPerWorker: 10,
	}
}

// Load reads path and overlays recognized keys onto Default(). A missing
// file is not an error: the defaults are returned as-is, matching spec.md
// §4.G step 1 ("Defaults if the file is absent").
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, codeOpen.ErrorParent(err)
	}
	defer f.Close()

	if err = apply(&cfg, f); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func apply(cfg *Config, r io.Reader) error {
	sc := bufio.NewScanner(r)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "PORT":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.Port = n
			}
		case "NUM_WORKERS":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.NumWorkers = n
			}
		case "TIMEOUT_SECONDS":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.TimeoutSeconds = n
			}
		case "CACHE_SIZE_MB":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.CacheSizeMB = n
			}
		case "THREADS_PER_WORKER":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.ThreadsPerWorker = n
			}
		case "DOCUMENT_ROOT":
			cfg.DocumentRoot = value
		}
		// unknown keys are ignored, per spec.md §6
	}

	return sc.Err()
}
