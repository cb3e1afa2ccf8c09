// Copyright © SAS Institute Inc.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const rfc3339Milli = "2006-01-02T15:04:05.000Z07:00" // RFC3339 with 3 decimal places, padded

// Setup initializes the global zerolog logger. An empty logFile writes
// console text to stderr, "-" writes JSON to stderr, and anything else is a
// path that JSON lines are appended to.
func Setup(levelName, logFile string) (io.Closer, error) {
	zerolog.TimeFieldFormat = rfc3339Milli
	zerolog.DurationFieldInteger = true
	var closer io.Closer = nopCloser{}
	var w io.Writer
	switch logFile {
	case "-":
		// write JSON to stderr
		w = os.Stderr
	case "":
		// write pretty text to stderr
		w = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
	default:
		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return nil, fmt.Errorf("log_file: %w", err)
		}
		w, closer = f, f
	}
	logger, err := NewLogger(w, levelName)
	if err != nil {
		closer.Close()
		return nil, err
	}
	log.Logger = logger
	// pass stdlib logger through
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
	return closer, nil
}

// NewLogger builds a timestamped logger at the named level, defaulting to info
func NewLogger(w io.Writer, levelName string) (zerolog.Logger, error) {
	if levelName == "" {
		levelName = zerolog.InfoLevel.String()
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("log_level: %w", err)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
