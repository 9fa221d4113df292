/*
 * Copyright 2025 SREDiag Authors
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package log is the leveled logger shared by the shm layer, the health
// checks and the stress harness. The atomic primitives never log.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/srediag/hwatomic/pkg/atomic"
)

const (
	LevelTrace = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelNoPrint
)

// EnvLevel names the environment variable read at start-up.
const EnvLevel = "HWATOMIC_LOG_LEVEL"

var (
	level int32 = LevelWarn

	magenta = string([]byte{27, 91, 57, 53, 109}) // Trace
	green   = string([]byte{27, 91, 57, 50, 109}) // Debug
	blue    = string([]byte{27, 91, 57, 52, 109}) // Info
	yellow  = string([]byte{27, 91, 57, 51, 109}) // Warn
	red     = string([]byte{27, 91, 57, 49, 109}) // Error
	reset   = string([]byte{27, 91, 48, 109})

	colors    = []string{magenta, green, blue, yellow, red}
	levelName = []string{"Trace", "Debug", "Info", "Warn", "Error"}
)

func init() {
	if v := os.Getenv(EnvLevel); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			SetLevel(n)
		}
	}
}

// SetLevel changes the level of every Logger. The default is LevelWarn.
func SetLevel(l int) {
	if l >= LevelTrace && l <= LevelNoPrint {
		atomic.Store(int32(l), &level)
	}
}

// Level returns the current level.
func Level() int {
	return int(atomic.Load(&level))
}

// Logger writes coloured lines prefixed with level, time, caller and name.
type Logger struct {
	name      string
	out       io.Writer
	callDepth int
}

// New returns a Logger writing to out, or to stdout when out is nil.
func New(name string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{name: name, out: out, callDepth: 3}
}

func (l *Logger) enabled(lv int) bool {
	return Level() <= lv
}

func (l *Logger) printf(lv int, format string, a ...interface{}) {
	if !l.enabled(lv) {
		return
	}
	if _, err := fmt.Fprintf(l.out, l.prefix(lv)+format+reset+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "logger write failed: %v\n", err)
	}
}

func (l *Logger) println(lv int, v interface{}) {
	if !l.enabled(lv) {
		return
	}
	if _, err := fmt.Fprintln(l.out, l.prefix(lv), v, reset); err != nil {
		fmt.Fprintf(os.Stderr, "logger write failed: %v\n", err)
	}
}

func (l *Logger) Errorf(format string, a ...interface{}) { l.printf(LevelError, format, a...) }

func (l *Logger) Error(v interface{}) { l.println(LevelError, v) }

func (l *Logger) Warnf(format string, a ...interface{}) { l.printf(LevelWarn, format, a...) }

func (l *Logger) Infof(format string, a ...interface{}) { l.printf(LevelInfo, format, a...) }

func (l *Logger) Info(v interface{}) { l.println(LevelInfo, v) }

func (l *Logger) Debugf(format string, a ...interface{}) { l.printf(LevelDebug, format, a...) }

func (l *Logger) Tracef(format string, a ...interface{}) { l.printf(LevelTrace, format, a...) }

func (l *Logger) prefix(lv int) string {
	var buffer [64]byte
	buf := bytes.NewBuffer(buffer[:0])
	_, _ = buf.WriteString(colors[lv])
	_, _ = buf.WriteString(levelName[lv])
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(time.Now().Format("2006-01-02 15:04:05.999999"))
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.location())
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.name)
	_ = buf.WriteByte(' ')
	return buf.String()
}

// location reports the caller of the exported method: printf/println, the
// exported method and prefix sit between it and runtime.Caller.
func (l *Logger) location() string {
	_, file, line, ok := runtime.Caller(l.callDepth + 1)
	if !ok {
		file = "???"
		line = 0
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
