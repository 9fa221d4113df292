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

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LogTestSuite struct {
	suite.Suite
	saved int
}

func (s *LogTestSuite) SetupTest() {
	s.saved = Level()
}

func (s *LogTestSuite) TearDownTest() {
	SetLevel(s.saved)
}

func (s *LogTestSuite) TestLogColor() {
	SetLevel(LevelTrace)
	var out bytes.Buffer
	l := New("color", &out)

	l.Tracef("this is tracef %s", "hello world")
	l.Debugf("this is debugf %s", "hello world")
	l.Infof("this is infof %s", "hello world")
	l.Info("this is info")
	l.Warnf("this is warnf %s", "hello world")
	l.Errorf("this is errorf %s", "hello world")
	l.Error("this is error")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	s.Len(lines, 7)
	s.Contains(lines[0], "Trace")
	s.Contains(lines[0], "log_test.go:")
	s.Contains(lines[6], "this is error")
}

func (s *LogTestSuite) TestLevelFilters() {
	SetLevel(LevelWarn)
	var out bytes.Buffer
	l := New("filter", &out)
	l.Infof("hidden")
	l.Debugf("hidden")
	s.Empty(out.String())
	l.Warnf("shown %d", 1)
	s.Contains(out.String(), "shown 1")
}

func (s *LogTestSuite) TestSetLevelIgnoresOutOfRange() {
	SetLevel(LevelInfo)
	SetLevel(42)
	SetLevel(-1)
	s.Equal(LevelInfo, Level())
}

func TestLogTestSuite(t *testing.T) {
	suite.Run(t, new(LogTestSuite))
}
