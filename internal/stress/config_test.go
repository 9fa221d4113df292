/*
 * Copyright 2025 SREDiag Authors
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

package stress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) TestVerifyConfig() {
	s.Require().NoError(VerifyConfig(DefaultConfig()))

	config := DefaultConfig()
	config.Scenarios = nil
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)

	config = DefaultConfig()
	config.Scenarios = []string{"fetch-or"}
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)

	config = DefaultConfig()
	config.Widths = []string{"128"}
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)

	config = DefaultConfig()
	config.Scenarios = []string{ScenarioAdd, ScenarioXchg, ScenarioAdd}
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)

	config = DefaultConfig()
	config.Widths = []string{Width8, Width8}
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)

	config = DefaultConfig()
	config.Workers = 0
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)

	config = DefaultConfig()
	config.PoolSize = -1
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)

	config = DefaultConfig()
	config.CASMaxRetries = 0
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)

	config = DefaultConfig()
	config.RegionSize = 8 + 8*config.cells() - 1
	s.Require().ErrorIs(VerifyConfig(config), ErrInvalidConfig)
	config.RegionSize++
	s.Require().NoError(VerifyConfig(config))
}

func (s *ConfigTestSuite) TestPoolSize() {
	config := DefaultConfig()
	s.Equal(config.Workers*len(AllScenarios)*len(AllWidths), config.poolSize())
	config.PoolSize = 3
	s.Equal(3, config.poolSize())
}

func (s *ConfigTestSuite) TestLoadConfig() {
	path := filepath.Join(s.T().TempDir(), "stress.yaml")
	data := []byte("scenarios: [add, xchg]\nwidths: [\"8\", ptr]\nworkers: 3\ncasMaxRetries: 64\n")
	s.Require().NoError(os.WriteFile(path, data, 0o600))

	config, err := LoadConfig(path)
	s.Require().NoError(err)
	s.Equal([]string{ScenarioAdd, ScenarioXchg}, config.Scenarios)
	s.Equal([]string{Width8, WidthPtr}, config.Widths)
	s.Equal(3, config.Workers)
	s.Equal(uint64(64), config.CASMaxRetries)
	s.Equal(DefaultConfig().Iterations, config.Iterations, "unset keys keep their defaults")
	s.NoError(VerifyConfig(config))

	_, err = LoadConfig(filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)

	s.Require().NoError(os.WriteFile(path, []byte("workers: [1"), 0o600))
	_, err = LoadConfig(path)
	s.Error(err)
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
