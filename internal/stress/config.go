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

// Package stress hammers the atomic facade from many goroutines and checks
// that no update is lost.
package stress

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ScenarioAdd     = "add"
	ScenarioIncDec  = "incdec"
	ScenarioXchg    = "xchg"
	ScenarioCmpxchg = "cmpxchg"

	Width8   = "8"
	Width16  = "16"
	Width32  = "32"
	Width64  = "64"
	WidthPtr = "ptr"
)

var (
	AllScenarios = []string{ScenarioAdd, ScenarioIncDec, ScenarioXchg, ScenarioCmpxchg}
	AllWidths    = []string{Width8, Width16, Width32, Width64, WidthPtr}
)

// ErrInvalidConfig is wrapped by every VerifyConfig failure.
var ErrInvalidConfig = errors.New("stress: invalid config")

// Config describes one stress run. Every scenario runs once per width, all
// of them concurrently.
type Config struct {
	Scenarios  []string `yaml:"scenarios"`
	Widths     []string `yaml:"widths"`
	Workers    int      `yaml:"workers"`
	Iterations int      `yaml:"iterations"`
	// PoolSize caps the goroutines shared by all scenarios. Zero sizes the
	// pool so every worker of every scenario runs at once.
	PoolSize int `yaml:"poolSize"`
	// CASMaxRetries bounds the retries of one compare-and-swap increment.
	CASMaxRetries uint64 `yaml:"casMaxRetries"`
	// RegionSize is the size of the heap region cells are allocated from
	// when no region is supplied.
	RegionSize int `yaml:"regionSize"`
}

// DefaultConfig returns the default config.
func DefaultConfig() *Config {
	return &Config{
		Scenarios:     append([]string(nil), AllScenarios...),
		Widths:        append([]string(nil), AllWidths...),
		Workers:       8,
		Iterations:    10000,
		CASMaxRetries: 1 << 20,
		RegionSize:    4096,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stress: read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("stress: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// cells is the number of atomic cells a run allocates.
func (c *Config) cells() int {
	return len(c.Scenarios) * len(c.Widths)
}

func (c *Config) poolSize() int {
	if c.PoolSize > 0 {
		return c.PoolSize
	}
	return c.Workers * c.cells()
}

// VerifyConfig is used to verify the sanity of configuration.
func VerifyConfig(c *Config) error {
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("%w: no scenarios", ErrInvalidConfig)
	}
	for i, s := range c.Scenarios {
		if !contains(AllScenarios, s) {
			return fmt.Errorf("%w: unknown scenario %q", ErrInvalidConfig, s)
		}
		if contains(c.Scenarios[:i], s) {
			return fmt.Errorf("%w: duplicate scenario %q", ErrInvalidConfig, s)
		}
	}
	if len(c.Widths) == 0 {
		return fmt.Errorf("%w: no widths", ErrInvalidConfig)
	}
	for i, w := range c.Widths {
		if !contains(AllWidths, w) {
			return fmt.Errorf("%w: unknown width %q", ErrInvalidConfig, w)
		}
		if contains(c.Widths[:i], w) {
			return fmt.Errorf("%w: duplicate width %q", ErrInvalidConfig, w)
		}
	}
	if c.Workers <= 0 || c.Iterations <= 0 {
		return fmt.Errorf("%w: workers=%d iterations=%d must be positive", ErrInvalidConfig, c.Workers, c.Iterations)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: poolSize=%d", ErrInvalidConfig, c.PoolSize)
	}
	if c.CASMaxRetries == 0 {
		return fmt.Errorf("%w: casMaxRetries must be positive", ErrInvalidConfig)
	}
	if need := 8 + 8*c.cells(); c.RegionSize < need {
		return fmt.Errorf("%w: regionSize=%d, need at least %d", ErrInvalidConfig, c.RegionSize, need)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
