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
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/suite"

	"github.com/srediag/hwatomic/pkg/shm"
)

type RunnerTestSuite struct {
	suite.Suite
	reg *prometheus.Registry
	cfg *Config
}

func (s *RunnerTestSuite) SetupTest() {
	s.reg = prometheus.NewRegistry()
	s.cfg = DefaultConfig()
	s.cfg.Workers = 6
	s.cfg.Iterations = 2000
	if testing.Short() {
		s.cfg.Iterations = 200
	}
}

func (s *RunnerTestSuite) TestRunAllScenarios() {
	r, err := NewRunner(s.cfg, Options{Registerer: s.reg})
	s.Require().NoError(err)
	defer r.Close()

	rep, err := r.Run(context.Background())
	s.Require().NoError(err)
	s.Len(rep.Results, len(AllScenarios)*len(AllWidths))
	s.Empty(rep.Failed())
	for _, res := range rep.Results {
		s.Truef(res.OK, "%s/%s final %s want %s", res.Scenario, res.Width, res.Final, res.Expected)
		s.Zero(res.Failures)
	}

	ops := testutil.ToFloat64(r.metrics.ops.WithLabelValues(ScenarioAdd, Width8))
	s.Equal(float64(s.cfg.Workers*s.cfg.Iterations), ops)
	s.Equal(0.0, testutil.ToFloat64(r.metrics.lost.WithLabelValues(ScenarioXchg, Width64)))

	families, err := s.reg.Gather()
	s.Require().NoError(err)
	names := map[string]*dto.MetricFamily{}
	for _, f := range families {
		names[f.GetName()] = f
	}
	s.Contains(names, "hwatomic_stress_operations_total")
	s.Contains(names, "hwatomic_stress_run_seconds")
	s.Len(names["hwatomic_stress_lost_updates"].GetMetric(), len(AllScenarios)*len(AllWidths))
}

func (s *RunnerTestSuite) TestRunIsRepeatable() {
	s.cfg.Scenarios = []string{ScenarioIncDec}
	s.cfg.Widths = []string{Width16}
	r, err := NewRunner(s.cfg, Options{Registerer: s.reg})
	s.Require().NoError(err)
	defer r.Close()

	for i := 0; i < 2; i++ {
		rep, err := r.Run(context.Background())
		s.Require().NoError(err)
		s.Require().Len(rep.Results, 1)
		s.True(rep.Results[0].OK)
	}
}

func (s *RunnerTestSuite) TestSmallPoolSharedByScenarios() {
	s.cfg.PoolSize = 2
	s.cfg.Widths = []string{Width32, WidthPtr}
	r, err := NewRunner(s.cfg, Options{Registerer: s.reg})
	s.Require().NoError(err)
	defer r.Close()

	rep, err := r.Run(context.Background())
	s.Require().NoError(err)
	s.Len(rep.Results, len(AllScenarios)*2)
}

func (s *RunnerTestSuite) TestCallerRegionIsNotClosed() {
	region, err := shm.NewHeapRegion(4096)
	s.Require().NoError(err)
	r, err := NewRunner(s.cfg, Options{Registerer: s.reg, Region: region})
	s.Require().NoError(err)
	s.Same(region, r.Region())
	s.NoError(r.Close())
	s.False(region.Closed())
	s.NoError(region.Close())
}

func (s *RunnerTestSuite) TestCancelledContext() {
	r, err := NewRunner(s.cfg, Options{Registerer: s.reg})
	s.Require().NoError(err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	s.ErrorIs(err, context.Canceled)
}

func (s *RunnerTestSuite) TestInvalidConfigAndDuplicateRegistration() {
	bad := DefaultConfig()
	bad.Workers = -1
	_, err := NewRunner(bad, Options{})
	s.ErrorIs(err, ErrInvalidConfig)

	r, err := NewRunner(s.cfg, Options{Registerer: s.reg})
	s.Require().NoError(err)
	defer r.Close()
	_, err = NewRunner(s.cfg, Options{Registerer: s.reg})
	s.Error(err, "metrics can be registered once per registry")
}

func (s *RunnerTestSuite) TestReportRendering() {
	rep := &Report{
		Results: []Result{
			{Scenario: ScenarioAdd, Width: Width8, Ops: 10, Final: "1", Expected: "1", OK: true},
			{Scenario: ScenarioXchg, Width: Width64, Ops: 10, Final: "3", Expected: "4"},
		},
	}
	var out bytes.Buffer
	n, err := rep.WriteTo(&out)
	s.Require().NoError(err)
	s.Equal(int64(out.Len()), n)
	s.Contains(out.String(), "LOST UPDATE")
	s.Contains(out.String(), "2 results, 1 failed")
	s.Len(rep.Failed(), 1)
}

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}
