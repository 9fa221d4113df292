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
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/srediag/hwatomic/internal/log"
	"github.com/srediag/hwatomic/pkg/atomic"
	"github.com/srediag/hwatomic/pkg/shm"
)

var logger = log.New("stress", nil)

// Options carries the collaborators of a Runner. Zero values are replaced
// by a private registry, a no-op tracer and a heap region.
type Options struct {
	Registerer prometheus.Registerer
	Tracer     trace.Tracer
	// Region holds the cells. A caller-supplied region is not closed by
	// the runner.
	Region *shm.Region
}

// Runner executes a Config.
type Runner struct {
	cfg        *Config
	pool       *ants.Pool
	region     *shm.Region
	ownsRegion bool
	arena      *shm.Arena
	results    cmap.ConcurrentMap[string, Result]
	metrics    *metrics
	tracer     trace.Tracer
}

// NewRunner verifies cfg and prepares the worker pool and the cell arena.
func NewRunner(cfg *Config, opts Options) (*Runner, error) {
	if err := VerifyConfig(cfg); err != nil {
		return nil, err
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("stress: register metrics: %w", err)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("github.com/srediag/hwatomic/internal/stress")
	}

	r := &Runner{
		cfg:     cfg,
		results: cmap.New[Result](),
		metrics: m,
		tracer:  tracer,
		region:  opts.Region,
	}
	if r.region == nil {
		if r.region, err = shm.NewHeapRegion(cfg.RegionSize); err != nil {
			return nil, err
		}
		r.ownsRegion = true
	}
	if r.arena, err = shm.NewArena(r.region); err != nil {
		r.closeRegion()
		return nil, err
	}
	r.pool, err = ants.NewPool(cfg.poolSize(), ants.WithPanicHandler(func(p interface{}) {
		logger.Errorf("stress worker panic: %v", p)
	}))
	if err != nil {
		r.closeRegion()
		return nil, fmt.Errorf("stress: worker pool: %w", err)
	}
	return r, nil
}

// Region returns the region holding the cells.
func (r *Runner) Region() *shm.Region {
	return r.region
}

// Run executes every scenario at every width concurrently and returns the
// report. Each run resets the arena and reuses the same cells. The error
// joins an ErrLostUpdate per failed result; the report is returned
// alongside it.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.arena.Reset()
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, sc := range r.cfg.Scenarios {
		for _, w := range r.cfg.Widths {
			sc, w := sc, w
			g.Go(func() error {
				res, err := r.runOne(gctx, sc, w)
				if err != nil {
					return err
				}
				r.results.Set(res.key(), res)
				r.metrics.observe(res)
				if res.OK {
					logger.Infof("%s/%s ok: %d ops, %d retries in %s", sc, w, res.Ops, res.Retries, res.Duration)
				} else {
					logger.Errorf("%s/%s lost update: final %s, want %s", sc, w, res.Final, res.Expected)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{
		Platform: atomic.Platform(),
		Host:     hostInfo(),
		Elapsed:  time.Since(start),
	}
	for _, res := range r.results.Items() {
		rep.Results = append(rep.Results, res)
	}
	sort.Slice(rep.Results, func(i, j int) bool {
		return rep.Results[i].key() < rep.Results[j].key()
	})

	var errs []error
	for _, res := range rep.Failed() {
		errs = append(errs, fmt.Errorf("%w: %s/%s final %s, want %s", ErrLostUpdate, res.Scenario, res.Width, res.Final, res.Expected))
	}
	return rep, errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, scenario, width string) (Result, error) {
	switch width {
	case Width8:
		return runScenario[uint8](ctx, r, scenario, width)
	case Width16:
		return runScenario[int16](ctx, r, scenario, width)
	case Width32:
		return runScenario[uint32](ctx, r, scenario, width)
	case Width64:
		return runScenario[int64](ctx, r, scenario, width)
	case WidthPtr:
		return runScenario[uintptr](ctx, r, scenario, width)
	}
	return Result{}, fmt.Errorf("%w: unknown width %q", ErrInvalidConfig, width)
}

// Close releases the worker pool and a runner-owned region.
func (r *Runner) Close() error {
	r.pool.Release()
	return r.closeRegion()
}

func (r *Runner) closeRegion() error {
	if !r.ownsRegion {
		return nil
	}
	return r.region.Close()
}
