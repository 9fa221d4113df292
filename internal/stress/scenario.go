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
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/srediag/hwatomic/pkg/atomic"
	"github.com/srediag/hwatomic/pkg/shm"
)

// ErrLostUpdate is returned when a scenario ends on a value that a correct
// set of atomic operations could not have produced.
var ErrLostUpdate = errors.New("stress: lost update")

var errContended = errors.New("stress: cas contended")

// Result is the outcome of one scenario at one width.
type Result struct {
	Scenario   string
	Width      string
	Workers    int
	Iterations int
	Ops        uint64
	Retries    uint64
	// Failures counts CAS increments that ran out of retries.
	Failures uint64
	Duration time.Duration
	Initial  string
	Final    string
	Expected string
	OK       bool
}

func (r Result) key() string {
	return r.Scenario + "/" + r.Width
}

// workerOutput is what each worker hands back through the ring buffer.
type workerOutput[T atomic.Word] struct {
	ops      uint64
	retries  uint64
	failures uint64
	// written and returned are wrapping sums of the values an xchg worker
	// stored and got back.
	written  T
	returned T
}

// ctxCheckMask sets how often workers look at the context.
const ctxCheckMask = 1<<10 - 1

func runScenario[T atomic.Word](ctx context.Context, r *Runner, scenario, width string) (Result, error) {
	cfg := r.cfg
	ctx, span := r.tracer.Start(ctx, "stress."+scenario, trace.WithAttributes(
		attribute.String("stress.width", width),
		attribute.Int("stress.workers", cfg.Workers),
		attribute.Int("stress.iterations", cfg.Iterations),
	))
	defer span.End()

	cell, err := shm.New[T](r.arena)
	if err != nil {
		span.RecordError(err)
		return Result{}, fmt.Errorf("stress: allocate %s/%s cell: %w", scenario, width, err)
	}
	v0 := T(0x5a)
	atomic.Store(v0, cell)

	ring := queue.NewRingBuffer(uint64(cfg.Workers))
	defer ring.Dispose()

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		w := w
		wg.Add(1)
		err := r.pool.Submit(func() {
			var out workerOutput[T]
			defer func() {
				_ = ring.Put(out)
				wg.Done()
			}()
			out = work(ctx, scenario, w, cfg, cell)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			span.RecordError(err)
			return Result{}, fmt.Errorf("stress: submit %s/%s worker: %w", scenario, width, err)
		}
	}
	wg.Wait()
	elapsed := time.Since(start)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var total workerOutput[T]
	for i := 0; i < cfg.Workers; i++ {
		item, err := ring.Get()
		if err != nil {
			return Result{}, fmt.Errorf("stress: collect %s/%s: %w", scenario, width, err)
		}
		out := item.(workerOutput[T])
		total.ops += out.ops
		total.retries += out.retries
		total.failures += out.failures
		total.written += out.written
		total.returned += out.returned
	}

	final := atomic.Load(cell)
	res := Result{
		Scenario:   scenario,
		Width:      width,
		Workers:    cfg.Workers,
		Iterations: cfg.Iterations,
		Ops:        total.ops,
		Retries:    total.retries,
		Failures:   total.failures,
		Duration:   elapsed,
		Initial:    fmt.Sprint(v0),
		Final:      fmt.Sprint(final),
	}
	n := cfg.Workers * cfg.Iterations
	switch scenario {
	case ScenarioAdd:
		res.Expected = fmt.Sprint(v0 + T(n))
		res.OK = final == v0+T(n)
	case ScenarioIncDec:
		want := v0 + T(cfg.Workers*(cfg.Iterations-cfg.Iterations/2))
		res.Expected = fmt.Sprint(want)
		res.OK = final == want
	case ScenarioCmpxchg:
		want := v0 + T(n) - T(total.failures)
		res.Expected = fmt.Sprint(want)
		res.OK = final == want && total.failures == 0
	case ScenarioXchg:
		// Every stored value comes back exactly once, from a later xchg or
		// as the final contents.
		want := v0 + total.written - total.returned
		res.Expected = fmt.Sprint(want)
		res.OK = final == want
	}
	span.SetAttributes(attribute.Bool("stress.ok", res.OK))
	return res, nil
}

func work[T atomic.Word](ctx context.Context, scenario string, w int, cfg *Config, cell *T) workerOutput[T] {
	var out workerOutput[T]
	var policy backoff.BackOff
	if scenario == ScenarioCmpxchg {
		policy = backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, cfg.CASMaxRetries), ctx)
	}
	for i := 0; i < cfg.Iterations; i++ {
		if i&ctxCheckMask == 0 && ctx.Err() != nil {
			return out
		}
		switch scenario {
		case ScenarioAdd:
			atomic.Add(1, cell)
			out.ops++
		case ScenarioIncDec:
			atomic.Inc(cell)
			out.ops++
			if i%2 == 1 {
				atomic.Dec(cell)
				out.ops++
			}
		case ScenarioXchg:
			v := T(w*cfg.Iterations + i + 1)
			out.written += v
			out.returned += atomic.Xchg(v, cell)
			out.ops++
		case ScenarioCmpxchg:
			err := backoff.Retry(func() error {
				cur := atomic.Load(cell)
				out.ops++
				if atomic.Cmpxchg(cur+1, cell, cur, atomic.Relaxed) == cur {
					return nil
				}
				out.retries++
				return errContended
			}, policy)
			if err != nil {
				out.failures++
			}
		}
	}
	return out
}
