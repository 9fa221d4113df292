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

package shm

import (
	"context"
	"fmt"
	"unsafe"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	internalshm "github.com/srediag/hwatomic/internal/shm"
	"github.com/srediag/hwatomic/internal/log"
	"github.com/srediag/hwatomic/pkg/atomic"
)

const instrumentationName = "github.com/srediag/hwatomic/pkg/shm"

var logger = log.New("shm", nil)

// Region is a block of memory whose cells are accessed atomically. It is
// either a mapping of a named shared memory object or a heap allocation.
type Region struct {
	mapped *internalshm.MappedRegion
	mem    []byte
	name   string
	closed uint32

	tracer   trace.Tracer
	openedBy metric.Int64UpDownCounter
}

// OpenOptions defines options for creating or opening a shared memory region.
type OpenOptions struct {
	// Name is the identifier for the shared memory region.
	Name string
	// Size is the total region size in bytes.
	Size int
	// Create indicates whether to create the region or open an existing one.
	Create bool
	// Dir overrides the directory holding the backing file.
	Dir string

	Meter  metric.Meter
	Tracer trace.Tracer
}

// Open creates or opens a shared memory region with the given options.
func Open(ctx context.Context, opts OpenOptions) (*Region, error) {
	if opts.Size <= 0 {
		return nil, ErrInvalidSize
	}
	r := newRegion(opts.Name, opts.Meter, opts.Tracer)
	ctx, span := r.tracer.Start(ctx, "shm.Open", trace.WithAttributes(
		attribute.String("shm.name", opts.Name),
		attribute.Int("shm.size", opts.Size),
		attribute.Bool("shm.create", opts.Create),
	))
	defer span.End()

	mapped, err := internalshm.MapRegion(ctx, internalshm.MapOptions{
		Name:   opts.Name,
		Size:   opts.Size,
		Create: opts.Create,
		Dir:    opts.Dir,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("shm: open %q: %w", opts.Name, err)
	}
	r.mapped = mapped
	r.mem = mapped.Addr
	r.openedBy.Add(ctx, 1, metric.WithAttributes(attribute.String("shm.kind", "mapped")))
	logger.Infof("opened region %s size=%d create=%v", mapped.Path, opts.Size, opts.Create)
	return r, nil
}

// NewHeapRegion returns a process-local region of size bytes. The memory is
// 8-byte aligned, like a mapping.
func NewHeapRegion(size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	words := make([]uint64, (size+7)/8)
	r := newRegion("heap", nil, nil)
	r.mem = unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size)
	r.openedBy.Add(context.Background(), 1, metric.WithAttributes(attribute.String("shm.kind", "heap")))
	return r, nil
}

func newRegion(name string, meter metric.Meter, tracer trace.Tracer) *Region {
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter(instrumentationName)
	}
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	opened, err := meter.Int64UpDownCounter("shm.regions.open",
		metric.WithDescription("Regions currently open."))
	if err != nil {
		logger.Warnf("create shm.regions.open instrument: %v", err)
		opened, _ = metricnoop.NewMeterProvider().Meter(instrumentationName).Int64UpDownCounter("shm.regions.open")
	}
	return &Region{name: name, tracer: tracer, openedBy: opened}
}

// Size returns the region length in bytes.
func (r *Region) Size() int {
	return len(r.mem)
}

// Name returns the name the region was opened with.
func (r *Region) Name() string {
	return r.name
}

// Closed reports whether Close has been called.
func (r *Region) Closed() bool {
	return atomic.Load(&r.closed) != 0
}

// Close unmaps a shared region. Cells obtained from the region must not be
// used afterwards. Calling Close more than once is a no-op.
func (r *Region) Close() error {
	if atomic.Xchg(1, &r.closed) != 0 {
		return nil
	}
	r.openedBy.Add(context.Background(), -1)
	if r.mapped == nil {
		return nil
	}
	_, span := r.tracer.Start(context.Background(), "shm.Close")
	defer span.End()
	if err := internalshm.UnmapRegion(context.Background(), r.mapped); err != nil {
		span.RecordError(err)
		return fmt.Errorf("shm: close %q: %w", r.name, err)
	}
	logger.Infof("closed region %s", r.mapped.Path)
	return nil
}
