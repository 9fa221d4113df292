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

// Package health verifies the atomic primitives at run time and exposes the
// result as liveness and readiness probes.
package health

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/heptiolabs/healthcheck"

	"github.com/srediag/hwatomic/internal/log"
	"github.com/srediag/hwatomic/pkg/atomic"
	"github.com/srediag/hwatomic/pkg/shm"
)

// ErrContractViolation is returned when a primitive does not behave as an
// atomic operation of its width should.
var ErrContractViolation = errors.New("health: atomic contract violated")

// SelfCheckTimeout bounds the liveness probe.
const SelfCheckTimeout = time.Second

var logger = log.New("health", nil)

// SelfCheck runs every operation of every width once on a private location
// and compares the results with their single-threaded meaning.
func SelfCheck() error {
	checks := []error{
		checkWidth[int8]("int8", -128, 127, 1),
		checkWidth[uint8]("uint8", 0xff, 0x01, 0x80),
		checkWidth[int16]("int16", -1, 0x7fff, 2),
		checkWidth[uint16]("uint16", 0xbeef, 0xcafe, 3),
		checkWidth[int32]("int32", -5, 1<<30, 4),
		checkWidth[uint32]("uint32", 0xffffffff, 0, 5),
		checkWidth[int64]("int64", -1<<62, 1<<62, 6),
		checkWidth[uint64]("uint64", 1<<63, 0xffffffff, 7),
		checkWidth[uintptr]("uintptr", 0x1000, 0x2000, 8),
		checkPointer(),
	}
	if err := errors.Join(checks...); err != nil {
		logger.Errorf("self check failed: %v", err)
		return err
	}
	return nil
}

func violation(width, op string, got, want interface{}) error {
	return fmt.Errorf("%w: %s %s returned %v, want %v", ErrContractViolation, width, op, got, want)
}

// checkWidth needs v != n and d != 0.
func checkWidth[T atomic.Word](width string, v, n, d T) error {
	l := (*T)(unsafe.Pointer(new(uint64)))

	atomic.Store(v, l)
	if got := atomic.Load(l); got != v {
		return violation(width, "store/load", got, v)
	}
	if got := atomic.Cmpxchg(n, l, v, atomic.Conservative); got != v {
		return violation(width, "cmpxchg", got, v)
	}
	if got := atomic.Cmpxchg(v, l, v, atomic.Relaxed); got != n {
		return violation(width, "stale cmpxchg", got, n)
	}
	if got := atomic.Xchg(v, l); got != n {
		return violation(width, "xchg", got, n)
	}
	if got := atomic.Add(d, l); got != v+d {
		return violation(width, "add", got, v+d)
	}
	atomic.Inc(l)
	atomic.Dec(l)
	if got := atomic.Load(l); got != v+d {
		return violation(width, "inc/dec", got, v+d)
	}
	return nil
}

func checkPointer() error {
	var buf [16]byte
	base := unsafe.Pointer(&buf[0])
	var slot unsafe.Pointer
	atomic.StorePtr(base, &slot)
	if got := atomic.LoadPtr(&slot); got != base {
		return violation("pointer", "store/load", got, base)
	}
	if got := atomic.AddPtr(8, &slot); got != unsafe.Add(base, 8) {
		return violation("pointer", "add", got, unsafe.Add(base, 8))
	}
	atomic.IncPtr(&slot)
	atomic.DecPtr(&slot)
	if got := atomic.LoadPtr(&slot); got != unsafe.Add(base, 8) {
		return violation("pointer", "inc/dec", got, unsafe.Add(base, 8))
	}
	if got := atomic.CmpxchgPtr(nil, &slot, base, atomic.Conservative); got != unsafe.Add(base, 8) {
		return violation("pointer", "stale cmpxchg", got, unsafe.Add(base, 8))
	}
	if got := atomic.CmpxchgPtr(base, &slot, unsafe.Add(base, 8), atomic.Conservative); got != unsafe.Add(base, 8) {
		return violation("pointer", "cmpxchg", got, unsafe.Add(base, 8))
	}
	if got := atomic.XchgPtr(nil, &slot); got != base {
		return violation("pointer", "xchg", got, base)
	}
	if got := atomic.LoadPtr(&slot); got != nil {
		return violation("pointer", "xchg result", got, nil)
	}
	return nil
}

// RegionCheck reports a region as not ready once it has been closed.
func RegionCheck(r *shm.Region) healthcheck.Check {
	return func() error {
		if r.Closed() {
			return fmt.Errorf("region %s: %w", r.Name(), shm.ErrRegionClosed)
		}
		return nil
	}
}

// NewHandler returns an HTTP handler serving /live and /ready. Liveness is
// the self check; readiness additionally requires every region to be open.
func NewHandler(regions ...*shm.Region) healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("atomic-primitives", healthcheck.Timeout(SelfCheck, SelfCheckTimeout))
	for _, r := range regions {
		h.AddReadinessCheck("shm-region-"+r.Name(), RegionCheck(r))
	}
	return h
}
