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

// Package shm exposes memory regions, in-process or shared between
// processes, as checked atomic cells.
//
// The atomic facade trusts its caller about alignment and bounds. This
// package is where those checks happen: Cell validates an offset once and
// hands back a typed pointer that can be passed to pkg/atomic.
//
// It is instrumented with OpenTelemetry metrics and tracing (OTel Go SDK
// v1.30.0).
//
// Example usage:
//
//	r, err := shm.Open(ctx, shm.OpenOptions{Name: "refcounts", Size: 1 << 16, Create: true})
//	// ...
//	arena, err := shm.NewArena(r)
//	refs, err := shm.New[uint32](arena)
//	atomic.Inc(refs)
package shm
