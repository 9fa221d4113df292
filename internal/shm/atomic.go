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
	"unsafe"

	"github.com/srediag/hwatomic/pkg/atomic"
)

// AtomicLoadUint64 loads a uint64 from shared memory atomically.
// addr must be 8-byte aligned.
func AtomicLoadUint64(addr unsafe.Pointer) uint64 {
	return atomic.Load((*uint64)(addr))
}

// AtomicStoreUint64 stores a uint64 to shared memory atomically.
func AtomicStoreUint64(addr unsafe.Pointer, val uint64) {
	atomic.Store(val, (*uint64)(addr))
}

// AtomicCompareAndSwapUint64 atomically compares and swaps a uint64 in
// shared memory and reports whether the swap happened.
func AtomicCompareAndSwapUint64(addr unsafe.Pointer, old, new uint64) bool {
	return atomic.Cmpxchg(new, (*uint64)(addr), old, atomic.Conservative) == old
}
