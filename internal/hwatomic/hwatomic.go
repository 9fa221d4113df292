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

// Package hwatomic exports the hardware atomic primitives that pkg/atomic
// dispatches to. Each entry point is one sync/atomic intrinsic, or a short
// fixed sequence of them where the instruction set has no direct form.
//
// Nothing here checks alignment. A 32-bit operand must be 4-byte aligned and
// a 64-bit operand 8-byte aligned, including on 32-bit platforms.
package hwatomic

import (
	"sync/atomic"
	"unsafe"
)

// WordSize is the width in bytes of a pointer-sized integer.
const WordSize = int(unsafe.Sizeof(uintptr(0)))

// Xchg32 stores v into *dest and returns the previous value.
func Xchg32(v uint32, dest *uint32) uint32 {
	return atomic.SwapUint32(dest, v)
}

// Xchg64 stores v into *dest and returns the previous value.
func Xchg64(v uint64, dest *uint64) uint64 {
	return atomic.SwapUint64(dest, v)
}

// XchgWord stores v into *dest and returns the previous value.
func XchgWord(v uintptr, dest *uintptr) uintptr {
	return atomic.SwapUintptr(dest, v)
}

// Cmpxchg32 stores v into *dest if *dest equals cmp. It returns the value
// *dest held before the operation whether or not the store happened.
//
// sync/atomic only reports success, so the previous value is recovered with
// a load. The loop repeats only when *dest changed between the load and the
// compare-and-swap, which means another thread made progress.
func Cmpxchg32(v uint32, dest *uint32, cmp uint32) uint32 {
	for {
		old := atomic.LoadUint32(dest)
		if old != cmp {
			return old
		}
		if atomic.CompareAndSwapUint32(dest, cmp, v) {
			return cmp
		}
	}
}

// Cmpxchg64 is the 64-bit form of Cmpxchg32.
func Cmpxchg64(v uint64, dest *uint64, cmp uint64) uint64 {
	for {
		old := atomic.LoadUint64(dest)
		if old != cmp {
			return old
		}
		if atomic.CompareAndSwapUint64(dest, cmp, v) {
			return cmp
		}
	}
}

// CmpxchgWord is the pointer-width form of Cmpxchg32.
func CmpxchgWord(v uintptr, dest *uintptr, cmp uintptr) uintptr {
	for {
		old := atomic.LoadUintptr(dest)
		if old != cmp {
			return old
		}
		if atomic.CompareAndSwapUintptr(dest, cmp, v) {
			return cmp
		}
	}
}

// Add32 adds delta to *dest and returns the new value. Overflow wraps.
func Add32(delta uint32, dest *uint32) uint32 {
	return atomic.AddUint32(dest, delta)
}

// Add64 adds delta to *dest and returns the new value. Overflow wraps.
func Add64(delta uint64, dest *uint64) uint64 {
	return atomic.AddUint64(dest, delta)
}

// AddWord adds delta to *dest and returns the new value. Overflow wraps.
func AddWord(delta uintptr, dest *uintptr) uintptr {
	return atomic.AddUintptr(dest, delta)
}

// Load32 reads *src.
func Load32(src *uint32) uint32 { return atomic.LoadUint32(src) }

// Load64 reads *src.
func Load64(src *uint64) uint64 { return atomic.LoadUint64(src) }

// LoadWord reads *src.
func LoadWord(src *uintptr) uintptr { return atomic.LoadUintptr(src) }

// Store32 writes v into *dest.
func Store32(v uint32, dest *uint32) { atomic.StoreUint32(dest, v) }

// Store64 writes v into *dest.
func Store64(v uint64, dest *uint64) { atomic.StoreUint64(dest, v) }

// StoreWord writes v into *dest.
func StoreWord(v uintptr, dest *uintptr) { atomic.StoreUintptr(dest, v) }
