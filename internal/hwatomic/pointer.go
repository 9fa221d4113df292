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

package hwatomic

import (
	"sync/atomic"
	"unsafe"
)

// Pointer slots go through the sync/atomic pointer intrinsics rather than
// being reinterpreted as uintptr: those carry the garbage collector's write
// barrier, a bare word store does not. The bit patterns produced are the
// same as the Word primitives'.

// LoadPointer reads *src.
func LoadPointer(src *unsafe.Pointer) unsafe.Pointer {
	return atomic.LoadPointer(src)
}

// StorePointer writes v into *dest.
func StorePointer(v unsafe.Pointer, dest *unsafe.Pointer) {
	atomic.StorePointer(dest, v)
}

// XchgPointer stores v into *dest and returns the previous pointer.
func XchgPointer(v unsafe.Pointer, dest *unsafe.Pointer) unsafe.Pointer {
	return atomic.SwapPointer(dest, v)
}

// CmpxchgPointer stores v into *dest if *dest equals cmp and returns the
// pointer held before the operation.
func CmpxchgPointer(v unsafe.Pointer, dest *unsafe.Pointer, cmp unsafe.Pointer) unsafe.Pointer {
	for {
		old := atomic.LoadPointer(dest)
		if old != cmp {
			return old
		}
		if atomic.CompareAndSwapPointer(dest, cmp, v) {
			return cmp
		}
	}
}

// AddPointer advances *dest by delta bytes and returns the new pointer. The
// result must stay inside the allocation *dest points into.
func AddPointer(delta int, dest *unsafe.Pointer) unsafe.Pointer {
	for {
		old := atomic.LoadPointer(dest)
		next := unsafe.Add(old, delta)
		if atomic.CompareAndSwapPointer(dest, old, next) {
			return next
		}
	}
}
