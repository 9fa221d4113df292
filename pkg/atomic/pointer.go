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

package atomic

import (
	"unsafe"

	"github.com/srediag/hwatomic/internal/hwatomic"
)

// The Ptr variants operate on raw pointer slots. They produce the same bit
// patterns as the uintptr instantiations of the generic operations but keep
// the value typed as a pointer, so the garbage collector sees every store.

// StorePtr writes v into *dest.
func StorePtr(v unsafe.Pointer, dest *unsafe.Pointer) {
	hwatomic.StorePointer(v, dest)
}

// LoadPtr reads *src.
func LoadPtr(src *unsafe.Pointer) unsafe.Pointer {
	return hwatomic.LoadPointer(src)
}

// AddPtr advances *dest by delta bytes and returns the new pointer. The
// result must remain inside the object *dest points into.
func AddPtr(delta int, dest *unsafe.Pointer) unsafe.Pointer {
	return hwatomic.AddPointer(delta, dest)
}

// IncPtr advances *dest by one byte.
func IncPtr(dest *unsafe.Pointer) {
	hwatomic.AddPointer(1, dest)
}

// DecPtr moves *dest back by one byte.
func DecPtr(dest *unsafe.Pointer) {
	hwatomic.AddPointer(-1, dest)
}

// XchgPtr stores v into *dest and returns the previous pointer.
func XchgPtr(v unsafe.Pointer, dest *unsafe.Pointer) unsafe.Pointer {
	return hwatomic.XchgPointer(v, dest)
}

// CmpxchgPtr stores v into *dest if *dest equals cmp and returns the
// pointer held before the call. The order hint is ignored.
func CmpxchgPtr(v unsafe.Pointer, dest *unsafe.Pointer, cmp unsafe.Pointer, order Order) unsafe.Pointer {
	return hwatomic.CmpxchgPointer(v, dest, cmp)
}
