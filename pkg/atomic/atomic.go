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

// Word is the closed set of operand types: 8, 16, 32 and 64-bit integers
// and the pointer-sized int, uint and uintptr.
type Word interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 |
		~int | ~uint | ~uintptr
}

const wordSize = unsafe.Sizeof(uintptr(0))

// Each operation switches on the operand size. Native-word operands are
// matched first so that pointer-sized values, and 64-bit values on 64-bit
// targets, reach the Word primitives.

// Store writes v into *dest.
func Store[T Word](v T, dest *T) {
	p := unsafe.Pointer(dest)
	switch size := unsafe.Sizeof(v); {
	case size == wordSize:
		hwatomic.StoreWord(uintptr(v), (*uintptr)(p))
	case size == 1:
		hwatomic.Store8(uint8(v), (*uint8)(p))
	case size == 2:
		hwatomic.Store16(uint16(v), (*uint16)(p))
	case size == 4:
		hwatomic.Store32(uint32(v), (*uint32)(p))
	default:
		hwatomic.Store64(uint64(v), (*uint64)(p))
	}
}

// Load reads *src.
func Load[T Word](src *T) T {
	p := unsafe.Pointer(src)
	var v T
	switch size := unsafe.Sizeof(v); {
	case size == wordSize:
		return T(hwatomic.LoadWord((*uintptr)(p)))
	case size == 1:
		return T(hwatomic.Load8((*uint8)(p)))
	case size == 2:
		return T(hwatomic.Load16((*uint16)(p)))
	case size == 4:
		return T(hwatomic.Load32((*uint32)(p)))
	default:
		return T(hwatomic.Load64((*uint64)(p)))
	}
}

// Add adds delta to *dest and returns the resulting value. Overflow wraps
// modulo the operand width.
func Add[T Word](delta T, dest *T) T {
	p := unsafe.Pointer(dest)
	switch size := unsafe.Sizeof(delta); {
	case size == wordSize:
		return T(hwatomic.AddWord(uintptr(delta), (*uintptr)(p)))
	case size == 1:
		return T(hwatomic.Add8(uint8(delta), (*uint8)(p)))
	case size == 2:
		return T(hwatomic.Add16(uint16(delta), (*uint16)(p)))
	case size == 4:
		return T(hwatomic.Add32(uint32(delta), (*uint32)(p)))
	default:
		return T(hwatomic.Add64(uint64(delta), (*uint64)(p)))
	}
}

// Inc adds one to *dest. Use Add when the new value is needed.
func Inc[T Word](dest *T) {
	Add(1, dest)
}

// Dec subtracts one from *dest. Use Add when the new value is needed.
func Dec[T Word](dest *T) {
	Add(^T(0), dest)
}

// Xchg stores v into *dest and returns the previous value.
func Xchg[T Word](v T, dest *T) T {
	p := unsafe.Pointer(dest)
	switch size := unsafe.Sizeof(v); {
	case size == wordSize:
		return T(hwatomic.XchgWord(uintptr(v), (*uintptr)(p)))
	case size == 1:
		return T(hwatomic.Xchg8(uint8(v), (*uint8)(p)))
	case size == 2:
		return T(hwatomic.Xchg16(uint16(v), (*uint16)(p)))
	case size == 4:
		return T(hwatomic.Xchg32(uint32(v), (*uint32)(p)))
	default:
		return T(hwatomic.Xchg64(uint64(v), (*uint64)(p)))
	}
}

// Cmpxchg stores v into *dest if *dest is bit-for-bit equal to cmp. It
// returns the value *dest held before the call; the store happened if and
// only if that value equals cmp. The order hint is accepted and ignored,
// see Order.
func Cmpxchg[T Word](v T, dest *T, cmp T, order Order) T {
	p := unsafe.Pointer(dest)
	switch size := unsafe.Sizeof(v); {
	case size == wordSize:
		return T(hwatomic.CmpxchgWord(uintptr(v), (*uintptr)(p), uintptr(cmp)))
	case size == 1:
		return T(hwatomic.Cmpxchg8(uint8(v), (*uint8)(p), uint8(cmp)))
	case size == 2:
		return T(hwatomic.Cmpxchg16(uint16(v), (*uint16)(p), uint16(cmp)))
	case size == 4:
		return T(hwatomic.Cmpxchg32(uint32(v), (*uint32)(p), uint32(cmp)))
	default:
		return T(hwatomic.Cmpxchg64(uint64(v), (*uint64)(p), uint64(cmp)))
	}
}
