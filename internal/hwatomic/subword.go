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

	"golang.org/x/sys/cpu"
)

// Go has no 8- or 16-bit atomic instructions. Byte and short operands are
// updated through a compare-and-swap on the naturally aligned 32-bit word
// that contains them; the other bytes of that word are written back
// unchanged. The containing word must lie inside the same allocation as the
// operand, which holds for any struct field or array element whose
// enclosing object is at least 4 bytes long.
//
// Every byte sharing that word must also be written atomically. A plain
// store to a neighbour can be overwritten by the word CAS, and the race
// detector reports it as a race with this package.
type subword struct {
	word  *uint32
	shift uint32
	mask  uint32
}

func locate(p unsafe.Pointer, size uintptr) subword {
	off := uintptr(p) & 3
	shift := uint32(off) * 8
	if cpu.IsBigEndian {
		shift = uint32(4-size-off) * 8
	}
	return subword{
		word:  (*uint32)(unsafe.Add(p, -int(off))),
		shift: shift,
		mask:  (uint32(1)<<(size*8) - 1) << shift,
	}
}

func (s subword) get(w uint32) uint32 {
	return (w & s.mask) >> s.shift
}

func (s subword) put(w, v uint32) uint32 {
	return w&^s.mask | (v<<s.shift)&s.mask
}

func (s subword) load() uint32 {
	return s.get(atomic.LoadUint32(s.word))
}

// swap installs v and returns the previous sub-word value.
func (s subword) swap(v uint32) uint32 {
	for {
		w := atomic.LoadUint32(s.word)
		if atomic.CompareAndSwapUint32(s.word, w, s.put(w, v)) {
			return s.get(w)
		}
	}
}

// cas installs v if the sub-word equals cmp and returns the previous value.
// A change to a neighbouring byte retries; a mismatch on the operand itself
// returns without writing.
func (s subword) cas(v, cmp uint32) uint32 {
	for {
		w := atomic.LoadUint32(s.word)
		old := s.get(w)
		if old != cmp {
			return old
		}
		if atomic.CompareAndSwapUint32(s.word, w, s.put(w, v)) {
			return old
		}
	}
}

// add returns the new sub-word value, truncated to the operand width.
func (s subword) add(delta uint32) uint32 {
	for {
		w := atomic.LoadUint32(s.word)
		next := s.put(w, s.get(w)+delta)
		if atomic.CompareAndSwapUint32(s.word, w, next) {
			return s.get(next)
		}
	}
}

// Load8 reads the byte at src.
func Load8(src *uint8) uint8 {
	return uint8(locate(unsafe.Pointer(src), 1).load())
}

// Store8 writes v into *dest, leaving the neighbouring bytes unchanged.
func Store8(v uint8, dest *uint8) {
	locate(unsafe.Pointer(dest), 1).swap(uint32(v))
}

// Xchg8 stores v into *dest and returns the previous byte.
func Xchg8(v uint8, dest *uint8) uint8 {
	return uint8(locate(unsafe.Pointer(dest), 1).swap(uint32(v)))
}

// Cmpxchg8 is the byte compare-and-swap. It returns the previous byte.
func Cmpxchg8(v uint8, dest *uint8, cmp uint8) uint8 {
	return uint8(locate(unsafe.Pointer(dest), 1).cas(uint32(v), uint32(cmp)))
}

// Add8 adds delta to *dest and returns the new byte. Overflow wraps.
func Add8(delta uint8, dest *uint8) uint8 {
	return uint8(locate(unsafe.Pointer(dest), 1).add(uint32(delta)))
}

// Load16 reads the 16-bit value at src.
func Load16(src *uint16) uint16 {
	return uint16(locate(unsafe.Pointer(src), 2).load())
}

// Store16 writes v into *dest.
func Store16(v uint16, dest *uint16) {
	locate(unsafe.Pointer(dest), 2).swap(uint32(v))
}

// Xchg16 stores v into *dest and returns the previous value.
func Xchg16(v uint16, dest *uint16) uint16 {
	return uint16(locate(unsafe.Pointer(dest), 2).swap(uint32(v)))
}

// Cmpxchg16 is the 16-bit compare-and-swap. It returns the previous value.
func Cmpxchg16(v uint16, dest *uint16, cmp uint16) uint16 {
	return uint16(locate(unsafe.Pointer(dest), 2).cas(uint32(v), uint32(cmp)))
}

// Add16 adds delta to *dest and returns the new value. Overflow wraps.
func Add16(delta uint16, dest *uint16) uint16 {
	return uint16(locate(unsafe.Pointer(dest), 2).add(uint32(delta)))
}
