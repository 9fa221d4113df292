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
	"math"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PrimitiveTestSuite struct {
	suite.Suite
}

func TestPrimitiveTestSuite(t *testing.T) {
	suite.Run(t, new(PrimitiveTestSuite))
}

func (s *PrimitiveTestSuite) TestCmpxchg32ReturnsPrevious() {
	v := uint32(7)
	s.Equal(uint32(7), Cmpxchg32(9, &v, 7))
	s.Equal(uint32(9), v)
	s.Equal(uint32(9), Cmpxchg32(11, &v, 7))
	s.Equal(uint32(9), v)
}

func (s *PrimitiveTestSuite) TestCmpxchg64ReturnsPrevious() {
	v := uint64(math.MaxUint64)
	s.Equal(uint64(math.MaxUint64), Cmpxchg64(1, &v, math.MaxUint64))
	s.Equal(uint64(1), Cmpxchg64(2, &v, math.MaxUint64))
	s.Equal(uint64(1), v)
}

func (s *PrimitiveTestSuite) TestCmpxchgWordReturnsPrevious() {
	v := uintptr(3)
	s.Equal(uintptr(3), CmpxchgWord(4, &v, 3))
	s.Equal(uintptr(4), CmpxchgWord(5, &v, 3))
	s.Equal(uintptr(4), v)
}

func (s *PrimitiveTestSuite) TestXchgAndAdd() {
	v32 := uint32(1)
	s.Equal(uint32(1), Xchg32(2, &v32))
	s.Equal(uint32(1), Add32(math.MaxUint32, &v32))

	v64 := uint64(math.MaxUint64)
	s.Equal(uint64(0), Add64(1, &v64))
	s.Equal(uint64(0), Xchg64(5, &v64))

	w := uintptr(10)
	s.Equal(uintptr(10), XchgWord(20, &w))
	s.Equal(uintptr(21), AddWord(1, &w))
	s.Equal(uintptr(21), LoadWord(&w))
}

func (s *PrimitiveTestSuite) TestSubwordLeavesNeighboursAlone() {
	backing := new(uint64)
	b := (*[8]uint8)(unsafe.Pointer(backing))
	for i := range b {
		Store8(uint8(0x10+i), &b[i])
	}
	s.Equal(uint8(0x12), Xchg8(0xff, &b[2]))
	s.Equal(uint8(0xff), Cmpxchg8(0x00, &b[2], 0xff))
	s.Equal(uint8(0x00), Cmpxchg8(0x33, &b[2], 0xff))
	s.Equal(uint8(0x03), Add8(0xf0, &b[3]))
	for i, want := range []uint8{0x10, 0x11, 0x00, 0x03, 0x14, 0x15, 0x16, 0x17} {
		s.Equalf(want, Load8(&b[i]), "byte %d", i)
	}

	h := (*[4]uint16)(unsafe.Pointer(backing))
	Store16(0xbeef, &h[1])
	s.Equal(uint16(0xbeef), Cmpxchg16(0xcafe, &h[1], 0xbeef))
	s.Equal(uint16(0xcafe), Xchg16(1, &h[1]))
	s.Equal(uint16(0), Add16(math.MaxUint16, &h[1]))
	s.Equal(uint16(0), Load16(&h[1]))
}

func (s *PrimitiveTestSuite) TestPointerPrimitives() {
	var buf [16]byte
	base := unsafe.Pointer(&buf[0])
	var p unsafe.Pointer
	StorePointer(base, &p)
	s.Equal(base, LoadPointer(&p))
	s.Equal(unsafe.Add(base, 4), AddPointer(4, &p))
	s.Equal(unsafe.Add(base, 4), CmpxchgPointer(base, &p, unsafe.Add(base, 4)))
	s.Equal(base, CmpxchgPointer(nil, &p, unsafe.Add(base, 4)))
	s.Equal(base, XchgPointer(nil, &p))
	s.Nil(LoadPointer(&p))
}

func TestSubwordConcurrentAdjacentBytes(t *testing.T) {
	const (
		workersPerByte = 8
		iterations     = 5000
	)
	backing := new(uint64)
	b := (*[8]uint8)(unsafe.Pointer(backing))

	var wg sync.WaitGroup
	for i := range b {
		for w := 0; w < workersPerByte; w++ {
			wg.Add(1)
			go func(p *uint8) {
				defer wg.Done()
				for k := 0; k < iterations; k++ {
					Add8(1, p)
				}
			}(&b[i])
		}
	}
	wg.Wait()

	want := uint8(workersPerByte * iterations % 256)
	for i := range b {
		assert.Equalf(t, want, Load8(&b[i]), "byte %d", i)
	}
}

func BenchmarkCmpxchg32(b *testing.B) {
	var v uint32
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Cmpxchg32(uint32(i+1), &v, uint32(i))
	}
}

func BenchmarkAdd8(b *testing.B) {
	backing := new(uint32)
	p := (*uint8)(unsafe.Pointer(backing))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Add8(1, p)
	}
}
