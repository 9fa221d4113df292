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
	"fmt"
	"unsafe"

	"github.com/srediag/hwatomic/pkg/atomic"
)

// Cell returns a pointer to the T-sized cell at byte offset off, after
// checking that it lies inside the region and is naturally aligned. The
// pointer can be handed to any pkg/atomic operation.
func Cell[T atomic.Word](r *Region, off int) (*T, error) {
	if r.Closed() {
		return nil, ErrRegionClosed
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if off < 0 || off > len(r.mem)-size {
		return nil, fmt.Errorf("%w: offset %d width %d size %d", ErrOutOfRange, off, size, len(r.mem))
	}
	p := unsafe.Pointer(&r.mem[off])
	if uintptr(p)%uintptr(size) != 0 {
		return nil, fmt.Errorf("%w: offset %d width %d", ErrMisaligned, off, size)
	}
	return (*T)(p), nil
}
