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

	internalshm "github.com/srediag/hwatomic/internal/shm"
	"github.com/srediag/hwatomic/pkg/atomic"
)

// arenaHeaderSize is the space at the start of the region holding the
// allocation top.
const arenaHeaderSize = 8

// Arena hands out naturally aligned cells from a region without locks. The
// allocation top lives in the first 8 bytes of the region itself, so every
// process mapping the region shares one arena. Cells are never freed
// individually; Reset drops them all.
type Arena struct {
	r *Region
	// top addresses the header word. It is read and written only through
	// the raw shared-memory accessors.
	top unsafe.Pointer
}

// NewArena attaches an arena to r, initialising the header if this is the
// first attachment.
func NewArena(r *Region) (*Arena, error) {
	top, err := Cell[uint64](r, 0)
	if err != nil {
		return nil, fmt.Errorf("shm: arena header: %w", err)
	}
	hdr := unsafe.Pointer(top)
	internalshm.AtomicCompareAndSwapUint64(hdr, 0, arenaHeaderSize)
	return &Arena{r: r, top: hdr}, nil
}

// Alloc reserves size bytes aligned to align and returns their offset.
// align must be a power of two.
func (a *Arena) Alloc(size, align int) (int, error) {
	if a.r.Closed() {
		return 0, ErrRegionClosed
	}
	if size <= 0 || align <= 0 || align&(align-1) != 0 {
		return 0, fmt.Errorf("shm: bad allocation size=%d align=%d", size, align)
	}
	limit := uint64(a.r.Size())
	for {
		cur := internalshm.AtomicLoadUint64(a.top)
		start := (cur + uint64(align) - 1) &^ (uint64(align) - 1)
		end := start + uint64(size)
		if end > limit {
			return 0, fmt.Errorf("%w: need %d bytes at %d, region is %d", ErrArenaExhausted, size, start, limit)
		}
		if internalshm.AtomicCompareAndSwapUint64(a.top, cur, end) {
			return int(start), nil
		}
	}
}

// Used returns the number of bytes allocated, header included.
func (a *Arena) Used() int {
	return int(internalshm.AtomicLoadUint64(a.top))
}

// Reset discards every allocation. Cells handed out earlier alias the ones
// handed out next.
func (a *Arena) Reset() {
	internalshm.AtomicStoreUint64(a.top, arenaHeaderSize)
}

// New allocates a zeroed T-sized cell from the arena.
func New[T atomic.Word](a *Arena) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	off, err := a.Alloc(size, size)
	if err != nil {
		return nil, err
	}
	c, err := Cell[T](a.r, off)
	if err != nil {
		return nil, err
	}
	atomic.Store(zero, c)
	return c, nil
}
