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

//go:build linux

package shm

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const defaultDir = "/dev/shm"

// MapRegion maps or creates a shared memory region (Linux implementation).
// A created region is zero-filled by ftruncate.
func MapRegion(ctx context.Context, opts MapOptions) (*MappedRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := opts.Dir
	if dir == "" {
		dir = defaultDir
	}
	flags := unix.O_RDWR | unix.O_CLOEXEC
	if opts.Create {
		flags |= unix.O_CREAT | unix.O_EXCL
	}
	shmPath := filepath.Join(dir, opts.Name)
	fd, err := unix.Open(shmPath, flags, 0600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", shmPath, err)
	}
	if opts.Create {
		if err := unix.Ftruncate(fd, int64(opts.Size)); err != nil {
			_ = unix.Close(fd)
			_ = unix.Unlink(shmPath)
			return nil, fmt.Errorf("ftruncate: %w", err)
		}
	}
	addr, err := unix.Mmap(fd, 0, opts.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		if opts.Create {
			_ = unix.Unlink(shmPath)
		}
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return &MappedRegion{
		Addr:  addr,
		Path:  shmPath,
		fd:    fd,
		owner: opts.Create,
	}, nil
}

// UnmapRegion unmaps and closes the shared memory region. The backing file
// is removed by the mapping that created it.
func UnmapRegion(ctx context.Context, region *MappedRegion) error {
	if region == nil || region.Addr == nil {
		return nil
	}
	if err := unix.Munmap(region.Addr); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	region.Addr = nil
	if err := unix.Close(region.fd); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if region.owner {
		if err := unix.Unlink(region.Path); err != nil {
			return fmt.Errorf("unlink %s: %w", region.Path, err)
		}
	}
	return nil
}
