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

// Package shm contains the platform-specific mapping of shared memory
// regions and the raw atomic accessors used on them.
package shm

import "errors"

// ErrUnsupportedPlatform is returned by MapRegion where shared memory
// mapping is not implemented.
var ErrUnsupportedPlatform = errors.New("shm: shared memory mapping is not supported on this platform")

// MappedRegion represents a memory-mapped shared region.
type MappedRegion struct {
	Addr []byte
	Path string
	fd   int
	// owner is set when this mapping created the backing file.
	owner bool
}

// MapOptions defines options for mapping shared memory.
type MapOptions struct {
	Name   string
	Size   int
	Create bool
	// Dir holds the backing file. Defaults to /dev/shm.
	Dir string
}

// Function implementations are provided in platform-specific files.
