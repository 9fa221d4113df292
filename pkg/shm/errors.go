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

import "errors"

var (
	// ErrOutOfRange is returned when a cell does not fit inside the region.
	ErrOutOfRange = errors.New("shm: cell out of range")
	// ErrMisaligned is returned when a cell offset is not a multiple of its width.
	ErrMisaligned = errors.New("shm: cell not naturally aligned")
	// ErrRegionClosed is returned for any access after Close.
	ErrRegionClosed = errors.New("shm: region closed")
	// ErrArenaExhausted is returned when an allocation does not fit.
	ErrArenaExhausted = errors.New("shm: arena exhausted")
	// ErrInvalidSize is returned for non-positive region sizes.
	ErrInvalidSize = errors.New("shm: invalid region size")
)
