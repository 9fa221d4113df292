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

import "fmt"

// Order is the memory-ordering hint taken by Cmpxchg and CmpxchgPtr.
//
// The hint is part of the contract so call sites read the same on every
// architecture, but it is not honored: the backend is sync/atomic, whose
// operations are sequentially consistent on every GOARCH, so each hint
// selects the same instruction sequence. A backend for a weakly ordered
// target (see Platform().StoreOrdered) that drops below sequential
// consistency must map the hint to fences.
type Order uint8

const (
	// Conservative orders the operation against all surrounding loads and
	// stores, as if fenced on both sides.
	Conservative Order = iota
	// Relaxed requires only the atomicity of the operation itself.
	Relaxed
	Acquire
	Release
)

func (o Order) String() string {
	switch o {
	case Conservative:
		return "conservative"
	case Relaxed:
		return "relaxed"
	case Acquire:
		return "acquire"
	case Release:
		return "release"
	}
	return fmt.Sprintf("Order(%d)", uint8(o))
}
