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

// Package atomic is a width-polymorphic facade over hardware atomic
// instructions.
//
// Every operation is a generic function over Word, resolved by the operand
// width: 8 and 16-bit operands go through a compare-and-swap on their
// enclosing 32-bit word, 32 and 64-bit operands map onto one instruction,
// and pointer-sized integers forward to the native word primitive. Raw
// pointers have their own Ptr variants.
//
// None of the operations can fail. The caller guarantees that the location
// is valid and naturally aligned for its width for the duration of the
// call; anything else is undefined behaviour. No operation blocks.
//
// An 8 or 16-bit operand shares its 32-bit word with its neighbours, and
// those neighbours must only be written through this package as well. A
// plain assignment to an adjacent struct field races with the word CAS,
// and the race detector reports it.
//
// Compare-and-swap returns the value held before the operation, not a
// success flag:
//
//	for {
//		cur := atomic.Load(&refs)
//		if cur == 0 {
//			return false
//		}
//		if atomic.Cmpxchg(cur+1, &refs, cur, atomic.Conservative) == cur {
//			return true
//		}
//	}
package atomic
