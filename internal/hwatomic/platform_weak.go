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

//go:build !(386 || amd64 || s390x)

package hwatomic

// StoreOrdered is false on weakly ordered targets. sync/atomic still
// issues sequentially consistent instructions here, so callers get the
// same guarantees; a hand-written backend for this target would have to
// turn the ordering hint into fences.
const StoreOrdered = false
