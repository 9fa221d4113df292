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

import (
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/srediag/hwatomic/internal/hwatomic"
)

// PlatformInfo describes the atomic capabilities of the running target.
type PlatformInfo struct {
	Arch     string
	WordSize int
	// StoreOrdered is true on total-store-order-like targets.
	StoreOrdered bool
	// Native64 is false where 64-bit atomics are emulated by the runtime.
	// 64-bit operands must be 8-byte aligned either way.
	Native64 bool
	// LSE reports ARMv8.1 single-instruction atomics on arm64.
	LSE bool
	// CX16 reports CMPXCHG16B on x86.
	CX16 bool
}

// Platform reports the capabilities the facade runs on.
func Platform() PlatformInfo {
	return PlatformInfo{
		Arch:         runtime.GOARCH,
		WordSize:     hwatomic.WordSize,
		StoreOrdered: hwatomic.StoreOrdered,
		Native64:     hwatomic.Native64,
		LSE:          cpu.ARM64.HasATOMICS,
		CX16:         cpu.X86.HasCX16,
	}
}
