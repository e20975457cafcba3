// Copyright (c) 2026 The Nbfd Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package math provides the integer helpers used to size read chunks and buffers.
package math

import "math/bits"

// maxPowerOfTwo is the largest power of two an int can hold.
const maxPowerOfTwo = 1 << (bits.UintSize - 2)

// CeilToPowerOfTwo rounds n up to a power of two, never below 2.
// It panics when the result would overflow an int.
func CeilToPowerOfTwo(n int) int {
	if n <= 2 {
		return 2
	}
	if n > maxPowerOfTwo {
		panic("argument is too large")
	}
	return 1 << bits.Len(uint(n-1))
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
