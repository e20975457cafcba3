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

package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCeilToPowerOfTwo(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 2}, {1, 2}, {2, 2}, {3, 4}, {5, 8}, {1000, 1024},
		{1 << 12, 1 << 12}, {1<<12 + 1, 1 << 13}, {1<<20 - 1, 1 << 20}, {maxPowerOfTwo, maxPowerOfTwo},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, CeilToPowerOfTwo(tt.n), "CeilToPowerOfTwo(%d)", tt.n)
	}
	assert.Panics(t, func() { CeilToPowerOfTwo(maxPowerOfTwo + 1) })
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 10, Clamp(3, 10, 20))
	assert.Equal(t, 20, Clamp(30, 10, 20))
	assert.Equal(t, 15, Clamp(15, 10, 20))
}
