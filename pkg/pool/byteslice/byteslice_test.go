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

package byteslice

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteSlice(t *testing.T) {
	buf := Get(8)
	copy(buf, "ff")
	assert.Equal(t, "ff", string(buf[:2]))

	// Disable GC to re-acquire the same backing array.
	gc := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gc)

	Put(buf)

	newBuf := Get(7)
	require.Len(t, newBuf, 7)
	assert.Same(t, &buf[0], &newBuf[0])
	assert.Equal(t, "ff", string(newBuf[:2]))
}

func TestByteSliceSizes(t *testing.T) {
	assert.Nil(t, Get(0))
	assert.Nil(t, Get(-1))

	b := Get(1000)
	assert.Len(t, b, 1000)
	assert.Equal(t, 1024, cap(b))
	Put(b)

	small := Get(3)
	assert.Len(t, small, 3)
	assert.Equal(t, 64, cap(small))

	huge := Get(2 << 20)
	assert.Len(t, huge, 2<<20)
	assert.Equal(t, 2<<20, cap(huge))

	// Slices outside the classes are dropped, the others go to the class below their capacity.
	Put(huge)
	Put(make([]byte, 10))
	Put(make([]byte, 100))
	Put(nil)
}

func BenchmarkByteSlice(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			bs := Get(4096)
			Put(bs)
		}
	})
}
