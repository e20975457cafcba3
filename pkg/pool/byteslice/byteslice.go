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

// Package byteslice pools the scratch slices handed to read(2) and recv(2),
// so that draining a descriptor does not allocate a fresh buffer per call.
package byteslice

import (
	"math/bits"
	"sync"
	"unsafe"
)

const (
	minShift = 6  // 64 B
	maxShift = 20 // 1 MiB, the largest read chunk
)

// Pool keeps one sync.Pool per power-of-two size class, from 1<<minShift to 1<<maxShift bytes.
type Pool struct {
	classes [maxShift - minShift + 1]sync.Pool
}

var defaultPool Pool

// Get returns a slice of length size from the default pool.
func Get(size int) []byte {
	return defaultPool.Get(size)
}

// Put hands buf back to the default pool.
func Put(buf []byte) {
	defaultPool.Put(buf)
}

// Get returns a slice of length size whose capacity is the next power of two.
// Sizes above the largest class are allocated and never pooled.
func (p *Pool) Get(size int) []byte {
	if size <= 0 {
		return nil
	}
	c, ok := class(size)
	if !ok {
		return make([]byte, size)
	}
	if ptr, _ := p.classes[c].Get().(*byte); ptr != nil {
		return unsafe.Slice(ptr, 1<<(c+minShift))[:size]
	}
	return make([]byte, 1<<(c+minShift))[:size]
}

// Put recycles buf into the largest class its capacity can serve.
func (p *Pool) Put(buf []byte) {
	n := cap(buf)
	if n < 1<<minShift {
		return
	}
	shift := bits.Len(uint(n)) - 1
	if shift > maxShift {
		return
	}
	p.classes[shift-minShift].Put(&buf[:1][0])
}

func class(size int) (int, bool) {
	shift := bits.Len(uint(size - 1))
	if shift < minShift {
		shift = minShift
	}
	if shift > maxShift {
		return 0, false
	}
	return shift - minShift, true
}
