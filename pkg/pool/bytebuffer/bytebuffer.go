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

// Package bytebuffer pools the buffers that accumulate everything a descriptor
// yields until it reports EAGAIN, backed by github.com/valyala/bytebufferpool.
package bytebuffer

import "github.com/valyala/bytebufferpool"

// ByteBuffer is the alias of bytebufferpool.ByteBuffer.
type ByteBuffer = bytebufferpool.ByteBuffer

// Drained payloads have their own size profile, keep them apart from the global pool.
var pool bytebufferpool.Pool

// Get returns an empty buffer.
func Get() *ByteBuffer {
	return pool.Get()
}

// Put recycles b, a nil buffer is ignored.
func Put(b *ByteBuffer) {
	if b != nil {
		pool.Put(b)
	}
}
