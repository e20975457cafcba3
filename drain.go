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

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package nbfd

import (
	"io"

	"github.com/panjf2000/nbfd/pkg/pool/bytebuffer"
	"github.com/panjf2000/nbfd/pkg/pool/byteslice"
)

// Drain reads everything the descriptor has to offer right now and copies it to w.
//
// It stops at the first non-OK read: WouldBlock when the receive buffer is empty
// (the usual outcome, the descriptor stays open), Closed at end of stream or Fatal.
// Result.N holds the number of bytes drained. The error is the one returned by w.
func (fd *FD) Drain(w io.Writer) (Result, error) {
	buf := byteslice.Get(fd.opts.ReadChunk)
	defer byteslice.Put(buf)
	bb := bytebuffer.Get()
	defer bytebuffer.Put(bb)

	var r Result
	for {
		if r = fd.Read(buf); r.Status != OK {
			break
		}
		_, _ = bb.Write(buf[:r.N])
	}
	r.N = bb.Len()
	if bb.Len() == 0 {
		return r, nil
	}
	_, err := w.Write(bb.B)
	return r, err
}
