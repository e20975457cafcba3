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

package nbfd

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Status is the outcome of an operation on a non-blocking descriptor.
type Status uint8

const (
	// OK means the call completed, Result.N holds the byte count.
	OK Status = iota
	// WouldBlock means no data (or no room) right now, wait for readiness and retry.
	// The descriptor stays open.
	WouldBlock
	// Closed means the peer shut the stream down, the descriptor has been released.
	Closed
	// Fatal means a genuine fault, Result.Err holds the cause and the descriptor
	// has been released.
	Fatal
	// Timeout means a bounded wait expired before the descriptor became ready.
	// The descriptor stays open.
	Timeout
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case WouldBlock:
		return "would-block"
	case Closed:
		return "closed"
	case Fatal:
		return "fatal"
	case Timeout:
		return "timeout"
	}
	return fmt.Sprintf("status(%d)", s)
}

// Result is what every I/O method of FD returns instead of an (n, err) pair.
type Result struct {
	Status Status
	// N is the number of bytes transferred, it may be non-zero alongside
	// a non-OK status when a multi-call operation made partial progress.
	N int
	// From is the peer address reported by RecvFrom and Accept.
	From unix.Sockaddr
	// Err is nil for OK, one of the sentinel errors of pkg/errors for
	// WouldBlock, Closed and Timeout, and the cause for Fatal.
	Err error
}

// Terminal reports whether the descriptor was released by this operation.
func (r Result) Terminal() bool {
	return r.Status == Closed || r.Status == Fatal
}

// Temporary reports whether retrying later may succeed.
func (r Result) Temporary() bool {
	return r.Status == WouldBlock || r.Status == Timeout
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s n=%d: %v", r.Status, r.N, r.Err)
	}
	return fmt.Sprintf("%s n=%d", r.Status, r.N)
}
