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

// Package readiness waits for a single descriptor to become readable or
// writable, so that callers who got EAGAIN/EWOULDBLOCK can sleep instead of
// spinning on the failing call.
//
// A wait that expires returns errors.ErrTimeout, which is neither a fault nor
// a reason to release the descriptor. Signals arriving during the wait
// (EINTR) restart it with whatever time is left.
package readiness

import (
	"time"
)

// Interest is a set of readiness conditions.
type Interest uint8

const (
	// Readable is set when a read, recv or accept would not block.
	Readable Interest = 1 << iota
	// Writable is set when a write or send would not block.
	Writable

	// ReadWritable is the union of Readable and Writable.
	ReadWritable = Readable | Writable
)

// Has reports whether every condition of o is in i.
func (i Interest) Has(o Interest) bool {
	return i&o == o && o != 0
}

func (i Interest) String() string {
	switch i {
	case Readable:
		return "readable"
	case Writable:
		return "writable"
	case ReadWritable:
		return "readable|writable"
	}
	return "none"
}

// Waiter blocks until fd satisfies at least one condition of in, or until timeout elapses.
//
// A negative timeout waits forever, a zero timeout checks once without blocking.
// The returned Interest holds the conditions that are ready. Exceptional conditions
// (error, hang-up) are reported as ready so that the subsequent I/O call surfaces them.
type Waiter interface {
	Wait(fd int, in Interest, timeout time.Duration) (Interest, error)
}

// WaiterFunc adapts an ordinary function to the Waiter interface.
type WaiterFunc func(fd int, in Interest, timeout time.Duration) (Interest, error)

// Wait calls f(fd, in, timeout).
func (f WaiterFunc) Wait(fd int, in Interest, timeout time.Duration) (Interest, error) {
	return f(fd, in, timeout)
}

// deadline tracks the time left of a wait that may be restarted after EINTR.
type deadline struct {
	forever bool
	at      time.Time
}

func newDeadline(timeout time.Duration) deadline {
	if timeout < 0 {
		return deadline{forever: true}
	}
	return deadline{at: time.Now().Add(timeout)}
}

// remaining returns the time left, never negative, or -1 for an unbounded wait.
func (d deadline) remaining() time.Duration {
	if d.forever {
		return -1
	}
	if left := time.Until(d.at); left > 0 {
		return left
	}
	return 0
}
