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

package errno

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Report is the outcome of inspecting a failed call.
type Report struct {
	Op     Op
	Errno  unix.Errno
	Name   string
	Class  Class
	Action Action
	Err    error
}

// Inspect describes the error returned by op: its errno number and name,
// its class and the action it calls for.
func Inspect(op Op, err error) Report {
	r := Report{Op: op, Err: err}
	if err == nil {
		return r
	}
	r.Errno, _ = Errno(err)
	r.Name = Name(err)
	r.Class = Classify(op, -1, err)
	r.Action = ActionOf(r.Class)
	return r
}

// String renders r as "read: errno 11 (EAGAIN): resource temporarily unavailable [would-block, retry-later]".
func (r Report) String() string {
	if r.Err == nil {
		return r.Op.String() + ": ok"
	}
	if r.Name == "" {
		return fmt.Sprintf("%s: %v [%s, %s]", r.Op, r.Err, r.Class, r.Action)
	}
	return fmt.Sprintf("%s: errno %d (%s): %s [%s, %s]",
		r.Op, int(r.Errno), r.Name, r.Errno.Error(), r.Class, r.Action)
}

// Lookup resolves an errno by its symbolic name ("EAGAIN") or decimal number ("11").
func Lookup(s string) (unix.Errno, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 || n > maxErrno {
			return 0, false
		}
		return unix.Errno(n), true
	}
	if s == "EWOULDBLOCK" {
		return unix.EWOULDBLOCK, true
	}
	for e := unix.Errno(1); e <= maxErrno; e++ {
		if unix.ErrnoName(e) == s {
			return e, true
		}
	}
	return 0, false
}

// Errno values on every supported platform fit below this bound.
const maxErrno = 255

// Row is a line of the error-to-action table.
type Row struct {
	Condition string
	Ops       []Op
	Class     Class
	Meaning   string
	Action    Action
}

// Table returns the complete error-to-action table for non-blocking descriptors.
func Table() []Row {
	return []Row{
		{
			Condition: "result < 0, errno EAGAIN or EWOULDBLOCK",
			Ops:       []Op{Read, Recv, RecvFrom},
			Class:     WouldBlock,
			Meaning:   Meaning(Read, WouldBlock),
			Action:    RetryLater,
		},
		{
			Condition: "result < 0, errno EAGAIN or EWOULDBLOCK",
			Ops:       []Op{Write, Send, SendTo},
			Class:     WouldBlock,
			Meaning:   Meaning(Write, WouldBlock),
			Action:    RetryLater,
		},
		{
			Condition: "result < 0, errno EAGAIN or EWOULDBLOCK",
			Ops:       []Op{Accept},
			Class:     WouldBlock,
			Meaning:   Meaning(Accept, WouldBlock),
			Action:    RetryLater,
		},
		{
			Condition: "result < 0, errno EINTR",
			Ops:       []Op{Read, Recv, RecvFrom, Write, Send, SendTo, Accept, Select, Poll},
			Class:     Interrupted,
			Meaning:   Meaning(Read, Interrupted),
			Action:    RetryNow,
		},
		{
			Condition: "result == 0",
			Ops:       []Op{Read, Recv},
			Class:     PeerClosed,
			Meaning:   Meaning(Read, PeerClosed),
			Action:    TerminateStream,
		},
		{
			Condition: "result < 0, any other errno",
			Ops:       []Op{Read, Recv, RecvFrom, Write, Send, SendTo, Accept},
			Class:     Fatal,
			Meaning:   Meaning(Read, Fatal),
			Action:    ReportAndClose,
		},
	}
}
