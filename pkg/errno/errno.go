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

// Package errno classifies the outcome of a system call made on a
// non-blocking descriptor and maps it to the action the caller ought to take.
//
// A failing call on a non-blocking socket falls into exactly one of four classes:
//
//	WouldBlock   EAGAIN/EWOULDBLOCK (EINPROGRESS for connect): no data or no room right now, retry later
//	Interrupted  EINTR: a signal arrived before the call completed, retry now
//	PeerClosed   read/recv returned 0: end of stream, release the descriptor
//	Fatal        anything else: report it and release the descriptor
package errno

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Op names the system call whose result is being classified.
type Op uint8

// Operations that may run on a non-blocking descriptor.
const (
	Read Op = iota
	Recv
	RecvFrom
	Write
	Send
	SendTo
	Accept
	Connect
	Select
	Poll
	Fcntl
	SetSockopt
	GetSockopt
	Close
)

var opNames = [...]string{
	Read:       "read",
	Recv:       "recv",
	RecvFrom:   "recvfrom",
	Write:      "write",
	Send:       "send",
	SendTo:     "sendto",
	Accept:     "accept",
	Connect:    "connect",
	Select:     "select",
	Poll:       "poll",
	Fcntl:      "fcntl",
	SetSockopt: "setsockopt",
	GetSockopt: "getsockopt",
	Close:      "close",
}

// ParseOp resolves the name of a system call, the reverse of Op.String.
func ParseOp(s string) (Op, bool) {
	for op, name := range opNames {
		if name == s {
			return Op(op), true
		}
	}
	return 0, false
}

// String returns the name of the system call.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", op)
}

// IsRead tells whether op consumes the receive buffer.
func (op Op) IsRead() bool {
	return op == Read || op == Recv || op == RecvFrom
}

// IsWrite tells whether op fills the send buffer.
func (op Op) IsWrite() bool {
	return op == Write || op == Send || op == SendTo
}

// Class is the category of a system call result.
type Class uint8

const (
	// OK means the call completed.
	OK Class = iota
	// WouldBlock means the call could not complete without blocking.
	WouldBlock
	// Interrupted means a signal interrupted the call before it completed.
	Interrupted
	// PeerClosed means the peer shut down its side of the stream.
	PeerClosed
	// Fatal means a genuine fault.
	Fatal
)

func (c Class) String() string {
	switch c {
	case OK:
		return "ok"
	case WouldBlock:
		return "would-block"
	case Interrupted:
		return "interrupted"
	case PeerClosed:
		return "peer-closed"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("class(%d)", c)
}

// Action is what the caller is expected to do after seeing a Class.
type Action uint8

const (
	// Proceed keeps going with the result at hand.
	Proceed Action = iota
	// RetryLater stops issuing the call until the descriptor reports readiness.
	RetryLater
	// RetryNow issues the very same call again immediately.
	RetryNow
	// TerminateStream treats the stream as finished and releases the descriptor.
	TerminateStream
	// ReportAndClose surfaces the failure and releases the descriptor.
	ReportAndClose
)

func (a Action) String() string {
	switch a {
	case Proceed:
		return "proceed"
	case RetryLater:
		return "retry-later"
	case RetryNow:
		return "retry-now"
	case TerminateStream:
		return "terminate-stream"
	case ReportAndClose:
		return "report-and-close"
	}
	return fmt.Sprintf("action(%d)", a)
}

// Terminal tells whether the action ends the life of the descriptor.
func (a Action) Terminal() bool {
	return a == TerminateStream || a == ReportAndClose
}

// Classify maps the (n, err) pair returned by op to a Class.
//
// err may be a bare unix.Errno or any error wrapping one, such as *os.SyscallError.
// A zero-byte result without an error is only a peer shutdown for stream reads,
// an empty datagram from recvfrom and a zero-length write both complete normally.
func Classify(op Op, n int, err error) Class {
	if err == nil {
		if n == 0 && (op == Read || op == Recv) {
			return PeerClosed
		}
		return OK
	}
	switch {
	case errors.Is(err, unix.EINTR):
		return Interrupted
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
		return WouldBlock
	case op == Connect && (errors.Is(err, unix.EINPROGRESS) || errors.Is(err, unix.EALREADY)):
		return WouldBlock
	}
	return Fatal
}

// ActionOf returns the action expected after a result of class c.
func ActionOf(c Class) Action {
	switch c {
	case WouldBlock:
		return RetryLater
	case Interrupted:
		return RetryNow
	case PeerClosed:
		return TerminateStream
	case Fatal:
		return ReportAndClose
	}
	return Proceed
}

// Meaning explains in plain words what class c denotes for op.
func Meaning(op Op, c Class) string {
	switch c {
	case OK:
		return "the call completed"
	case WouldBlock:
		switch {
		case op.IsRead():
			return "no data currently available in the receive buffer"
		case op.IsWrite():
			return "the send buffer is currently full"
		case op == Accept:
			return "no pending connection"
		case op == Connect:
			return "the connection is still being established"
		}
		return "the call cannot complete without blocking"
	case Interrupted:
		return "the call was interrupted by a signal before completing"
	case PeerClosed:
		return "the peer closed the connection"
	case Fatal:
		return "a genuine fault occurred"
	}
	return "unknown"
}

// IsTemporary reports whether err is one of EAGAIN, EWOULDBLOCK or EINTR.
func IsTemporary(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR)
}

// Errno extracts the unix.Errno carried by err.
func Errno(err error) (unix.Errno, bool) {
	var e unix.Errno
	if errors.As(err, &e) {
		return e, true
	}
	return 0, false
}

// Number returns the numeric errno carried by err or -1 when there is none.
func Number(err error) int {
	if e, ok := Errno(err); ok {
		return int(e)
	}
	return -1
}

// Name returns the symbolic errno name carried by err, e.g. "EAGAIN".
func Name(err error) string {
	e, ok := Errno(err)
	if !ok {
		return ""
	}
	if name := unix.ErrnoName(e); name != "" {
		return name
	}
	return fmt.Sprintf("errno %d", int(e))
}
