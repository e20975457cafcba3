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
	stderrors "errors"
	"time"

	"github.com/panjf2000/nbfd/pkg/errno"
	"github.com/panjf2000/nbfd/pkg/errors"
	"github.com/panjf2000/nbfd/pkg/readiness"
)

// WaitReadable blocks until the descriptor is readable or timeout elapses,
// a negative timeout waits forever.
//
// OK means the next read will probably not block; readiness is only a hint and a
// read may still report WouldBlock when another reader got there first.
func (fd *FD) WaitReadable(timeout time.Duration) Result {
	return fd.wait(readiness.Readable, timeout)
}

// WaitWritable blocks until the descriptor is writable or timeout elapses.
func (fd *FD) WaitWritable(timeout time.Duration) Result {
	return fd.wait(readiness.Writable, timeout)
}

func (fd *FD) wait(in readiness.Interest, timeout time.Duration) Result {
	if fd.released.Load() {
		return releasedResult
	}
	_, err := fd.opts.Waiter.Wait(fd.fd, in, timeout)
	if fd.released.Load() {
		return releasedResult
	}
	if err == nil {
		return Result{Status: OK}
	}
	if stderrors.Is(err, errors.ErrTimeout) {
		fd.stats.timeouts.Inc()
		return Result{Status: Timeout, Err: errors.ErrTimeout}
	}
	if _, ok := errno.Errno(err); ok {
		// The kernel rejected the descriptor itself, it is of no further use.
		fd.inspect(errno.Poll, err)
		_ = fd.release(err)
	}
	return Result{Status: Fatal, Err: err}
}

// ReadTimeout reads into p, waiting up to timeout for data when none is pending.
//
// Readiness is not a promise: a read may still report EAGAIN after the wait
// returned, in which case the wait resumes with the time left.
func (fd *FD) ReadTimeout(p []byte, timeout time.Duration) Result {
	dl := newDeadline(timeout)
	woken := false
	for {
		r := fd.Read(p)
		if r.Status != WouldBlock {
			return r
		}
		if woken {
			fd.stats.spuriousWakeups.Inc()
		}
		left, expired := dl.remaining()
		if expired {
			fd.stats.timeouts.Inc()
			return Result{Status: Timeout, Err: errors.ErrTimeout}
		}
		if r = fd.wait(readiness.Readable, left); r.Status != OK {
			return r
		}
		woken = true
	}
}

// WriteTimeout writes the whole of p, waiting for room in the send buffer
// whenever it fills up. Result.N holds the bytes written even when the
// status is not OK.
func (fd *FD) WriteTimeout(p []byte, timeout time.Duration) Result {
	dl := newDeadline(timeout)
	var written int
	for written < len(p) {
		r := fd.Write(p[written:])
		switch r.Status {
		case OK:
			written += r.N
			continue
		case WouldBlock:
		default:
			r.N = written
			return r
		}
		left, expired := dl.remaining()
		if expired {
			fd.stats.timeouts.Inc()
			return Result{Status: Timeout, N: written, Err: errors.ErrTimeout}
		}
		if r = fd.wait(readiness.Writable, left); r.Status != OK {
			r.N = written
			return r
		}
	}
	return Result{Status: OK, N: written}
}

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

func (d deadline) remaining() (time.Duration, bool) {
	if d.forever {
		return -1, false
	}
	left := time.Until(d.at)
	return left, left <= 0
}
