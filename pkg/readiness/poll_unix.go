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

package readiness

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
)

// pollFunc is swapped by tests to inject EINTR.
var pollFunc = unix.Poll

// PollWaiter waits with poll(2), it has no upper bound on the descriptor number.
type PollWaiter struct{}

// Wait implements Waiter.
func (PollWaiter) Wait(fd int, in Interest, timeout time.Duration) (Interest, error) {
	if fd < 0 {
		return 0, errors.ErrInvalidFD
	}
	var events int16
	if in.Has(Readable) {
		events |= unix.POLLIN
	}
	if in.Has(Writable) {
		events |= unix.POLLOUT
	}

	dl := newDeadline(timeout)
	fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	for {
		n, err := pollFunc(fds, pollTimeout(dl.remaining()))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, os.NewSyscallError("poll", err)
		}
		if n == 0 {
			return 0, errors.ErrTimeout
		}
		break
	}

	revents := fds[0].Revents
	if revents&unix.POLLNVAL != 0 {
		return 0, os.NewSyscallError("poll", unix.EBADF)
	}
	var ready Interest
	if revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 && in.Has(Readable) {
		ready |= Readable
	}
	if revents&(unix.POLLOUT|unix.POLLHUP|unix.POLLERR) != 0 && in.Has(Writable) {
		ready |= Writable
	}
	return ready, nil
}

// pollTimeout converts d into milliseconds, rounding sub-millisecond waits up
// so that a short timeout does not degrade into a busy check.
func pollTimeout(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := int(d / time.Millisecond)
	if d%time.Millisecond != 0 {
		ms++
	}
	return ms
}
