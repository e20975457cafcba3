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

package readiness

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
)

// selectFunc is swapped by tests to inject EINTR.
var selectFunc = unix.Select

// FDSetSize is the number of descriptors an unix.FdSet can hold.
const FDSetSize = len(unix.FdSet{}.Bits) * unix.NFDBITS

// SelectWaiter waits with select(2). Descriptors at or above FDSetSize
// are rejected with errors.ErrFDSetOverflow.
type SelectWaiter struct{}

// Wait implements Waiter.
func (SelectWaiter) Wait(fd int, in Interest, timeout time.Duration) (Interest, error) {
	if fd < 0 {
		return 0, errors.ErrInvalidFD
	}
	if fd >= FDSetSize {
		return 0, errors.ErrFDSetOverflow
	}

	dl := newDeadline(timeout)
	var rset, wset unix.FdSet
	for {
		var rp, wp *unix.FdSet
		if in.Has(Readable) {
			rset.Zero()
			rset.Set(fd)
			rp = &rset
		}
		if in.Has(Writable) {
			wset.Zero()
			wset.Set(fd)
			wp = &wset
		}

		// select(2) may rewrite the timeval, so build a fresh one every round.
		var tvp *unix.Timeval
		if left := dl.remaining(); left >= 0 {
			tv := unix.NsecToTimeval(left.Nanoseconds())
			tvp = &tv
		}

		n, err := selectFunc(fd+1, rp, wp, nil, tvp)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, os.NewSyscallError("select", err)
		}
		if n == 0 {
			return 0, errors.ErrTimeout
		}
		break
	}

	var ready Interest
	if in.Has(Readable) && rset.IsSet(fd) {
		ready |= Readable
	}
	if in.Has(Writable) && wset.IsSet(fd) {
		ready |= Writable
	}
	return ready, nil
}
