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

/*
Package netpoll multiplexes readiness over many non-blocking descriptors.

The underlying facility of event notification is OS-specific:
  - epoll on Linux - https://man7.org/linux/man-pages/man7/epoll.7.html
  - kqueue on FreeBSD/DragonFly/Darwin - https://man.freebsd.org/cgi/man.cgi?kqueue

A descriptor that returned EAGAIN/EWOULDBLOCK is registered for the condition it
is waiting on, the caller then blocks in Wait or Polling instead of retrying the
failing call in a loop:

	poller, err := netpoll.OpenPoller()
	if err != nil {
		// handle error
	}
	defer poller.Close()

	if err := poller.AddRead(fd); err != nil {
		// handle error
	}

	n, err := poller.Wait(time.Second, func(fd int, event netpoll.IOEvent, flags netpoll.IOFlags) error {
		if netpoll.Exceptional(event, flags) {
			// the next read will surface the error or the end of stream
		}
		if netpoll.Ready(event, flags).Has(readiness.Readable) {
			// read until EAGAIN
		}
		return nil
	})

Wait never reports EINTR, an interrupted wait is restarted with the time that is left.
A readiness report is only a hint: with several readers on the same descriptor
the subsequent read may still fail with EAGAIN and the descriptor must be waited on again.
*/
package netpoll

import "time"

// Callback is invoked for every descriptor reported by the poller. A non-nil error
// stops the current round and is returned from Wait or Polling.
type Callback func(fd int, event IOEvent, flags IOFlags) error

// waitDeadline tracks the time left of a wait that may be restarted after EINTR.
type waitDeadline struct {
	forever bool
	at      time.Time
}

func newWaitDeadline(timeout time.Duration) waitDeadline {
	if timeout < 0 {
		return waitDeadline{forever: true}
	}
	return waitDeadline{at: time.Now().Add(timeout)}
}

// msec returns the milliseconds left, rounded up, or -1 for an unbounded wait.
func (d waitDeadline) msec() int {
	if d.forever {
		return -1
	}
	left := time.Until(d.at)
	if left <= 0 {
		return 0
	}
	ms := int(left / time.Millisecond)
	if left%time.Millisecond != 0 {
		ms++
	}
	return ms
}
