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

//go:build linux

package netpoll

import (
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/readiness"
)

// IOFlags is unused by epoll, it is always zero.
type IOFlags = uint16

// IOEvent is the epoll event mask reported for a descriptor.
type IOEvent = uint32

const (
	initEvents = 128
	minEvents  = 32
	maxEvents  = 1024

	readEvents  = unix.EPOLLIN | unix.EPOLLPRI
	writeEvents = unix.EPOLLOUT
	errEvents   = unix.EPOLLERR | unix.EPOLLHUP | unix.EPOLLRDHUP
)

// Ready translates an event into the conditions it reports. Error and hang-up
// count as readiness: the next call on the descriptor surfaces the error or the
// end of stream.
func Ready(event IOEvent, _ IOFlags) readiness.Interest {
	var in readiness.Interest
	if event&(readEvents|errEvents) != 0 {
		in |= readiness.Readable
	}
	if event&(writeEvents|unix.EPOLLERR|unix.EPOLLHUP) != 0 {
		in |= readiness.Writable
	}
	return in
}

// Exceptional reports whether the event carries an error or a hang-up.
func Exceptional(event IOEvent, _ IOFlags) bool {
	return event&errEvents != 0
}

type eventList []unix.EpollEvent

// resize doubles the list after a wait that filled it and halves it
// after one that used less than half of it.
func (el *eventList) resize(n int) {
	switch size := len(*el); {
	case n == size && size<<1 <= maxEvents:
		*el = make(eventList, size<<1)
	case n < size>>1 && size>>1 >= minEvents:
		*el = make(eventList, size>>1)
	}
}
