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

//go:build darwin || dragonfly || freebsd

package netpoll

import (
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/readiness"
)

// IOFlags holds the EV_* flags of a kevent.
type IOFlags = uint16

// IOEvent is the filter of a kevent, EVFILT_READ or EVFILT_WRITE.
type IOEvent = int16

const (
	initEvents = 64
	minEvents  = 16
	maxEvents  = 512

	errFlags = unix.EV_EOF | unix.EV_ERROR
)

// Ready translates an event into the conditions it reports. kqueue reports
// end of stream and errors through the filter that was armed, so a read filter
// with EV_EOF set is still readable.
func Ready(event IOEvent, _ IOFlags) readiness.Interest {
	switch event {
	case unix.EVFILT_READ:
		return readiness.Readable
	case unix.EVFILT_WRITE:
		return readiness.Writable
	}
	return 0
}

// Exceptional reports whether the event carries an error or an end of stream.
func Exceptional(_ IOEvent, flags IOFlags) bool {
	return flags&errFlags != 0
}

type eventList []unix.Kevent_t

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
