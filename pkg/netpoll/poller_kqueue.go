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
	stderrors "errors"
	"os"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
	"github.com/panjf2000/nbfd/pkg/logging"
)

// Poller represents a poller which is in charge of monitoring file-descriptors.
//
// Registration methods are safe for concurrent use, Wait and Polling must be
// driven by a single goroutine.
type Poller struct {
	fd       int
	events   eventList
	shutdown atomic.Bool
	closed   atomic.Bool
}

// OpenPoller instantiates a poller.
func OpenPoller() (poller *Poller, err error) {
	poller = new(Poller)
	if poller.fd, err = unix.Kqueue(); err != nil {
		poller = nil
		err = os.NewSyscallError("kqueue", err)
		return
	}
	unix.CloseOnExec(poller.fd)
	if _, err = unix.Kevent(poller.fd, []unix.Kevent_t{{
		Ident:  0,
		Filter: unix.EVFILT_USER,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
	}}, nil, nil); err != nil {
		_ = unix.Close(poller.fd)
		poller = nil
		err = os.NewSyscallError("kevent add|clear", err)
		return
	}
	poller.events = make(eventList, initEvents)
	return
}

// Close closes the poller, it must not be called while Wait or Polling is running.
func (p *Poller) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return errors.ErrPollerClosed
	}
	p.shutdown.Store(true)
	return os.NewSyscallError("close", unix.Close(p.fd))
}

var note = []unix.Kevent_t{{
	Ident:  0,
	Filter: unix.EVFILT_USER,
	Fflags: unix.NOTE_TRIGGER,
}}

// Wakeup interrupts a blocked Wait, which then returns with no events.
func (p *Poller) Wakeup() (err error) {
	if p.closed.Load() {
		return errors.ErrPollerClosed
	}
	for _, err = unix.Kevent(p.fd, note, nil, nil); err == unix.EINTR; _, err = unix.Kevent(p.fd, note, nil, nil) {
	}
	if err == unix.EAGAIN {
		err = nil
	}
	return os.NewSyscallError("kevent trigger", err)
}

// Shutdown makes a running Polling return errors.ErrPollerClosed.
func (p *Poller) Shutdown() error {
	p.shutdown.Store(true)
	return p.Wakeup()
}

// Wait blocks until at least one registered descriptor is ready or timeout elapses,
// calls callback for every ready descriptor and returns how many were reported.
// A negative timeout waits forever. An expired wait returns (0, nil).
func (p *Poller) Wait(timeout time.Duration, callback Callback) (int, error) {
	if callback == nil {
		return 0, errors.ErrNilCallback
	}
	if p.closed.Load() {
		return 0, errors.ErrPollerClosed
	}

	dl := newWaitDeadline(timeout)
	var (
		n   int
		err error
	)
	for {
		var tsp *unix.Timespec
		if ms := dl.msec(); ms >= 0 {
			ts := unix.NsecToTimespec(int64(ms) * int64(time.Millisecond))
			tsp = &ts
		}
		n, err = unix.Kevent(p.fd, nil, p.events, tsp)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		if p.closed.Load() {
			return 0, errors.ErrPollerClosed
		}
		logging.Errorf("error occurs in kqueue: %v", os.NewSyscallError("kevent wait", err))
		return 0, os.NewSyscallError("kevent wait", err)
	}

	var handled int
	for i := 0; i < n; i++ {
		ev := &p.events[i]
		if ev.Filter == unix.EVFILT_USER { // poller is awakened.
			continue
		}
		handled++
		if err = callback(int(ev.Ident), ev.Filter, ev.Flags); err != nil {
			return handled, err
		}
	}

	p.events.resize(n)

	return handled, nil
}

// Polling blocks the current goroutine, dispatching readiness events to callback
// until callback returns an error or Shutdown is called.
func (p *Poller) Polling(callback Callback) error {
	for {
		if p.shutdown.Load() {
			return errors.ErrPollerClosed
		}
		if _, err := p.Wait(-1, callback); err != nil {
			return err
		}
	}
}

func (p *Poller) kevent(op string, changes ...unix.Kevent_t) error {
	_, err := unix.Kevent(p.fd, changes, nil, nil)
	return os.NewSyscallError(op, err)
}

func change(fd int, filter, flags int) unix.Kevent_t {
	var ev unix.Kevent_t
	unix.SetKevent(&ev, fd, filter, flags)
	return ev
}

// AddReadWrite registers the given file-descriptor with readable and writable events to the poller.
func (p *Poller) AddReadWrite(fd int) error {
	return p.kevent("kevent add",
		change(fd, unix.EVFILT_READ, unix.EV_ADD),
		change(fd, unix.EVFILT_WRITE, unix.EV_ADD))
}

// AddRead registers the given file-descriptor with readable event to the poller.
func (p *Poller) AddRead(fd int) error {
	return p.kevent("kevent add", change(fd, unix.EVFILT_READ, unix.EV_ADD))
}

// AddWrite registers the given file-descriptor with writable event to the poller.
func (p *Poller) AddWrite(fd int) error {
	return p.kevent("kevent add", change(fd, unix.EVFILT_WRITE, unix.EV_ADD))
}

// ModRead stops watching the writable event of the given file-descriptor.
func (p *Poller) ModRead(fd int) error {
	return p.kevent("kevent delete", change(fd, unix.EVFILT_WRITE, unix.EV_DELETE))
}

// ModReadWrite starts watching the writable event of the given file-descriptor as well.
func (p *Poller) ModReadWrite(fd int) error {
	return p.kevent("kevent add", change(fd, unix.EVFILT_WRITE, unix.EV_ADD))
}

// Delete removes the given file-descriptor from the poller.
func (p *Poller) Delete(fd int) error {
	var firstErr error
	for _, filter := range []int{unix.EVFILT_READ, unix.EVFILT_WRITE} {
		err := p.kevent("kevent delete", change(fd, filter, unix.EV_DELETE))
		if err != nil && !stderrors.Is(err, unix.ENOENT) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
