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
	"os"
	"time"
	"unsafe"

	"go.uber.org/atomic"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
	"github.com/panjf2000/nbfd/pkg/logging"
	"github.com/panjf2000/nbfd/pkg/readiness"
)

// Poller represents a poller which is in charge of monitoring file-descriptors.
//
// Registration methods are safe for concurrent use, Wait and Polling must be
// driven by a single goroutine.
type Poller struct {
	fd       int    // epoll fd
	wfd      int    // wake fd
	wfdBuf   []byte // wfd buffer to read packet
	events   eventList
	shutdown atomic.Bool
	closed   atomic.Bool
}

// OpenPoller instantiates a poller.
func OpenPoller() (poller *Poller, err error) {
	poller = new(Poller)
	if poller.fd, err = unix.EpollCreate1(unix.EPOLL_CLOEXEC); err != nil {
		poller = nil
		err = os.NewSyscallError("epoll_create1", err)
		return
	}
	if poller.wfd, err = unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC); err != nil {
		_ = unix.Close(poller.fd)
		poller = nil
		err = os.NewSyscallError("eventfd", err)
		return
	}
	poller.wfdBuf = make([]byte, 8)
	if err = poller.AddRead(poller.wfd); err != nil {
		_ = unix.Close(poller.wfd)
		_ = unix.Close(poller.fd)
		poller = nil
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
	if err := os.NewSyscallError("close", unix.Close(p.fd)); err != nil {
		return err
	}
	return os.NewSyscallError("close", unix.Close(p.wfd))
}

// Make the endianness of bytes compatible with more linux OSs under different processor-architectures,
// according to http://man7.org/linux/man-pages/man2/eventfd.2.html.
var (
	u uint64 = 1
	b        = (*(*[8]byte)(unsafe.Pointer(&u)))[:]
)

// Wakeup interrupts a blocked Wait, which then returns with no events.
func (p *Poller) Wakeup() (err error) {
	if p.closed.Load() {
		return errors.ErrPollerClosed
	}
	for _, err = unix.Write(p.wfd, b); err == unix.EINTR; _, err = unix.Write(p.wfd, b) {
	}
	// A full eventfd counter means a wakeup is already pending.
	if err == unix.EAGAIN {
		err = nil
	}
	return os.NewSyscallError("write", err)
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
		n, err = unix.EpollWait(p.fd, p.events, dl.msec())
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		if p.closed.Load() {
			return 0, errors.ErrPollerClosed
		}
		logging.Errorf("error occurs in epoll: %v", os.NewSyscallError("epoll_wait", err))
		return 0, os.NewSyscallError("epoll_wait", err)
	}

	var handled int
	for i := 0; i < n; i++ {
		ev := &p.events[i]
		if fd := int(ev.Fd); fd != p.wfd {
			handled++
			if err = callback(fd, ev.Events, 0); err != nil {
				return handled, err
			}
		} else { // poller is awakened.
			_, _ = unix.Read(p.wfd, p.wfdBuf)
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

func (p *Poller) ctl(op, fd int, in readiness.Interest) error {
	var events uint32
	if in.Has(readiness.Readable) {
		events |= readEvents
	}
	if in.Has(readiness.Writable) {
		events |= writeEvents
	}
	name := "epoll_ctl add"
	if op == unix.EPOLL_CTL_MOD {
		name = "epoll_ctl mod"
	}
	return os.NewSyscallError(name, unix.EpollCtl(p.fd, op, fd, &unix.EpollEvent{Fd: int32(fd), Events: events}))
}

// AddReadWrite starts watching fd for both conditions.
func (p *Poller) AddReadWrite(fd int) error {
	return p.ctl(unix.EPOLL_CTL_ADD, fd, readiness.ReadWritable)
}

// AddRead starts watching fd for readability, which includes pending connections on a listener.
func (p *Poller) AddRead(fd int) error {
	return p.ctl(unix.EPOLL_CTL_ADD, fd, readiness.Readable)
}

// AddWrite starts watching fd for writability, which includes a completed non-blocking connect.
func (p *Poller) AddWrite(fd int) error {
	return p.ctl(unix.EPOLL_CTL_ADD, fd, readiness.Writable)
}

// ModRead stops watching fd for writability, typically once the pending output is flushed.
func (p *Poller) ModRead(fd int) error {
	return p.ctl(unix.EPOLL_CTL_MOD, fd, readiness.Readable)
}

// ModReadWrite adds writability to the watch on fd, typically after a write reported EAGAIN.
func (p *Poller) ModReadWrite(fd int) error {
	return p.ctl(unix.EPOLL_CTL_MOD, fd, readiness.ReadWritable)
}

// Delete stops watching fd. It must be called before fd is closed.
func (p *Poller) Delete(fd int) error {
	return os.NewSyscallError("epoll_ctl del", unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil))
}
