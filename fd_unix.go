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
	"os"

	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errno"
	"github.com/panjf2000/nbfd/pkg/errors"
)

var errEINTR error = unix.EINTR

var releasedResult = Result{Status: Fatal, Err: errors.ErrReleased}

// do runs call until it yields something other than EINTR and turns the outcome into a Result.
func (fd *FD) do(op errno.Op, call func(sysfd int) (int, unix.Sockaddr, error)) Result {
	sysfd, ok := fd.acquire()
	if !ok {
		return releasedResult
	}

	var (
		n   int
		sa  unix.Sockaddr
		err error
	)
	for {
		n, sa, err = call(sysfd)
		if errno.Classify(op, n, err) != errno.Interrupted {
			break
		}
		fd.stats.interrupts.Inc()
		fd.inspect(op, err)
	}
	fd.unpin()

	switch errno.Classify(op, n, err) {
	case errno.OK:
		return Result{Status: OK, N: n, From: sa}
	case errno.WouldBlock:
		fd.stats.wouldBlocks.Inc()
		fd.inspect(op, err)
		return Result{Status: WouldBlock, Err: errors.ErrWouldBlock}
	case errno.PeerClosed:
		_ = fd.release(errors.ErrPeerClosed)
		return Result{Status: Closed, Err: errors.ErrPeerClosed}
	default:
		fd.inspect(op, err)
		serr := os.NewSyscallError(op.String(), err)
		_ = fd.release(serr)
		return Result{Status: Fatal, Err: serr}
	}
}

// emptyRead answers a read into an empty buffer without a syscall,
// read(2) would return 0 and that must not be taken for an end of stream.
func (fd *FD) emptyRead() Result {
	if fd.released.Load() {
		return releasedResult
	}
	return Result{Status: OK}
}

// Read issues read(2) on the descriptor. An empty p is OK(0) and leaves the
// descriptor alone.
func (fd *FD) Read(p []byte) Result {
	if len(p) == 0 {
		return fd.emptyRead()
	}
	r := fd.do(errno.Read, func(sysfd int) (int, unix.Sockaddr, error) {
		n, err := readFunc(sysfd, p)
		return n, nil, err
	})
	fd.countRead(r)
	return r
}

// Recv issues recv(2) with the given flags, unix.MSG_PEEK for instance.
func (fd *FD) Recv(p []byte, flags int) Result {
	if len(p) == 0 {
		return fd.emptyRead()
	}
	r := fd.do(errno.Recv, func(sysfd int) (int, unix.Sockaddr, error) {
		n, _, err := recvfromFunc(sysfd, p, flags)
		return n, nil, err
	})
	fd.countRead(r)
	return r
}

// RecvFrom issues recvfrom(2), Result.From holds the sender address.
// A zero-length datagram is a regular OK result, not an end of stream.
func (fd *FD) RecvFrom(p []byte, flags int) Result {
	r := fd.do(errno.RecvFrom, func(sysfd int) (int, unix.Sockaddr, error) {
		return recvfromFunc(sysfd, p, flags)
	})
	fd.countRead(r)
	return r
}

// Write issues write(2), a short write is an OK result with N < len(p).
func (fd *FD) Write(p []byte) Result {
	r := fd.do(errno.Write, func(sysfd int) (int, unix.Sockaddr, error) {
		n, err := writeFunc(sysfd, p)
		return n, nil, err
	})
	fd.countWrite(r)
	return r
}

// Send issues send(2) with the given flags.
func (fd *FD) Send(p []byte, flags int) Result {
	r := fd.do(errno.Send, func(sysfd int) (int, unix.Sockaddr, error) {
		n, err := sendmsgFunc(sysfd, p, nil, nil, flags)
		return n, nil, err
	})
	fd.countWrite(r)
	return r
}

// SendTo issues sendto(2) towards the given address.
func (fd *FD) SendTo(p []byte, flags int, to unix.Sockaddr) Result {
	r := fd.do(errno.SendTo, func(sysfd int) (int, unix.Sockaddr, error) {
		n, err := sendmsgFunc(sysfd, p, nil, to, flags)
		return n, nil, err
	})
	fd.countWrite(r)
	return r
}

// Accept takes the next pending connection off a listening descriptor.
//
// WouldBlock means there is no pending connection, wait for the listener to
// become readable. The accepted descriptor is non-blocking, close-on-exec and
// shares the options of the listener.
func (fd *FD) Accept() (*FD, Result) {
	var nfd int
	r := fd.do(errno.Accept, func(sysfd int) (int, unix.Sockaddr, error) {
		var (
			sa  unix.Sockaddr
			err error
		)
		nfd, sa, err = acceptFunc(sysfd)
		// accept(2) returns a descriptor, not a byte count, report 1 so that
		// a successful accept is never mistaken for an end of stream.
		if err != nil {
			return -1, nil, err
		}
		return 1, sa, nil
	})
	if r.Status != OK {
		return nil, r
	}
	r.N = 0
	fd.stats.accepts.Inc()
	return newFD(nfd, fd.opts), r
}

func (fd *FD) countRead(r Result) {
	if r.Status == OK {
		fd.stats.reads.Inc()
		fd.stats.bytesRead.Add(uint64(r.N))
	}
}

func (fd *FD) countWrite(r Result) {
	if r.Status == OK {
		fd.stats.writes.Inc()
		fd.stats.bytesWritten.Add(uint64(r.N))
	}
}
