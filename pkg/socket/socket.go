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

// Package socket provides some handy socket-related functions: creating
// non-blocking sockets, toggling the non-blocking flag of an existing
// descriptor and tuning socket options.
package socket

import (
	"net"
	"os"

	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
)

// Option is used for setting an option on socket.
type Option struct {
	SetSockOpt func(int, int) error
	Opt        int
}

func execSockOpts(fd int, opts []Option) error {
	for _, opt := range opts {
		if err := opt.SetSockOpt(fd, opt.Opt); err != nil {
			return err
		}
	}
	return nil
}

// SetNonblock sets or clears the O_NONBLOCK file status flag on fd.
func SetNonblock(fd int, nonblocking bool) error {
	if fd < 0 {
		return errors.ErrInvalidFD
	}
	return os.NewSyscallError("fcntl nonblock", unix.SetNonblock(fd, nonblocking))
}

// IsNonblock reports whether the O_NONBLOCK file status flag is set on fd.
func IsNonblock(fd int) (bool, error) {
	if fd < 0 {
		return false, errors.ErrInvalidFD
	}
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return false, os.NewSyscallError("fcntl getfl", err)
	}
	return flags&unix.O_NONBLOCK != 0, nil
}

// Accept accepts the next incoming socket along with setting
// O_NONBLOCK and O_CLOEXEC flags on it.
func Accept(fd int) (int, unix.Sockaddr, error) {
	return sysAccept(fd)
}

// Socketpair creates a pair of connected, non-blocking and close-on-exec
// unix domain sockets of the given type (unix.SOCK_STREAM, unix.SOCK_DGRAM).
func Socketpair(typ int) (fds [2]int, err error) {
	if fds, err = sysSocketpair(unix.AF_UNIX, typ, 0); err != nil {
		err = os.NewSyscallError("socketpair", err)
	}
	return
}

// TCPListener creates a non-blocking TCP socket listening on addr and returns
// a file descriptor that refers to it. The given socket options are set on the
// descriptor before it is bound.
func TCPListener(proto, addr string, sockOpts ...Option) (int, net.Addr, error) {
	return tcpSocket(proto, addr, true, sockOpts...)
}

// TCPDial creates a non-blocking TCP socket and starts connecting it to addr.
// The connection is usually still in progress when TCPDial returns,
// wait for the descriptor to become writable and check SocketError before use.
func TCPDial(proto, addr string, sockOpts ...Option) (int, net.Addr, error) {
	return tcpSocket(proto, addr, false, sockOpts...)
}

// SocketError fetches and clears the pending error on fd (SO_ERROR),
// which is how the result of a non-blocking connect is collected.
func SocketError(fd int) error {
	errno, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return os.NewSyscallError("getsockopt", err)
	}
	if errno != 0 {
		return os.NewSyscallError("connect", unix.Errno(errno))
	}
	return nil
}
