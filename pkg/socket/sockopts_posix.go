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

package socket

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
)

func setsockoptInt(fd, level, name, value int) error {
	return os.NewSyscallError("setsockopt", unix.SetsockoptInt(fd, level, name, value))
}

func getsockoptInt(fd, level, name int) (int, error) {
	n, err := unix.GetsockoptInt(fd, level, name)
	return n, os.NewSyscallError("getsockopt", err)
}

// SetNoDelay sets TCP_NODELAY, 1 disables Nagle's algorithm so that small
// writes leave immediately instead of being coalesced.
func SetNoDelay(fd, noDelay int) error {
	return setsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, noDelay)
}

// SetRecvBuffer sets SO_RCVBUF. A smaller receive buffer makes reads report
// EAGAIN sooner, a larger one lets more data queue between two drains.
//
// Linux doubles the requested value to leave room for bookkeeping,
// read the effective size back with GetRecvBuffer.
func SetRecvBuffer(fd, size int) error {
	if size < 0 {
		return errors.ErrNegativeSize
	}
	return setsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, size)
}

// SetSendBuffer sets SO_SNDBUF, writes report EAGAIN once it is full.
func SetSendBuffer(fd, size int) error {
	if size < 0 {
		return errors.ErrNegativeSize
	}
	return setsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, size)
}

// GetRecvBuffer returns the effective size of the receive buffer.
func GetRecvBuffer(fd int) (int, error) {
	return getsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF)
}

// GetSendBuffer returns the effective size of the send buffer.
func GetSendBuffer(fd int) (int, error) {
	return getsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF)
}

// SetReuseAddr sets SO_REUSEADDR.
func SetReuseAddr(fd, reuseAddr int) error {
	return setsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, reuseAddr)
}

// SetIPv6Only sets IPV6_V6ONLY, 0 lets an IPv6 socket serve IPv4-mapped addresses too.
func SetIPv6Only(fd, ipv6only int) error {
	return setsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, ipv6only)
}

// SetLinger sets SO_LINGER. A negative sec restores the default where close(2)
// returns at once and unsent data is flushed in the background, 0 discards
// unsent data and resets the connection, a positive value makes close(2) wait
// up to sec seconds for the data to be acknowledged.
func SetLinger(fd, sec int) error {
	l := unix.Linger{}
	if sec >= 0 {
		l.Onoff, l.Linger = 1, int32(sec)
	}
	return os.NewSyscallError("setsockopt", unix.SetsockoptLinger(fd, unix.SOL_SOCKET, unix.SO_LINGER, &l))
}
