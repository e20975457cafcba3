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
	"net"
	"time"

	"github.com/panjf2000/nbfd/pkg/socket"
)

// Dial connects to the TCP address addr, waiting up to timeout for the
// handshake to complete. proto is one of "tcp", "tcp4" or "tcp6".
//
// The connect(2) is issued on a non-blocking socket, EINPROGRESS is treated like
// EAGAIN: wait for writability then collect the outcome with SO_ERROR.
func Dial(proto, addr string, timeout time.Duration, opts ...Option) (*FD, error) {
	sysfd, _, err := socket.TCPDial(proto, addr)
	if err != nil {
		return nil, err
	}
	fd, err := New(sysfd, opts...)
	if err != nil {
		_ = closeFunc(sysfd)
		return nil, err
	}
	if r := fd.WaitWritable(timeout); r.Status != OK {
		_ = fd.Close()
		return nil, r.Err
	}
	if err = socket.SocketError(sysfd); err != nil {
		fd.opts.Logger.Debugf("failed to connect to %s: %v", addr, err)
		_ = fd.Close()
		return nil, err
	}
	return fd, nil
}

// Listen creates a non-blocking TCP listener bound to addr, Accept on the
// returned FD yields WouldBlock until a connection is pending.
// The returned address carries the port picked by the kernel when addr asks for port 0.
func Listen(proto, addr string, opts ...Option) (*FD, net.Addr, error) {
	sysfd, laddr, err := socket.TCPListener(proto, addr, socket.Option{SetSockOpt: socket.SetReuseAddr, Opt: 1})
	if err != nil {
		return nil, nil, err
	}
	fd, err := New(sysfd, opts...)
	if err != nil {
		_ = closeFunc(sysfd)
		return nil, nil, err
	}
	return fd, laddr, nil
}
