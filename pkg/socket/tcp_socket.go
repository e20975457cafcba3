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
	"net"
	"os"

	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
)

var listenerBacklogMaxSize = maxListenerBacklog()

// TCPEndpoint is a TCP address resolved into what socket(2) and bind(2) or connect(2) expect.
type TCPEndpoint struct {
	Family   int
	Sockaddr unix.Sockaddr
	Addr     *net.TCPAddr
	V6Only   bool
}

// ResolveTCP resolves addr for proto, which is one of "tcp", "tcp4" or "tcp6".
// A "tcp" address without an IPv4 host gets a dual-stack IPv6 socket.
func ResolveTCP(proto, addr string) (*TCPEndpoint, error) {
	switch proto {
	case "tcp", "tcp4", "tcp6":
	default:
		return nil, errors.ErrUnsupportedTCPProtocol
	}
	tcpAddr, err := net.ResolveTCPAddr(proto, addr)
	if err != nil {
		return nil, err
	}

	ep := &TCPEndpoint{Addr: tcpAddr}
	if proto == "tcp4" || tcpAddr.IP.To4() != nil {
		ep.Family = unix.AF_INET
		ep.Sockaddr, err = ipToSockaddr(unix.AF_INET, tcpAddr.IP, tcpAddr.Port, "")
	} else {
		ep.Family = unix.AF_INET6
		ep.V6Only = proto == "tcp6"
		ep.Sockaddr, err = ipToSockaddr(unix.AF_INET6, tcpAddr.IP, tcpAddr.Port, tcpAddr.Zone)
	}
	if err != nil {
		return nil, err
	}
	return ep, nil
}

// tcpSocket creates a non-blocking TCP socket for addr. A passive socket is bound
// and listening, an active one has a connect in flight.
func tcpSocket(proto, addr string, passive bool, sockOpts ...Option) (fd int, netAddr net.Addr, err error) {
	ep, err := ResolveTCP(proto, addr)
	if err != nil {
		return -1, nil, err
	}
	if fd, err = sysSocket(ep.Family, unix.SOCK_STREAM, unix.IPPROTO_TCP); err != nil {
		return -1, nil, os.NewSyscallError("socket", err)
	}
	defer func() {
		if err != nil {
			_ = unix.Close(fd)
			fd = -1
		}
	}()

	if ep.V6Only {
		sockOpts = append([]Option{{SetSockOpt: SetIPv6Only, Opt: 1}}, sockOpts...)
	}
	if err = execSockOpts(fd, sockOpts); err != nil {
		return
	}

	if !passive {
		return fd, ep.Addr, connect(fd, ep.Sockaddr)
	}
	if err = os.NewSyscallError("bind", unix.Bind(fd, ep.Sockaddr)); err != nil {
		return
	}
	if err = os.NewSyscallError("listen", unix.Listen(fd, listenerBacklogMaxSize)); err != nil {
		return
	}
	// Report the port picked by the kernel when addr asked for port 0.
	netAddr = ep.Addr
	if sa, e := unix.Getsockname(fd); e == nil {
		netAddr = SockaddrToTCPOrUnixAddr(sa)
	}
	return
}

// connect starts a non-blocking connect, EINPROGRESS and EINTR both leave the
// handshake running in the background.
func connect(fd int, sa unix.Sockaddr) error {
	switch err := unix.Connect(fd, sa); err {
	case nil, unix.EINPROGRESS, unix.EINTR:
		return nil
	default:
		return os.NewSyscallError("connect", err)
	}
}
