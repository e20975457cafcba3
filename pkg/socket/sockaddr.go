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
	"strconv"

	"golang.org/x/sys/unix"
)

func ipToSockaddr(family int, ip net.IP, port int, zone string) (unix.Sockaddr, error) {
	switch family {
	case unix.AF_INET:
		if len(ip) == 0 {
			ip = net.IPv4zero
		}
		ip4 := ip.To4()
		if ip4 == nil {
			return nil, &net.AddrError{Err: "non-IPv4 address", Addr: ip.String()}
		}
		sa := &unix.SockaddrInet4{Port: port}
		copy(sa.Addr[:], ip4)
		return sa, nil
	case unix.AF_INET6:
		// A wildcard address of either family listens on both
		// when IPv4-mapped IPv6 addresses are supported.
		if len(ip) == 0 || ip.Equal(net.IPv4zero) {
			ip = net.IPv6zero
		}
		ip6 := ip.To16()
		if ip6 == nil {
			return nil, &net.AddrError{Err: "non-IPv6 address", Addr: ip.String()}
		}
		sa := &unix.SockaddrInet6{Port: port, ZoneId: uint32(ip6ZoneToInt(zone))}
		copy(sa.Addr[:], ip6)
		return sa, nil
	}
	return nil, &net.AddrError{Err: "invalid address family", Addr: ip.String()}
}

// inetAddr splits an IPv4 or IPv6 socket address into its parts.
func inetAddr(sa unix.Sockaddr) (ip net.IP, port int, zone string, ok bool) {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return append(net.IP(nil), sa.Addr[:]...), sa.Port, "", true
	case *unix.SockaddrInet6:
		return append(net.IP(nil), sa.Addr[:]...), sa.Port, ip6ZoneToString(sa.ZoneId), true
	}
	return nil, 0, "", false
}

// SockaddrToTCPOrUnixAddr converts what accept(2) or getsockname(2) reported
// for a stream socket, it returns nil for any other address family.
func SockaddrToTCPOrUnixAddr(sa unix.Sockaddr) net.Addr {
	if ip, port, zone, ok := inetAddr(sa); ok {
		return &net.TCPAddr{IP: ip, Port: port, Zone: zone}
	}
	if ua, ok := sa.(*unix.SockaddrUnix); ok {
		return &net.UnixAddr{Name: ua.Name, Net: "unix"}
	}
	return nil
}

// SockaddrToUDPAddr converts the source address of a datagram, it returns nil
// unless sa is an IPv4 or IPv6 address.
func SockaddrToUDPAddr(sa unix.Sockaddr) net.Addr {
	if ip, port, zone, ok := inetAddr(sa); ok {
		return &net.UDPAddr{IP: ip, Port: port, Zone: zone}
	}
	return nil
}

// ip6ZoneToInt maps a zone name or number to an interface index, 0 means none.
func ip6ZoneToInt(zone string) int {
	if zone == "" {
		return 0
	}
	if ifi, err := net.InterfaceByName(zone); err == nil {
		return ifi.Index
	}
	n, _ := strconv.Atoi(zone)
	return n
}

// ip6ZoneToString is the inverse of ip6ZoneToInt.
func ip6ZoneToString(zone uint32) string {
	if zone == 0 {
		return ""
	}
	if ifi, err := net.InterfaceByIndex(int(zone)); err == nil {
		return ifi.Name
	}
	return strconv.FormatUint(uint64(zone), 10)
}
