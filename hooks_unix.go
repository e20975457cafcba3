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
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/socket"
)

// Syscall entry points, replaced in tests to inject EINTR and faults.
var (
	readFunc     = unix.Read
	writeFunc    = unix.Write
	recvfromFunc = unix.Recvfrom
	sendmsgFunc  = unix.SendmsgN
	acceptFunc   = socket.Accept
	closeFunc    = unix.Close
)
