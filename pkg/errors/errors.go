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

// Package errors defines common errors for nbfd.
package errors

import "errors"

var (
	// ErrWouldBlock occurs when a non-blocking call could not complete immediately (EAGAIN/EWOULDBLOCK).
	ErrWouldBlock = errors.New("nbfd: operation would block")
	// ErrPeerClosed occurs when a read returns zero bytes because the peer shut the stream down.
	ErrPeerClosed = errors.New("nbfd: connection closed by peer")
	// ErrTimeout occurs when a readiness wait expires before the descriptor becomes ready.
	ErrTimeout = errors.New("nbfd: i/o timeout")
	// ErrReleased occurs when trying to do I/O on a descriptor that has already been released.
	ErrReleased = errors.New("nbfd: use of released file descriptor")
	// ErrInvalidFD occurs when a negative file descriptor is given.
	ErrInvalidFD = errors.New("nbfd: invalid file descriptor")
	// ErrNegativeSize occurs when trying to pass a negative size to a buffer or a socket option.
	ErrNegativeSize = errors.New("nbfd: negative size is not allowed")
	// ErrFDSetOverflow occurs when select(2) is asked to watch a descriptor beyond FD_SETSIZE.
	ErrFDSetOverflow = errors.New("nbfd: file descriptor exceeds FD_SETSIZE")
	// ErrUnsupportedTCPProtocol occurs when trying to use an unsupported TCP protocol.
	ErrUnsupportedTCPProtocol = errors.New("nbfd: only tcp/tcp4/tcp6 are supported")
	// ErrUnsupportedOp occurs when calling some methods that are not supported on the current platform.
	ErrUnsupportedOp = errors.New("nbfd: unsupported operation")
	// ErrPollerClosed occurs when trying to use a poller that has been closed.
	ErrPollerClosed = errors.New("nbfd: poller is closed")
	// ErrNilCallback occurs when trying to poll with a nil callback.
	ErrNilCallback = errors.New("nbfd: nil callback is not allowed")
)
