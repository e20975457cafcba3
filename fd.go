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
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/panjf2000/nbfd/pkg/errno"
	"github.com/panjf2000/nbfd/pkg/errors"
	"github.com/panjf2000/nbfd/pkg/socket"
)

// FD wraps a descriptor switched to non-blocking mode.
//
// Every I/O method returns a Result: EINTR is retried inside and never seen by the
// caller, EAGAIN/EWOULDBLOCK yields WouldBlock and leaves the descriptor open,
// end of stream yields Closed and any other errno yields Fatal, both of which
// release the descriptor exactly once.
//
// An FD is safe for concurrent use. Readiness waits do not pin the descriptor,
// so a concurrent Close makes a pending wait end in a Fatal result.
type FD struct {
	fd       int
	opts     *Options
	mu       sync.RWMutex
	released atomic.Bool
	stats    stats
}

type stats struct {
	reads, writes, accepts    atomic.Uint64
	bytesRead, bytesWritten   atomic.Uint64
	wouldBlocks, interrupts   atomic.Uint64
	timeouts, spuriousWakeups atomic.Uint64
}

// Stats is a snapshot of the counters of an FD.
type Stats struct {
	Reads, Writes, Accepts    uint64
	BytesRead, BytesWritten   uint64
	WouldBlocks, Interrupts   uint64
	Timeouts, SpuriousWakeups uint64
}

// New takes fd, marks it non-blocking and applies the socket options found in opts.
// On failure fd is left untouched and still belongs to the caller.
func New(fd int, opts ...Option) (*FD, error) {
	if fd < 0 {
		return nil, errors.ErrInvalidFD
	}
	options := loadOptions(opts...)
	if options.SocketRecvBuffer < 0 || options.SocketSendBuffer < 0 || options.TCPKeepAlive < 0 {
		return nil, errors.ErrNegativeSize
	}
	if err := socket.SetNonblock(fd, true); err != nil {
		return nil, err
	}
	if options.SocketRecvBuffer > 0 {
		if err := socket.SetRecvBuffer(fd, options.SocketRecvBuffer); err != nil {
			return nil, err
		}
	}
	if options.SocketSendBuffer > 0 {
		if err := socket.SetSendBuffer(fd, options.SocketSendBuffer); err != nil {
			return nil, err
		}
	}
	if options.TCPNoDelay {
		if err := socket.SetNoDelay(fd, 1); err != nil {
			return nil, err
		}
	}
	if options.TCPKeepAlive > 0 {
		secs := int(options.TCPKeepAlive / time.Second)
		if secs == 0 {
			secs = 1
		}
		if err := socket.SetKeepAlivePeriod(fd, secs); err != nil {
			return nil, err
		}
	}
	return newFD(fd, options), nil
}

func newFD(fd int, opts *Options) *FD {
	return &FD{fd: fd, opts: opts}
}

// Fd returns the underlying descriptor, or -1 once it has been released.
func (fd *FD) Fd() int {
	if fd.released.Load() {
		return -1
	}
	return fd.fd
}

// Released reports whether the descriptor has been released.
func (fd *FD) Released() bool {
	return fd.released.Load()
}

// Close releases the descriptor. Closing twice returns errors.ErrReleased.
func (fd *FD) Close() error {
	return fd.release(nil)
}

// Stats returns a snapshot of the counters.
func (fd *FD) Stats() Stats {
	return Stats{
		Reads:           fd.stats.reads.Load(),
		Writes:          fd.stats.writes.Load(),
		Accepts:         fd.stats.accepts.Load(),
		BytesRead:       fd.stats.bytesRead.Load(),
		BytesWritten:    fd.stats.bytesWritten.Load(),
		WouldBlocks:     fd.stats.wouldBlocks.Load(),
		Interrupts:      fd.stats.interrupts.Load(),
		Timeouts:        fd.stats.timeouts.Load(),
		SpuriousWakeups: fd.stats.spuriousWakeups.Load(),
	}
}

// acquire pins the descriptor for a single non-blocking call.
func (fd *FD) acquire() (int, bool) {
	fd.mu.RLock()
	if fd.released.Load() {
		fd.mu.RUnlock()
		return -1, false
	}
	return fd.fd, true
}

func (fd *FD) unpin() {
	fd.mu.RUnlock()
}

// release marks the FD unusable and closes the descriptor if it owns it.
// cause is the reason of an implicit release, nil for an explicit Close.
func (fd *FD) release(cause error) error {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	if !fd.released.CompareAndSwap(false, true) {
		return errors.ErrReleased
	}
	if cause != nil {
		fd.opts.Logger.Debugf("releasing fd=%d: %v", fd.fd, cause)
	}
	if !fd.opts.CloseOnRelease {
		return nil
	}
	// close(2) must not be retried on EINTR, the descriptor is gone either way.
	err := closeFunc(fd.fd)
	if err != nil && err != errEINTR {
		fd.opts.Logger.Warnf("failed to close fd=%d: %v", fd.fd, err)
		return os.NewSyscallError("close", err)
	}
	return nil
}

func (fd *FD) inspect(op errno.Op, err error) {
	if fd.opts.Inspector != nil {
		fd.opts.Inspector(errno.Inspect(op, err))
	}
}
