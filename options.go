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

package nbfd

import (
	"time"

	"github.com/panjf2000/nbfd/pkg/errno"
	"github.com/panjf2000/nbfd/pkg/logging"
	"github.com/panjf2000/nbfd/pkg/math"
	"github.com/panjf2000/nbfd/pkg/readiness"
)

const (
	// DefaultReadChunk is the size of the scratch buffer Drain reads into.
	DefaultReadChunk = 16 * 1024
	// MaxReadChunk caps the size of the scratch buffer.
	MaxReadChunk = 1 << 20
)

// Option is a function that will set up option.
type Option func(opts *Options)

func loadOptions(options ...Option) *Options {
	opts := &Options{CloseOnRelease: true}
	for _, option := range options {
		option(opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetDefaultLogger()
	}
	if opts.Waiter == nil {
		opts.Waiter = readiness.Default()
	}
	if opts.ReadChunk <= 0 {
		opts.ReadChunk = DefaultReadChunk
	} else {
		opts.ReadChunk = math.CeilToPowerOfTwo(math.Clamp(opts.ReadChunk, 2, MaxReadChunk))
	}
	return opts
}

// Options are configurations for an FD.
type Options struct {
	// Logger is the customized logger for logging info, if it is not set,
	// then the default logger of pkg/logging is used.
	Logger logging.Logger

	// Waiter blocks on readiness for the bounded operations, select(2) on Linux
	// and poll(2) elsewhere by default.
	Waiter readiness.Waiter

	// ReadChunk is the size of each read issued by Drain, rounded up to a power of two.
	ReadChunk int

	// SocketRecvBuffer sets the maximum socket receive buffer in bytes.
	SocketRecvBuffer int

	// SocketSendBuffer sets the maximum socket send buffer in bytes.
	SocketSendBuffer int

	// TCPNoDelay disables Nagle's algorithm, only valid on TCP sockets.
	TCPNoDelay bool

	// TCPKeepAlive sets up a duration for (SO_KEEPALIVE) socket option, only valid on TCP sockets.
	TCPKeepAlive time.Duration

	// CloseOnRelease closes the underlying descriptor when the FD is released,
	// either by Close or by a Closed/Fatal outcome. It is true by default,
	// turn it off when the descriptor is owned and closed elsewhere.
	CloseOnRelease bool

	// Inspector is called with the errno report of every call that did not simply
	// complete: EAGAIN, EINTR and genuine faults alike.
	Inspector func(errno.Report)
}

// WithOptions sets up all options.
func WithOptions(options Options) Option {
	return func(opts *Options) {
		*opts = options
	}
}

// WithLogger sets up a customized logger.
func WithLogger(logger logging.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithWaiter sets up the readiness waiter.
func WithWaiter(w readiness.Waiter) Option {
	return func(opts *Options) {
		opts.Waiter = w
	}
}

// WithReadChunk sets up the size of each read issued by Drain.
func WithReadChunk(size int) Option {
	return func(opts *Options) {
		opts.ReadChunk = size
	}
}

// WithSocketRecvBuffer sets the maximum socket receive buffer in bytes.
func WithSocketRecvBuffer(recvBuf int) Option {
	return func(opts *Options) {
		opts.SocketRecvBuffer = recvBuf
	}
}

// WithSocketSendBuffer sets the maximum socket send buffer in bytes.
func WithSocketSendBuffer(sendBuf int) Option {
	return func(opts *Options) {
		opts.SocketSendBuffer = sendBuf
	}
}

// WithTCPNoDelay enable/disable the TCP_NODELAY socket option.
func WithTCPNoDelay(noDelay bool) Option {
	return func(opts *Options) {
		opts.TCPNoDelay = noDelay
	}
}

// WithTCPKeepAlive sets up the SO_KEEPALIVE socket option with duration.
func WithTCPKeepAlive(tcpKeepAlive time.Duration) Option {
	return func(opts *Options) {
		opts.TCPKeepAlive = tcpKeepAlive
	}
}

// WithCloseOnRelease decides whether releasing the FD closes the descriptor.
func WithCloseOnRelease(closeOnRelease bool) Option {
	return func(opts *Options) {
		opts.CloseOnRelease = closeOnRelease
	}
}

// WithInspector sets up the callback receiving errno reports.
func WithInspector(inspector func(errno.Report)) Option {
	return func(opts *Options) {
		opts.Inspector = inspector
	}
}

// LogInspector returns an inspector printing every report through logger,
// genuine faults at WARN level and the rest at DEBUG level.
func LogInspector(logger logging.Logger) func(errno.Report) {
	return func(r errno.Report) {
		if r.Class == errno.Fatal {
			logger.Warnf("%s", r)
			return
		}
		logger.Debugf("%s", r)
	}
}
