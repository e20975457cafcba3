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

package errno

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		n    int
		err  error
		want Class
	}{
		{"read-data", Read, 10, nil, OK},
		{"read-eof", Read, 0, nil, PeerClosed},
		{"recv-eof", Recv, 0, nil, PeerClosed},
		{"recvfrom-empty-datagram", RecvFrom, 0, nil, OK},
		{"write-zero", Write, 0, nil, OK},
		{"read-eagain", Read, -1, unix.EAGAIN, WouldBlock},
		{"read-ewouldblock", Recv, -1, unix.EWOULDBLOCK, WouldBlock},
		{"write-eagain", Write, -1, unix.EAGAIN, WouldBlock},
		{"sendto-eagain", SendTo, -1, unix.EAGAIN, WouldBlock},
		{"accept-eagain", Accept, -1, unix.EAGAIN, WouldBlock},
		{"connect-einprogress", Connect, -1, unix.EINPROGRESS, WouldBlock},
		{"read-einprogress", Read, -1, unix.EINPROGRESS, Fatal},
		{"read-eintr", Read, -1, unix.EINTR, Interrupted},
		{"select-eintr", Select, -1, unix.EINTR, Interrupted},
		{"read-ebadf", Read, -1, unix.EBADF, Fatal},
		{"write-epipe", Write, -1, unix.EPIPE, Fatal},
		{"recv-econnreset", Recv, -1, unix.ECONNRESET, Fatal},
		{"wrapped-eagain", Read, -1, os.NewSyscallError("read", unix.EAGAIN), WouldBlock},
		{"wrapped-eintr", Accept, -1, os.NewSyscallError("accept", unix.EINTR), Interrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.op, tt.n, tt.err))
		})
	}
}

func TestActionOf(t *testing.T) {
	assert.Equal(t, Proceed, ActionOf(OK))
	assert.Equal(t, RetryLater, ActionOf(WouldBlock))
	assert.Equal(t, RetryNow, ActionOf(Interrupted))
	assert.Equal(t, TerminateStream, ActionOf(PeerClosed))
	assert.Equal(t, ReportAndClose, ActionOf(Fatal))

	assert.True(t, TerminateStream.Terminal())
	assert.True(t, ReportAndClose.Terminal())
	assert.False(t, RetryLater.Terminal())
	assert.False(t, RetryNow.Terminal())
}

func TestMeaning(t *testing.T) {
	assert.Equal(t, "no data currently available in the receive buffer", Meaning(RecvFrom, WouldBlock))
	assert.Equal(t, "the send buffer is currently full", Meaning(Send, WouldBlock))
	assert.Equal(t, "no pending connection", Meaning(Accept, WouldBlock))
	assert.Equal(t, "the peer closed the connection", Meaning(Read, PeerClosed))
}

func TestNameAndNumber(t *testing.T) {
	assert.Equal(t, "EAGAIN", Name(unix.EAGAIN))
	assert.Equal(t, "EINTR", Name(os.NewSyscallError("read", unix.EINTR)))
	assert.Equal(t, int(unix.EBADF), Number(unix.EBADF))
	assert.Equal(t, -1, Number(os.ErrClosed))
	assert.Empty(t, Name(os.ErrClosed))

	assert.True(t, IsTemporary(unix.EAGAIN))
	assert.True(t, IsTemporary(os.NewSyscallError("write", unix.EINTR)))
	assert.False(t, IsTemporary(unix.EPIPE))
	assert.False(t, IsTemporary(nil))
}

func TestParseOp(t *testing.T) {
	for op := Read; op <= Close; op++ {
		got, ok := ParseOp(op.String())
		assert.True(t, ok, op.String())
		assert.Equal(t, op, got)
	}
	_, ok := ParseOp("ioctl")
	assert.False(t, ok)
}

func TestInspect(t *testing.T) {
	r := Inspect(Read, os.NewSyscallError("read", unix.EAGAIN))
	assert.Equal(t, unix.EAGAIN, r.Errno)
	assert.Equal(t, "EAGAIN", r.Name)
	assert.Equal(t, WouldBlock, r.Class)
	assert.Equal(t, RetryLater, r.Action)
	s := r.String()
	assert.True(t, strings.HasPrefix(s, "read: errno "), s)
	assert.Contains(t, s, "(EAGAIN)")
	assert.Contains(t, s, "[would-block, retry-later]")

	r = Inspect(Write, unix.EPIPE)
	assert.Equal(t, Fatal, r.Class)
	assert.Equal(t, ReportAndClose, r.Action)

	assert.Equal(t, "accept: ok", Inspect(Accept, nil).String())
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("eagain")
	require.True(t, ok)
	assert.Equal(t, unix.EAGAIN, e)

	e, ok = Lookup("EWOULDBLOCK")
	require.True(t, ok)
	assert.Equal(t, unix.EWOULDBLOCK, e)

	e, ok = Lookup("4")
	require.True(t, ok)
	assert.Equal(t, unix.EINTR, e)

	_, ok = Lookup("ENOTANERRNO")
	assert.False(t, ok)
	_, ok = Lookup("-3")
	assert.False(t, ok)
}

func TestTable(t *testing.T) {
	rows := Table()
	require.Len(t, rows, 6)
	for _, row := range rows {
		assert.Equal(t, ActionOf(row.Class), row.Action, row.Condition)
		assert.NotEmpty(t, row.Ops, row.Condition)
	}
}
