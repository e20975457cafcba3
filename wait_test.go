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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
	"github.com/panjf2000/nbfd/pkg/readiness"
)

func TestWaitReadableTimeout(t *testing.T) {
	fd, _ := newPair(t, unix.SOCK_STREAM)

	start := time.Now()
	r := fd.WaitReadable(20 * time.Millisecond)
	assert.Equal(t, Timeout, r.Status)
	assert.ErrorIs(t, r.Err, errors.ErrTimeout)
	assert.True(t, r.Temporary())
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.False(t, fd.Released())
	assert.EqualValues(t, 1, fd.Stats().Timeouts)
}

func TestWaitReadable(t *testing.T) {
	fd, peer := newPair(t, unix.SOCK_STREAM)
	go func() {
		time.Sleep(10 * time.Millisecond)
		_, _ = unix.Write(peer, []byte("x"))
	}()
	r := fd.WaitReadable(time.Second)
	assert.Equal(t, OK, r.Status, r.String())
}

func TestReadinessIsOnlyAHint(t *testing.T) {
	fd, peer := newPair(t, unix.SOCK_STREAM)
	_, err := unix.Write(peer, []byte("x"))
	require.NoError(t, err)

	// Two readers are told the descriptor is readable, only one of them gets the byte.
	require.Equal(t, OK, fd.WaitReadable(time.Second).Status)
	require.Equal(t, OK, fd.WaitReadable(time.Second).Status)

	buf := make([]byte, 1)
	assert.Equal(t, OK, fd.Read(buf).Status)
	r := fd.Read(buf)
	assert.Equal(t, WouldBlock, r.Status)
	assert.False(t, fd.Released())
}

func TestReadTimeout(t *testing.T) {
	fd, peer := newPair(t, unix.SOCK_STREAM)
	buf := make([]byte, 8)

	r := fd.ReadTimeout(buf, 0)
	assert.Equal(t, Timeout, r.Status)

	r = fd.ReadTimeout(buf, 20*time.Millisecond)
	assert.Equal(t, Timeout, r.Status)
	assert.False(t, fd.Released())

	go func() {
		time.Sleep(10 * time.Millisecond)
		_, _ = unix.Write(peer, []byte("late"))
	}()
	r = fd.ReadTimeout(buf, time.Second)
	require.Equal(t, OK, r.Status, r.String())
	assert.Equal(t, "late", string(buf[:r.N]))

	require.NoError(t, unix.Close(peer))
	r = fd.ReadTimeout(buf, time.Second)
	assert.Equal(t, Closed, r.Status)
	assert.True(t, fd.Released())
}

func TestReadTimeoutSpuriousWakeup(t *testing.T) {
	var peer int
	calls := 0
	waiter := readiness.WaiterFunc(func(fd int, in readiness.Interest, timeout time.Duration) (readiness.Interest, error) {
		calls++
		if calls == 1 {
			// Claim readiness while nothing is pending.
			return in, nil
		}
		_, _ = unix.Write(peer, []byte("data"))
		return readiness.PollWaiter{}.Wait(fd, in, timeout)
	})
	fd, p := newPair(t, unix.SOCK_STREAM, WithWaiter(waiter))
	peer = p

	buf := make([]byte, 8)
	r := fd.ReadTimeout(buf, time.Second)
	require.Equal(t, OK, r.Status, r.String())
	assert.Equal(t, "data", string(buf[:r.N]))
	assert.Equal(t, 2, calls)

	st := fd.Stats()
	assert.EqualValues(t, 1, st.SpuriousWakeups)
	assert.EqualValues(t, 2, st.WouldBlocks)
}

func TestWaitErrors(t *testing.T) {
	overflow := readiness.WaiterFunc(func(int, readiness.Interest, time.Duration) (readiness.Interest, error) {
		return 0, errors.ErrFDSetOverflow
	})
	fd, _ := newPair(t, unix.SOCK_STREAM, WithWaiter(overflow))
	r := fd.WaitReadable(time.Second)
	assert.Equal(t, Fatal, r.Status)
	assert.ErrorIs(t, r.Err, errors.ErrFDSetOverflow)
	assert.False(t, fd.Released())

	badf := readiness.WaiterFunc(func(int, readiness.Interest, time.Duration) (readiness.Interest, error) {
		return 0, os.NewSyscallError("select", unix.EBADF)
	})
	fd, _ = newPair(t, unix.SOCK_STREAM, WithWaiter(badf))
	r = fd.WaitWritable(time.Second)
	assert.Equal(t, Fatal, r.Status)
	assert.ErrorIs(t, r.Err, unix.EBADF)
	assert.True(t, fd.Released())

	r = fd.WaitWritable(time.Second)
	assert.ErrorIs(t, r.Err, errors.ErrReleased)
}

func TestWriteTimeout(t *testing.T) {
	fd, peer := newPair(t, unix.SOCK_STREAM, WithSocketSendBuffer(4096))

	payload := make([]byte, 1<<20)
	for i := range payload {
		payload[i] = byte(i)
	}

	received := make(chan int, 1)
	go func() {
		total := 0
		buf := make([]byte, 64*1024)
		pfd := []unix.PollFd{{Fd: int32(peer), Events: unix.POLLIN}}
		for total < len(payload) {
			if _, err := unix.Poll(pfd, 1000); err != nil && err != unix.EINTR {
				break
			}
			n, err := unix.Read(peer, buf)
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			if err != nil || n == 0 {
				break
			}
			total += n
		}
		received <- total
	}()

	r := fd.WriteTimeout(payload, 5*time.Second)
	require.Equal(t, OK, r.Status, r.String())
	assert.Equal(t, len(payload), r.N)
	assert.Equal(t, len(payload), <-received)
	assert.Greater(t, fd.Stats().WouldBlocks, uint64(0))
}

func TestWriteTimeoutExpires(t *testing.T) {
	fd, _ := newPair(t, unix.SOCK_STREAM, WithSocketSendBuffer(4096))

	payload := make([]byte, 1<<20)
	r := fd.WriteTimeout(payload, 20*time.Millisecond)
	assert.Equal(t, Timeout, r.Status)
	assert.Greater(t, r.N, 0)
	assert.Less(t, r.N, len(payload))
	assert.False(t, fd.Released())

	r = fd.WriteTimeout(nil, 0)
	assert.Equal(t, OK, r.Status)
	assert.Zero(t, r.N)
}
