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

//go:build darwin || dragonfly || freebsd || linux

package netpoll_test

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd/pkg/errors"
	"github.com/panjf2000/nbfd/pkg/netpoll"
	"github.com/panjf2000/nbfd/pkg/readiness"
	"github.com/panjf2000/nbfd/pkg/socket"
)

func newPair(t *testing.T) [2]int {
	t.Helper()
	fds, err := socket.Socketpair(unix.SOCK_STREAM)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds
}

func openPoller(t *testing.T) *netpoll.Poller {
	t.Helper()
	p, err := netpoll.OpenPoller()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func noop(int, netpoll.IOEvent, netpoll.IOFlags) error { return nil }

func TestPollerWaitTimeout(t *testing.T) {
	p := openPoller(t)
	fds := newPair(t)
	require.NoError(t, p.AddRead(fds[0]))

	start := time.Now()
	n, err := p.Wait(50*time.Millisecond, noop)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestPollerReadEvent(t *testing.T) {
	p := openPoller(t)
	fds := newPair(t)
	require.NoError(t, p.AddRead(fds[0]))

	_, err := unix.Write(fds[1], []byte("hello"))
	require.NoError(t, err)

	var got []int
	n, err := p.Wait(time.Second, func(fd int, event netpoll.IOEvent, flags netpoll.IOFlags) error {
		assert.Equal(t, readiness.Readable, netpoll.Ready(event, flags))
		assert.False(t, netpoll.Exceptional(event, flags))
		got = append(got, fd)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{fds[0]}, got)

	// Drain until EAGAIN, then the descriptor is no longer reported.
	buf := make([]byte, 64)
	for {
		if _, err = unix.Read(fds[0], buf); err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, unix.EAGAIN)
	n, err = p.Wait(20*time.Millisecond, noop)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPollerWriteEvent(t *testing.T) {
	p := openPoller(t)
	fds := newPair(t)
	require.NoError(t, p.AddRead(fds[0]))

	n, err := p.Wait(0, noop)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, p.ModReadWrite(fds[0]))
	var writable bool
	n, err = p.Wait(time.Second, func(fd int, event netpoll.IOEvent, flags netpoll.IOFlags) error {
		writable = writable || netpoll.Ready(event, flags).Has(readiness.Writable)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, writable)

	require.NoError(t, p.ModRead(fds[0]))
	require.NoError(t, p.Delete(fds[0]))
	n, err = p.Wait(0, noop)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPollerPeerClosed(t *testing.T) {
	p := openPoller(t)
	fds, err := socket.Socketpair(unix.SOCK_STREAM)
	require.NoError(t, err)
	defer unix.Close(fds[0]) //nolint:errcheck
	require.NoError(t, p.AddRead(fds[0]))
	require.NoError(t, unix.Close(fds[1]))

	var (
		errEvent bool
		ready    readiness.Interest
	)
	_, err = p.Wait(time.Second, func(_ int, event netpoll.IOEvent, flags netpoll.IOFlags) error {
		errEvent = netpoll.Exceptional(event, flags)
		ready |= netpoll.Ready(event, flags)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, errEvent)
	// A hang-up is reported as readable, the read then returns 0.
	assert.True(t, ready.Has(readiness.Readable))
	n, err := unix.Read(fds[0], make([]byte, 8))
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestPollerCallbackError(t *testing.T) {
	p := openPoller(t)
	fds := newPair(t)
	require.NoError(t, p.AddReadWrite(fds[0]))

	stop := stderrors.New("stop")
	err := p.Polling(func(int, netpoll.IOEvent, netpoll.IOFlags) error { return stop })
	assert.ErrorIs(t, err, stop)

	_, err = p.Wait(time.Second, nil)
	assert.ErrorIs(t, err, errors.ErrNilCallback)
}

func TestPollerWakeupAndShutdown(t *testing.T) {
	p := openPoller(t)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = p.Wakeup()
	}()
	n, err := p.Wait(-1, noop)
	require.NoError(t, err)
	assert.Zero(t, n)

	done := make(chan error, 1)
	go func() { done <- p.Polling(noop) }()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, p.Shutdown())

	select {
	case err = <-done:
		assert.ErrorIs(t, err, errors.ErrPollerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Polling did not return after Shutdown")
	}

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Close(), errors.ErrPollerClosed)
	_, err = p.Wait(0, noop)
	assert.ErrorIs(t, err, errors.ErrPollerClosed)
}

func Example() {
	poller, err := netpoll.OpenPoller()
	if err != nil {
		panic(err)
	}
	defer poller.Close() //nolint:errcheck

	fds, err := socket.Socketpair(unix.SOCK_STREAM)
	if err != nil {
		panic(err)
	}
	defer unix.Close(fds[0]) //nolint:errcheck
	defer unix.Close(fds[1]) //nolint:errcheck

	buf := make([]byte, 16)
	if _, err = unix.Read(fds[0], buf); err == unix.EAGAIN {
		fmt.Println("nothing to read yet, waiting for readiness")
	}

	if err = poller.AddRead(fds[0]); err != nil {
		panic(err)
	}
	_, _ = unix.Write(fds[1], []byte("hello"))

	_, err = poller.Wait(time.Second, func(fd int, event netpoll.IOEvent, flags netpoll.IOFlags) error {
		if netpoll.Ready(event, flags).Has(readiness.Readable) {
			n, err := unix.Read(fd, buf)
			if err != nil {
				return err
			}
			fmt.Printf("read %q\n", buf[:n])
		}
		return nil
	})
	if err != nil {
		panic(err)
	}

	// Output:
	// nothing to read yet, waiting for readiness
	// read "hello"
}
