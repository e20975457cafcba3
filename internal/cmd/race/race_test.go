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

package race

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd"
	"github.com/panjf2000/nbfd/pkg/socket"
)

var errOverload = errors.New("pool overloaded")

// limitedPool runs the first accept tasks and rejects the rest.
type limitedPool struct {
	accept int
}

func (p *limitedPool) Submit(task func()) error {
	if p.accept == 0 {
		return errOverload
	}
	p.accept--
	go task()
	return nil
}

func TestRaceRoundSubmitFailureReleasesReaders(t *testing.T) {
	fds, err := socket.Socketpair(unix.SOCK_STREAM)
	require.NoError(t, err)
	defer unix.Close(fds[1]) //nolint:errcheck
	fd, err := nbfd.New(fds[0])
	require.NoError(t, err)
	defer fd.Close() //nolint:errcheck

	_, err = unix.Write(fds[1], []byte{1})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := raceRound(&limitedPool{accept: 1}, fd, 3, time.Second)
		done <- err
	}()
	select {
	case err = <-done:
		assert.ErrorIs(t, err, errOverload)
	case <-time.After(3 * time.Second):
		t.Fatal("readers already submitted were left waiting on the barrier")
	}
	assert.False(t, fd.Released())
}

func TestRaceRound(t *testing.T) {
	fds, err := socket.Socketpair(unix.SOCK_STREAM)
	require.NoError(t, err)
	defer unix.Close(fds[1]) //nolint:errcheck
	fd, err := nbfd.New(fds[0])
	require.NoError(t, err)
	defer fd.Close() //nolint:errcheck

	_, err = unix.Write(fds[1], []byte{1})
	require.NoError(t, err)

	tl, err := raceRound(&limitedPool{accept: 3}, fd, 3, time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 1, tl.ok.Load())
	assert.EqualValues(t, 2, tl.wouldBlock.Load())
}
