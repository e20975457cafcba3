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
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/atomic"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd"
	"github.com/panjf2000/nbfd/pkg/pool/goroutine"
	"github.com/panjf2000/nbfd/pkg/socket"
)

// Command returns the race subcommand, several readers sharing one readiness signal.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "race",
		Usage: "let several readers share one readiness signal and watch all but one get EAGAIN",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "readers",
				Aliases: []string{"n"},
				Usage:   "number of concurrent `readers`",
				Value:   4,
			},
			&cli.IntFlag{
				Name:  "rounds",
				Usage: "number of single-byte `rounds`",
				Value: 8,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "how long each reader waits for readiness",
				Value: time.Second,
			},
		},
		Action: run,
	}
}

type tally struct {
	ok, wouldBlock, other atomic.Int64
}

type submitter interface {
	Submit(task func()) error
}

// raceRound lets n readers wait for the same readable descriptor and then
// read from it at once. When a reader cannot be submitted the barrier is
// released for the ones already running before the error is returned.
func raceRound(pool submitter, fd *nbfd.FD, n int, timeout time.Duration) (*tally, error) {
	var (
		t              tally
		woken, settled sync.WaitGroup
	)
	woken.Add(n)
	settled.Add(n)
	for i := 0; i < n; i++ {
		err := pool.Submit(func() {
			defer settled.Done()
			r := fd.WaitReadable(timeout)
			// Nobody reads before every reader has been told the descriptor is readable.
			woken.Done()
			woken.Wait()
			if r.Status == nbfd.OK {
				r = fd.Read(make([]byte, 1))
			}
			switch r.Status {
			case nbfd.OK:
				t.ok.Inc()
			case nbfd.WouldBlock:
				t.wouldBlock.Inc()
			default:
				t.other.Inc()
			}
		})
		if err != nil {
			for ; i < n; i++ {
				woken.Done()
				settled.Done()
			}
			settled.Wait()
			return nil, err
		}
	}
	settled.Wait()
	return &t, nil
}

func run(c *cli.Context) error {
	n := c.Int("readers")
	if n < 2 {
		return cli.Exit("at least two readers are needed for a race", 1)
	}
	fds, err := socket.Socketpair(unix.SOCK_STREAM)
	if err != nil {
		return err
	}
	defer unix.Close(fds[1])
	fd, err := nbfd.New(fds[0])
	if err != nil {
		_ = unix.Close(fds[0])
		return err
	}
	defer fd.Close()

	pool, err := goroutine.New(n, false)
	if err != nil {
		return err
	}
	defer pool.Release()

	timeout := c.Duration("timeout")
	var total tally
	for round := 1; round <= c.Int("rounds"); round++ {
		if _, err = unix.Write(fds[1], []byte{byte(round)}); err != nil {
			return err
		}
		t, err := raceRound(pool, fd, n, timeout)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "round %d: %d reader(s) got the byte, %d got EAGAIN after readiness, %d other\n",
			round, t.ok.Load(), t.wouldBlock.Load(), t.other.Load())
		total.ok.Add(t.ok.Load())
		total.wouldBlock.Add(t.wouldBlock.Load())
		total.other.Add(t.other.Load())
	}
	fmt.Fprintf(c.App.Writer, "total: %d ok, %d would-block, %d other, descriptor released=%t\n",
		total.ok.Load(), total.wouldBlock.Load(), total.other.Load(), fd.Released())
	return nil
}
