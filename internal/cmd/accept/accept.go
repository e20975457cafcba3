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

package accept

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/panjf2000/nbfd"
	"github.com/panjf2000/nbfd/pkg/logging"
	"github.com/panjf2000/nbfd/pkg/socket"
)

// Command returns the accept subcommand, a non-blocking accept loop fed by a dialer.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "accept",
		Usage: "run a non-blocking accept loop, EAGAIN means no pending connection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen on `host:port`",
				Value: "127.0.0.1:0",
			},
			&cli.IntFlag{
				Name:  "clients",
				Usage: "number of `clients` dialing in",
				Value: 3,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "bounded wait for a pending connection",
				Value: 50 * time.Millisecond,
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "delay between two clients",
				Value: 120 * time.Millisecond,
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	ln, addr, err := nbfd.Listen("tcp", c.String("addr"))
	if err != nil {
		return err
	}
	defer ln.Close()
	fmt.Fprintf(c.App.Writer, "listening on %s\n", addr)

	clients := c.Int("clients")
	timeout, interval := c.Duration("timeout"), c.Duration("interval")

	g, ctx := errgroup.WithContext(c.Context)
	g.Go(func() error {
		for i := 0; i < clients; i++ {
			time.Sleep(interval)
			conn, err := nbfd.Dial("tcp", addr.String(), time.Second)
			if err != nil {
				return err
			}
			r := conn.WriteTimeout([]byte(fmt.Sprintf("hello from client %d", i+1)), time.Second)
			_ = conn.Close()
			if r.Status != nbfd.OK {
				return r.Err
			}
		}
		return nil
	})
	g.Go(func() error {
		buf := make([]byte, 64)
		for accepted := 0; accepted < clients; {
			conn, r := ln.Accept()
			switch r.Status {
			case nbfd.OK:
			case nbfd.WouldBlock:
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if r = ln.WaitReadable(timeout); r.Status == nbfd.Timeout {
					fmt.Fprintf(c.App.Writer, "accept: %s, no pending connection after %s\n", nbfd.WouldBlock, timeout)
					continue
				}
				if r.Terminal() {
					return r.Err
				}
				continue
			default:
				return r.Err
			}
			accepted++
			logging.Debugf("accepted %s on fd %d", socket.SockaddrToTCPOrUnixAddr(r.From), conn.Fd())
			r = conn.ReadTimeout(buf, time.Second)
			fmt.Fprintf(c.App.Writer, "accepted connection %d: %q (%s)\n", accepted, buf[:r.N], r.Status)
			_ = conn.Close()
		}
		return nil
	})
	return g.Wait()
}
