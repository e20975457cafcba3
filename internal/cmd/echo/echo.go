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

package echo

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd"
	"github.com/panjf2000/nbfd/pkg/netpoll"
	"github.com/panjf2000/nbfd/pkg/pool/byteslice"
	"github.com/panjf2000/nbfd/pkg/readiness"
)

// Command returns the echo subcommand, a single netpoll event loop echoing back to its clients.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "echo",
		Usage: "serve echo clients from a single event loop that reads until EAGAIN",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen on `host:port`",
				Value: "127.0.0.1:0",
			},
			&cli.IntFlag{
				Name:  "clients",
				Usage: "number of `clients` to serve before exiting",
				Value: 4,
			},
		},
		Action: run,
	}
}

var errDone = errors.New("all clients served")

type eventloop struct {
	poller  *netpoll.Poller
	ln      *nbfd.FD
	conns   map[int]*nbfd.FD
	buffer  []byte
	want    int
	served  int
	eagains uint64
}

func run(c *cli.Context) error {
	// The loop owns the descriptors so that it can unregister them before closing.
	ln, addr, err := nbfd.Listen("tcp", c.String("addr"), nbfd.WithCloseOnRelease(false))
	if err != nil {
		return err
	}
	lfd := ln.Fd()
	defer unix.Close(lfd)

	poller, err := netpoll.OpenPoller()
	if err != nil {
		return err
	}
	defer poller.Close()
	if err = poller.AddRead(lfd); err != nil {
		return err
	}

	el := &eventloop{
		poller: poller,
		ln:     ln,
		conns:  make(map[int]*nbfd.FD),
		buffer: byteslice.Get(nbfd.DefaultReadChunk),
		want:   c.Int("clients"),
	}
	defer byteslice.Put(el.buffer)
	fmt.Fprintf(c.App.Writer, "echo server on %s\n", addr)

	var g errgroup.Group
	g.Go(func() error {
		err := el.dialAll(c, addr.String())
		if err != nil {
			_ = poller.Shutdown()
		}
		return err
	})
	g.Go(func() error {
		if err := poller.Polling(el.handle); err != errDone {
			return err
		}
		return nil
	})
	err = g.Wait()
	el.closeConns()
	fmt.Fprintf(c.App.Writer, "served %d connection(s), %d read(s) ended on EAGAIN\n", el.served, el.eagains)
	return err
}

func (el *eventloop) dialAll(c *cli.Context, addr string) error {
	for i := 1; i <= el.want; i++ {
		conn, err := nbfd.Dial("tcp", addr, time.Second)
		if err != nil {
			return err
		}
		msg := []byte(fmt.Sprintf("message #%d", i))
		if r := conn.WriteTimeout(msg, time.Second); r.Status != nbfd.OK {
			_ = conn.Close()
			return r.Err
		}
		buf := make([]byte, len(msg))
		got := 0
		for got < len(buf) {
			r := conn.ReadTimeout(buf[got:], time.Second)
			if r.Status != nbfd.OK {
				_ = conn.Close()
				return fmt.Errorf("client %d: %w", i, r.Err)
			}
			got += r.N
		}
		fmt.Fprintf(c.App.Writer, "client %d got %q back\n", i, buf)
		if err = conn.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (el *eventloop) handle(fd int, event netpoll.IOEvent, flags netpoll.IOFlags) error {
	if !netpoll.Ready(event, flags).Has(readiness.Readable) {
		return nil
	}
	if fd == el.ln.Fd() {
		return el.accept()
	}
	if c, ok := el.conns[fd]; ok {
		return el.read(c)
	}
	return nil
}

func (el *eventloop) accept() error {
	for {
		c, r := el.ln.Accept()
		switch r.Status {
		case nbfd.OK:
		case nbfd.WouldBlock:
			return nil
		default:
			return r.Err
		}
		if err := el.poller.AddRead(c.Fd()); err != nil {
			_ = unix.Close(c.Fd())
			return err
		}
		el.conns[c.Fd()] = c
	}
}

func (el *eventloop) read(c *nbfd.FD) error {
	fd := c.Fd()
	for {
		r := c.Read(el.buffer)
		switch r.Status {
		case nbfd.OK:
			if w := c.WriteTimeout(el.buffer[:r.N], time.Second); w.Status != nbfd.OK {
				return el.close(fd, c)
			}
			continue
		case nbfd.WouldBlock:
			el.eagains++
			return nil
		}
		// Closed or Fatal, c has been released but fd is still ours.
		return el.close(fd, c)
	}
}

func (el *eventloop) close(fd int, c *nbfd.FD) error {
	delete(el.conns, fd)
	_ = c.Close()
	err0, err1 := el.poller.Delete(fd), unix.Close(fd)
	if err0 != nil {
		return err0
	}
	if err1 != nil {
		return err1
	}
	if el.served++; el.served == el.want {
		return errDone
	}
	return nil
}

func (el *eventloop) closeConns() {
	for fd, c := range el.conns {
		_ = c.Close()
		_ = el.poller.Delete(fd)
		_ = unix.Close(fd)
	}
}
