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

package drain

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd"
	"github.com/panjf2000/nbfd/pkg/logging"
	"github.com/panjf2000/nbfd/pkg/socket"
)

// Command returns the drain subcommand, reading a socketpair until EAGAIN and then until the peer closes.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "drain",
		Usage: "fill a socketpair, drain it to EAGAIN, then observe end of stream",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "size",
				Usage: "total `bytes` to push through the pair",
				Value: 1 << 20,
			},
			&cli.IntFlag{
				Name:  "chunk",
				Usage: "`bytes` requested by each read",
				Value: nbfd.DefaultReadChunk,
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	fds, err := socket.Socketpair(unix.SOCK_STREAM)
	if err != nil {
		return err
	}
	logger := logging.GetDefaultLogger()
	reader, err := nbfd.New(fds[0],
		nbfd.WithReadChunk(c.Int("chunk")),
		nbfd.WithInspector(nbfd.LogInspector(logger)))
	if err != nil {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
		return err
	}
	defer reader.Close()
	writer, err := nbfd.New(fds[1])
	if err != nil {
		_ = unix.Close(fds[1])
		return err
	}
	defer writer.Close()

	w := c.App.Writer
	payload := make([]byte, c.Int("size"))
	sent, drained := 0, 0
	for round := 1; sent < len(payload); round++ {
		// Push until the kernel buffers are full.
		var r nbfd.Result
		for sent < len(payload) {
			if r = writer.Write(payload[sent:]); r.Status != nbfd.OK {
				break
			}
			sent += r.N
		}
		if r.Terminal() {
			return r.Err
		}
		fmt.Fprintf(w, "round %d: wrote %d bytes, last write: %s\n", round, sent, r.Status)

		r, err = reader.Drain(io.Discard)
		if err != nil {
			return err
		}
		drained += r.N
		fmt.Fprintf(w, "round %d: drained %d bytes, stopped on %s\n", round, r.N, r.Status)
		if r.Terminal() {
			return r.Err
		}
	}

	if err = writer.Close(); err != nil {
		return err
	}
	r, err := reader.Drain(io.Discard)
	if err != nil {
		return err
	}
	drained += r.N
	fmt.Fprintf(w, "peer closed: drained %d bytes, stopped on %s, released=%t\n", r.N, r.Status, reader.Released())

	st := reader.Stats()
	fmt.Fprintf(w, "total: %d bytes in %d reads, %d EAGAIN, %d EINTR\n",
		drained, st.Reads, st.WouldBlocks, st.Interrupts)
	return nil
}
