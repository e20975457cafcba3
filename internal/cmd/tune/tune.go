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

package tune

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/sys/unix"

	"github.com/panjf2000/nbfd"
	"github.com/panjf2000/nbfd/pkg/socket"
)

// Command returns the tune subcommand, which sets socket buffer sizes and reads them back.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "tune",
		Usage: "set the socket buffer sizes and read back what the kernel applied",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "rcvbuf",
				Usage: "requested receive buffer in `bytes`",
				Value: 64 * 1024,
			},
			&cli.IntFlag{
				Name:  "sndbuf",
				Usage: "requested send buffer in `bytes`",
				Value: 64 * 1024,
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
	defer unix.Close(fds[1])

	fd, err := nbfd.New(fds[0],
		nbfd.WithSocketRecvBuffer(c.Int("rcvbuf")),
		nbfd.WithSocketSendBuffer(c.Int("sndbuf")))
	if err != nil {
		_ = unix.Close(fds[0])
		return err
	}
	defer fd.Close()

	rcv, err := socket.GetRecvBuffer(fd.Fd())
	if err != nil {
		return err
	}
	snd, err := socket.GetSendBuffer(fd.Fd())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "SO_RCVBUF requested %d, effective %d\n", c.Int("rcvbuf"), rcv)
	fmt.Fprintf(c.App.Writer, "SO_SNDBUF requested %d, effective %d\n", c.Int("sndbuf"), snd)
	return nil
}
