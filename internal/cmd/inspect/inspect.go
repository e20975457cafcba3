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

package inspect

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panjf2000/nbfd/pkg/errno"
)

// Command returns the inspect subcommand, which explains errno values for a given call.
func Command() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "explain what an errno means after a call on a non-blocking descriptor",
		ArgsUsage: "<errno>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "op",
				Usage: "`call` that failed: read, recv, recvfrom, write, send, sendto, accept, connect...",
				Value: "read",
			},
		},
		Action: inspect,
	}
}

func inspect(c *cli.Context) error {
	op, ok := errno.ParseOp(c.String("op"))
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown operation %q", c.String("op")), 1)
	}
	if c.NArg() == 0 {
		return cli.Exit("missing errno, e.g. EAGAIN or 11", 1)
	}
	for _, arg := range c.Args().Slice() {
		e, ok := errno.Lookup(arg)
		if !ok {
			return cli.Exit(fmt.Sprintf("unknown errno %q", arg), 1)
		}
		r := errno.Inspect(op, e)
		fmt.Fprintln(c.App.Writer, r)
		fmt.Fprintf(c.App.Writer, "  %s\n", errno.Meaning(op, r.Class))
	}
	return nil
}
