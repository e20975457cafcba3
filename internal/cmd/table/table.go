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

package table

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/panjf2000/nbfd/pkg/errno"
)

// Command returns the table subcommand, which prints the errno to action table.
func Command() *cli.Command {
	return &cli.Command{
		Name:   "table",
		Usage:  "print how each result of a non-blocking call is handled",
		Action: show,
	}
}

func show(c *cli.Context) error {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONDITION\tOPERATIONS\tCLASS\tACTION\tMEANING")
	for _, row := range errno.Table() {
		ops := make([]string, len(row.Ops))
		for i, op := range row.Ops {
			ops[i] = op.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			row.Condition, strings.Join(ops, ","), row.Class, row.Action, row.Meaning)
	}
	return tw.Flush()
}
