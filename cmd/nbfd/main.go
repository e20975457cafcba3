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

// Command nbfd demonstrates how EAGAIN, EWOULDBLOCK and EINTR surface on
// non-blocking descriptors and how each of them is handled.
package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/panjf2000/nbfd/internal/cmd/accept"
	"github.com/panjf2000/nbfd/internal/cmd/drain"
	"github.com/panjf2000/nbfd/internal/cmd/echo"
	"github.com/panjf2000/nbfd/internal/cmd/inspect"
	"github.com/panjf2000/nbfd/internal/cmd/race"
	"github.com/panjf2000/nbfd/internal/cmd/table"
	"github.com/panjf2000/nbfd/internal/cmd/tune"
	"github.com/panjf2000/nbfd/pkg/logging"
)

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "loglvl",
		Usage:   "set logging `level` to debug, info, warn or error",
		Value:   "info",
		EnvVars: []string{"NBFD_LOGGING_LEVEL"},
	},
	&cli.PathFlag{
		Name:        "logfile",
		Usage:       "write logs to `path` instead of stdout",
		DefaultText: "stdout",
		EnvVars:     []string{"NBFD_LOGGING_FILE"},
	},
}

var commands = []*cli.Command{
	table.Command(),
	inspect.Command(),
	drain.Command(),
	race.Command(),
	tune.Command(),
	accept.Command(),
	echo.Command(),
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "nbfd",
		Usage:     "classify EAGAIN, EWOULDBLOCK and EINTR on non-blocking descriptors",
		UsageText: "nbfd [global options] command [command options] [arguments...]",
		Flags:     flags,
		Commands:  commands,
		Before:    setupLogging,
		After: func(*cli.Context) error {
			logging.Cleanup()
			return nil
		},
	}
}

func setupLogging(c *cli.Context) error {
	lvl, err := logging.ParseLevel(c.String("loglvl"))
	if err != nil {
		return cli.Exit("invalid log level: "+err.Error(), 1)
	}
	if path := c.Path("logfile"); path != "" {
		logger, flush, err := logging.CreateLoggerAsLocalFile(path, lvl)
		if err != nil {
			return err
		}
		logging.SetDefaultLoggerAndFlusher(logger, flush)
		return nil
	}
	logging.SetDefaultLoggerAndFlusher(logging.CreateConsoleLogger(lvl))
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.Fatalf("%v", err)
	}
}
