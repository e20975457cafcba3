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

// Package goroutine provides the worker pool (powered by github.com/panjf2000/ants)
// used to run several readers against the same descriptor at once.
package goroutine

import (
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/panjf2000/nbfd/pkg/logging"
)

// expiry is how long an idle worker lives before ants reclaims it.
const expiry = 10 * time.Second

// Pool is the alias of ants.Pool.
type Pool = ants.Pool

// New instantiates a *Pool with the given capacity, a blocking pool makes
// Submit wait for an idle worker instead of failing with ants.ErrPoolOverload.
func New(size int, nonblocking bool) (*Pool, error) {
	options := ants.Options{
		ExpiryDuration: expiry,
		Nonblocking:    nonblocking,
		Logger:         antsLogger{},
		PanicHandler: func(v interface{}) {
			logging.Errorf("reader panicked: %v", v)
		},
	}
	return ants.NewPool(size, ants.WithOptions(options))
}

// antsLogger routes the pool's own diagnostics to the debug level.
type antsLogger struct{}

func (antsLogger) Printf(format string, args ...interface{}) {
	logging.Debugf(format, args...)
}
