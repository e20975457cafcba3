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

//go:build !darwin && !dragonfly && !freebsd && !linux

package netpoll

import (
	"time"

	"github.com/panjf2000/nbfd/pkg/errors"
	"github.com/panjf2000/nbfd/pkg/readiness"
)

// IOFlags represents the flags of IO events.
type IOFlags = uint16

// IOEvent is the integer type of I/O events.
type IOEvent = uint32

// Ready reports no condition on unsupported platforms.
func Ready(IOEvent, IOFlags) readiness.Interest { return 0 }

// Exceptional always reports false on unsupported platforms.
func Exceptional(IOEvent, IOFlags) bool { return false }

// Poller is not available on this platform.
type Poller struct{}

// OpenPoller returns errors.ErrUnsupportedOp on this platform.
func OpenPoller() (*Poller, error) { return nil, errors.ErrUnsupportedOp }

func (*Poller) Close() error { return errors.ErrUnsupportedOp }
func (*Poller) Wakeup() error { return errors.ErrUnsupportedOp }
func (*Poller) Shutdown() error { return errors.ErrUnsupportedOp }
func (*Poller) Polling(Callback) error { return errors.ErrUnsupportedOp }
func (*Poller) AddReadWrite(int) error { return errors.ErrUnsupportedOp }
func (*Poller) AddRead(int) error { return errors.ErrUnsupportedOp }
func (*Poller) AddWrite(int) error { return errors.ErrUnsupportedOp }
func (*Poller) ModRead(int) error { return errors.ErrUnsupportedOp }
func (*Poller) ModReadWrite(int) error { return errors.ErrUnsupportedOp }
func (*Poller) Delete(int) error { return errors.ErrUnsupportedOp }
func (*Poller) Wait(time.Duration, Callback) (int, error) { return 0, errors.ErrUnsupportedOp }
