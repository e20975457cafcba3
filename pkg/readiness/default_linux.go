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

package readiness

import "time"

var defaultWaiter Waiter = fallbackWaiter{}

// Default returns select(2) for descriptors that fit in an FdSet and poll(2) for the rest.
func Default() Waiter {
	return defaultWaiter
}

type fallbackWaiter struct{}

func (fallbackWaiter) Wait(fd int, in Interest, timeout time.Duration) (Interest, error) {
	if fd >= 0 && fd < FDSetSize {
		return SelectWaiter{}.Wait(fd, in, timeout)
	}
	return PollWaiter{}.Wait(fd, in, timeout)
}
