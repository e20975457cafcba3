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

/*
Package nbfd performs I/O on non-blocking descriptors and reports every outcome
as a classified Result instead of a raw (n, errno) pair.

A call on a non-blocking socket ends in one of four ways, and each one asks for
a different reaction from the caller:

	errno                 Status       descriptor
	none, n > 0           OK           kept
	EAGAIN/EWOULDBLOCK    WouldBlock   kept, wait for readiness and retry
	EINTR                 -            retried inside, never surfaced
	none, read returns 0  Closed       released
	anything else         Fatal        released

A bounded wait that expires yields Timeout, which keeps the descriptor open too.

Readiness reported by select(2) or poll(2) is a hint: when several readers share
a descriptor the first one drains it and the others get EAGAIN. ReadTimeout
handles this by waiting again with the time left.

	fd, err := nbfd.New(sysfd)
	if err != nil {
		return err
	}
	for {
		r := fd.ReadTimeout(buf, time.Second)
		switch r.Status {
		case nbfd.OK:
			handle(buf[:r.N])
		case nbfd.Timeout:
			continue
		default:
			return r.Err
		}
	}
*/
package nbfd
