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

//go:build netbsd || openbsd

package socket

import "github.com/panjf2000/nbfd/pkg/errors"

// SetKeepAlivePeriod returns errors.ErrUnsupportedOp, keep-alive timing is a
// system-wide setting on OpenBSD and NetBSD.
func SetKeepAlivePeriod(_, _ int) error {
	return errors.ErrUnsupportedOp
}
