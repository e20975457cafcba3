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

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, lvl)

	lvl, err = ParseLevel("-1")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, lvl)

	lvl, err = ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestCreateLoggerAsLocalFile(t *testing.T) {
	_, _, err := CreateLoggerAsLocalFile("", InfoLevel)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "nbfd.log")
	logger, flush, err := CreateLoggerAsLocalFile(path, WarnLevel)
	require.NoError(t, err)

	logger.Infof("dropped %d", 1)
	logger.Warnf("fd=%d released", 7)
	_ = flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "[nbfd] "))
	assert.Contains(t, lines[0], "fd=7 released")
}

func TestSetDefaultLoggerAndFlusher(t *testing.T) {
	oldLogger, oldFlusher := GetDefaultLogger(), GetDefaultFlusher()
	defer SetDefaultLoggerAndFlusher(oldLogger, oldFlusher)

	core, logs := observer.New(DebugLevel)
	flushed := false
	SetDefaultLoggerAndFlusher(zap.New(core).Sugar(), func() error {
		flushed = true
		return nil
	})

	Debugf("debug %s", "a")
	Warnf("warn %s", "b")
	Error(nil)
	Error(os.ErrClosed)
	Cleanup()

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "debug a", entries[0].Message)
	assert.Equal(t, WarnLevel, entries[1].Level)
	assert.Contains(t, entries[2].Message, os.ErrClosed.Error())
	assert.True(t, flushed)
}
