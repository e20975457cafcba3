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

// Package logging provides the logging facility of nbfd, it sets up a default
// logger (powered by go.uber.org/zap) which is used by every package of nbfd,
// and allows users to replace it with their own logger by implementing the
// Logger interface and passing it to nbfd.WithLogger.
//
// The environment variable `NBFD_LOGGING_LEVEL` determines which zap logger level will be applied for logging,
// it accepts either the integer value of zapcore.Level or its name ("debug", "info", "warn", "error").
// The environment variable `NBFD_LOGGING_FILE` is set to a local file path when you want to print logs into local file.
package logging

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Flusher is the callback function which flushes any buffered log entries to the underlying writer.
// It is usually called before the process exits.
type Flusher = func() error

var (
	mu                  sync.RWMutex
	defaultLogger       Logger
	defaultLoggingLevel Level
	defaultFlusher      Flusher
)

// Level is the alias of zapcore.Level.
type Level = zapcore.Level

// Levels understood by NBFD_LOGGING_LEVEL and the --loglvl flag.
const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

func init() {
	lvl, err := ParseLevel(os.Getenv("NBFD_LOGGING_LEVEL"))
	if err != nil {
		panic("invalid NBFD_LOGGING_LEVEL, " + err.Error())
	}
	defaultLoggingLevel = lvl

	fileName := os.Getenv("NBFD_LOGGING_FILE")
	if len(fileName) > 0 {
		defaultLogger, defaultFlusher, err = CreateLoggerAsLocalFile(fileName, defaultLoggingLevel)
		if err != nil {
			panic("invalid NBFD_LOGGING_FILE, " + err.Error())
		}
		return
	}
	defaultLogger, defaultFlusher = CreateConsoleLogger(defaultLoggingLevel)
}

// CreateConsoleLogger sets up a development logger printing to stdout.
func CreateConsoleLogger(logLevel Level) (Logger, Flusher) {
	return newLogger(getDevEncoder(), zapcore.Lock(os.Stdout), logLevel,
		zap.Development(), zap.ErrorOutput(zapcore.Lock(os.Stderr)))
}

func newLogger(enc zapcore.Encoder, ws zapcore.WriteSyncer, lvl zapcore.LevelEnabler, opts ...zap.Option) (Logger, Flusher) {
	opts = append(opts, zap.AddCaller(), zap.AddStacktrace(ErrorLevel))
	zl := zap.New(zapcore.NewCore(enc, ws, lvl), opts...)
	return zl.Sugar(), zl.Sync
}

// ParseLevel turns the value of NBFD_LOGGING_LEVEL into a Level,
// an empty string yields InfoLevel.
func ParseLevel(s string) (Level, error) {
	if len(s) == 0 {
		return InfoLevel, nil
	}
	if n, err := strconv.ParseInt(s, 10, 8); err == nil {
		return Level(n), nil
	}
	var lvl Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return InfoLevel, err
	}
	return lvl, nil
}

type prefixEncoder struct {
	zapcore.Encoder

	prefix  string
	bufPool buffer.Pool
}

func (e *prefixEncoder) Clone() zapcore.Encoder {
	return &prefixEncoder{Encoder: e.Encoder.Clone(), prefix: e.prefix, bufPool: e.bufPool}
}

func (e *prefixEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := e.bufPool.Get()

	buf.AppendString(e.prefix)
	buf.AppendString(" ")

	logEntry, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer logEntry.Free()

	_, err = buf.Write(logEntry.Bytes())
	if err != nil {
		return nil, err
	}

	return buf, nil
}

func newPrefixEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return &prefixEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
		prefix:  "[nbfd]",
		bufPool: buffer.NewPool(),
	}
}

func getDevEncoder() zapcore.Encoder {
	return newPrefixEncoder(zap.NewDevelopmentEncoderConfig())
}

func getProdEncoder() zapcore.Encoder {
	return newPrefixEncoder(zap.NewProductionEncoderConfig())
}

// GetDefaultLogger returns the default logger.
func GetDefaultLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// GetDefaultFlusher returns the default flusher.
func GetDefaultFlusher() Flusher {
	mu.RLock()
	defer mu.RUnlock()
	return defaultFlusher
}

// SetDefaultLoggerAndFlusher replaces the default logger and its flusher.
func SetDefaultLoggerAndFlusher(logger Logger, flusher Flusher) {
	mu.Lock()
	defaultLogger, defaultFlusher = logger, flusher
	mu.Unlock()
}

// LogLevel tells what the default logging level is.
func LogLevel() string {
	return defaultLoggingLevel.String()
}

// CreateLoggerAsLocalFile sets up a logger writing to a rotated file at localFilePath.
func CreateLoggerAsLocalFile(localFilePath string, logLevel Level) (Logger, Flusher, error) {
	if len(localFilePath) == 0 {
		return nil, nil, errors.New("invalid local logger path")
	}
	rotator := &lumberjack.Logger{
		Filename:   localFilePath,
		MaxSize:    100, // megabytes
		MaxBackups: 2,
		MaxAge:     15, // days
	}
	logger, flush := newLogger(getProdEncoder(), zapcore.AddSync(rotator), logLevel)
	return logger, flush, nil
}

// NewNop returns a Logger that discards everything, handy in tests.
func NewNop() Logger {
	return zap.NewNop().Sugar()
}

// Cleanup flushes the default logger.
func Cleanup() {
	if flush := GetDefaultFlusher(); flush != nil {
		_ = flush()
	}
}

// Error prints err if it's not nil.
func Error(err error) {
	if err != nil {
		GetDefaultLogger().Errorf("nbfd: %v", err)
	}
}

// Debugf logs messages at DEBUG level.
func Debugf(format string, args ...interface{}) {
	GetDefaultLogger().Debugf(format, args...)
}

// Infof logs messages at INFO level.
func Infof(format string, args ...interface{}) {
	GetDefaultLogger().Infof(format, args...)
}

// Warnf logs messages at WARN level.
func Warnf(format string, args ...interface{}) {
	GetDefaultLogger().Warnf(format, args...)
}

// Errorf logs messages at ERROR level.
func Errorf(format string, args ...interface{}) {
	GetDefaultLogger().Errorf(format, args...)
}

// Fatalf logs messages at FATAL level.
func Fatalf(format string, args ...interface{}) {
	GetDefaultLogger().Fatalf(format, args...)
}

// Logger is used for logging formatted messages.
type Logger interface {
	// Debugf logs messages at DEBUG level.
	Debugf(format string, args ...interface{})
	// Infof logs messages at INFO level.
	Infof(format string, args ...interface{})
	// Warnf logs messages at WARN level.
	Warnf(format string, args ...interface{})
	// Errorf logs messages at ERROR level.
	Errorf(format string, args ...interface{})
	// Fatalf logs messages at FATAL level.
	Fatalf(format string, args ...interface{})
}
