// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package notify reports pipeline milestones through a structured logger.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a production logger writing console encoded entries to
// stderr at the named level ("debug", "info", "warn" or "error").  An empty
// level means "info".
func NewLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	if level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("parsing log level: %v", err)
		}
		config.Level = zap.NewAtomicLevelAt(l)
	}
	return config.Build()
}

// Notifier timestamps milestone messages of a single run.  Each run gets a
// fresh random ID so that interleaved logs can be told apart.
type Notifier struct {
	logger *zap.Logger
	start  time.Time
	now    func() time.Time
}

// New returns a Notifier that logs to logger, measuring elapsed time from now.
func New(logger *zap.Logger) *Notifier {
	return &Notifier{
		logger: logger.With(zap.String("run", uuid.New().String())),
		start:  time.Now(),
		now:    time.Now,
	}
}

// Notify logs message together with the time elapsed since the Notifier was
// created.
func (n *Notifier) Notify(message string) {
	n.logger.Info(message, zap.Duration("elapsed", n.now().Sub(n.start)))
}

// Warn logs a recoverable problem.
func (n *Notifier) Warn(message string, err error) {
	n.logger.Warn(message, zap.Error(err))
}

// Logger returns the run scoped logger.
func (n *Notifier) Logger() *zap.Logger {
	return n.logger
}

// Close flushes buffered log entries.
func (n *Notifier) Close() error {
	return n.logger.Sync()
}
