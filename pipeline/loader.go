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

package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineLength = 16 * 1024 * 1024

// Notifier receives progress and stage messages.
type Notifier interface {
	Notify(message string)
}

// Loader reads region lines, resolves each record as soon as it is parsed and
// hands it to a visitor in input order.
type Loader struct {
	Resolver *Resolver
	Notifier Notifier

	// ProgressInterval is the number of accepted records between two progress
	// notifications.
	ProgressInterval int

	// SkipMalformed turns malformed lines from a fatal error into a skipped
	// line.  OnSkip, if set, is called with the error of every skipped line.
	SkipMalformed bool
	OnSkip        func(err error)
}

// LoadStats counts the lines handled by Load.
type LoadStats struct {
	Accepted int
	Skipped  int
}

// Load reads r (named location in errors) to the end, calling visit for every
// accepted record.  It stops at the first error returned by visit.
func (l *Loader) Load(r io.Reader, location string, visit func(Record) error) (LoadStats, error) {
	var stats LoadStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for line := 1; scanner.Scan(); line++ {
		// Surrounding whitespace, including tabs, is not part of a record, so
		// trailing empty extra fields are dropped.
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		record, err := ParseRecord(text)
		if err != nil {
			err = NewMalformedRecordError(location, line, err)
			if !l.SkipMalformed {
				return stats, err
			}
			stats.Skipped++
			if l.OnSkip != nil {
				l.OnSkip(err)
			}
			continue
		}

		l.Resolver.Resolve(&record)
		if err := visit(record); err != nil {
			return stats, err
		}

		stats.Accepted++
		if l.ProgressInterval > 0 && stats.Accepted%l.ProgressInterval == 0 {
			l.notifyProgress(stats)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, NewOpenError(location, fmt.Errorf("reading regions: %v", err))
	}
	l.notifyProgress(stats)
	return stats, nil
}

// LoadAll reads every record of r into memory, preserving input order.
func (l *Loader) LoadAll(r io.Reader, location string) ([]Record, LoadStats, error) {
	var records []Record
	stats, err := l.Load(r, location, func(record Record) error {
		records = append(records, record)
		return nil
	})
	return records, stats, err
}

func (l *Loader) notifyProgress(stats LoadStats) {
	if l.Notifier != nil {
		l.Notifier.Notify(fmt.Sprintf("Processed %d regions that were not skipped", stats.Accepted))
	}
}
