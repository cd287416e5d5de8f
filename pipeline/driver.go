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

// Package pipeline annotates genomic regions with the best matching features
// of an annotation.Index, writes one annotated line per region and computes a
// weighted census of the matched feature types.
//
// Regions are resolved while they are read.  In the default two-pass mode all
// records are then kept in memory and written and counted in two further
// passes; the streaming mode writes and counts every record as soon as it is
// resolved and keeps nothing.  Both modes produce identical output.
package pipeline

import (
	"io"

	"github.com/googlegenomics/regannot/annotation"
)

// Driver runs the pipeline over a single region input.
type Driver struct {
	Index    annotation.Index
	Notifier Notifier

	// Stream selects the single pass mode.
	Stream bool

	ProgressInterval int
	SkipMalformed    bool
	OnSkip           func(err error)
}

// Result summarizes a completed run.
type Result struct {
	Census *Census
	Stats  LoadStats
}

// Run reads regions from in, writes the annotated lines to out and returns the
// census.  inName and outName identify in and out in errors.  Run does not
// flush or close anything beyond its own buffers.
func (d *Driver) Run(in io.Reader, inName string, out io.Writer, outName string) (*Result, error) {
	loader := &Loader{
		Resolver:         NewResolver(d.Index),
		Notifier:         d.Notifier,
		ProgressInterval: d.ProgressInterval,
		SkipMalformed:    d.SkipMalformed,
		OnSkip:           d.OnSkip,
	}
	serializer := NewSerializer(out, outName)
	census := NewCensus()

	var (
		stats LoadStats
		err   error
	)
	if d.Stream {
		stats, err = loader.Load(in, inName, func(record Record) error {
			census.Add(record)
			return serializer.Write(record)
		})
		if err != nil {
			return nil, err
		}
		d.notify("mapping obtained")
		if err := serializer.Flush(); err != nil {
			return nil, err
		}
		d.notify("regions written")
		return &Result{census, stats}, nil
	}

	var records []Record
	records, stats, err = loader.LoadAll(in, inName)
	if err != nil {
		return nil, err
	}
	d.notify("mapping obtained")

	if err := serializer.WriteAll(records); err != nil {
		return nil, err
	}
	if err := serializer.Flush(); err != nil {
		return nil, err
	}
	d.notify("regions written")

	census.AddAll(records)
	return &Result{census, stats}, nil
}

func (d *Driver) notify(message string) {
	if d.Notifier != nil {
		d.Notifier.Notify(message)
	}
}
