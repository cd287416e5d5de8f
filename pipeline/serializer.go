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
	"io"
	"strconv"

	"github.com/googlegenomics/regannot/annotation"
)

// IntergenicMarker is the annotation column of a record without matches.
const IntergenicMarker = "none,intergenic"

// Serializer writes one tab separated line per record:
//
//	chrom  strand  start  end  annotation  [extra...]
type Serializer struct {
	w        *bufio.Writer
	location string
	buffer   []byte
}

// NewSerializer returns a Serializer writing to w; location names w in
// errors.  Flush must be called once all records are written.
func NewSerializer(w io.Writer, location string) *Serializer {
	return &Serializer{w: bufio.NewWriterSize(w, 1<<20), location: location}
}

// Write appends the line for record.
func (s *Serializer) Write(record Record) error {
	s.buffer = AppendLine(s.buffer[:0], record)
	if _, err := s.w.Write(s.buffer); err != nil {
		return NewWriteError(s.location, err)
	}
	return nil
}

// WriteAll writes records in order.
func (s *Serializer) WriteAll(records []Record) error {
	for _, record := range records {
		if err := s.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (s *Serializer) Flush() error {
	if err := s.w.Flush(); err != nil {
		return NewWriteError(s.location, err)
	}
	return nil
}

// AppendLine appends the newline terminated output line of record to dst.
func AppendLine(dst []byte, record Record) []byte {
	dst = append(dst, record.Chrom...)
	dst = append(dst, '\t')
	dst = append(dst, record.Strand.String()...)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(record.Start), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, uint64(record.End), 10)
	dst = append(dst, '\t')
	dst = AppendAnnotation(dst, record.Matches)
	for _, field := range record.Passthrough {
		dst = append(dst, '\t')
		dst = append(dst, field...)
	}
	return append(dst, '\n')
}

// AppendAnnotation appends the annotation column for matches to dst: a '|'
// separated list of "locusName,featureType" pairs, where a match is left out
// if its top locus has the same name as the one of the match right before
// it.  Only consecutive repeats are collapsed.
func AppendAnnotation(dst []byte, matches []annotation.Feature) []byte {
	if len(matches) == 0 {
		return append(dst, IntergenicMarker...)
	}

	previous := ""
	for i, match := range matches {
		locus := match.TopLocus().FieldValue(annotation.LocusName)
		if i > 0 {
			if locus == previous {
				continue
			}
			dst = append(dst, '|')
		}
		dst = append(dst, locus...)
		dst = append(dst, ',')
		dst = append(dst, match.FieldValue(annotation.FeatureType)...)
		previous = locus
	}
	return dst
}
