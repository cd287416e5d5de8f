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

// Package genomics contains definitions related to Genomic data.
package genomics

import "fmt"

// Strand identifies the DNA strand a region is queried on.
type Strand int8

const (
	// Unspecified matches features on either strand.
	Unspecified Strand = iota
	// Forward is the '+' strand.
	Forward
	// Reverse is the '-' strand.
	Reverse
)

// ParseStrand parses the single character strand notation used by BED-like
// files: "+", "-" or "." for a strand-unspecific region.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	case ".":
		return Unspecified, nil
	}
	return Unspecified, fmt.Errorf("invalid strand %q", s)
}

// String returns the notation accepted by ParseStrand.
func (s Strand) String() string {
	switch s {
	case Forward:
		return "+"
	case Reverse:
		return "-"
	}
	return "."
}

// Region defines a region of genomic interest.
type Region struct {
	// Chrom names the reference sequence the region lies on.
	Chrom string
	// Strand selects which features may match the region.
	Strand Strand
	// Start and End specify the zero-based, half-open range (in base pairs)
	// relative to the reference.  Start <= End is expected but not enforced.
	Start, End uint32
}

func (region Region) String() string {
	return fmt.Sprintf("[chrom:%s, strand:%s, start:%d, end:%d]", region.Chrom, region.Strand, region.Start, region.End)
}
