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
	"github.com/googlegenomics/regannot/annotation"
	"github.com/googlegenomics/regannot/genomics"
)

// Resolver attaches the best matching features of an index to records.
type Resolver struct {
	index annotation.Index
}

// NewResolver returns a Resolver querying index.
func NewResolver(index annotation.Index) *Resolver {
	return &Resolver{index}
}

// Resolve sets record.Matches to the index's answer for the record's region:
// a strand-unspecific query for Unspecified regions and a strand restricted
// one otherwise.  An empty answer marks the record intergenic.
func (r *Resolver) Resolve(record *Record) {
	if record.Strand == genomics.Unspecified {
		record.Matches = r.index.QueryBest(record.Chrom, record.Start, record.End)
		return
	}
	record.Matches = r.index.QueryBestStrand(record.Chrom, record.Start, record.End, record.Strand)
}
