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

// Package annotation defines the query contract of a hierarchical feature
// index (gene, transcript, exon, ...) and provides an implementation built
// from GFF/GTF annotation files.
//
// Consumers only depend on Index and Feature.  Features are owned by the index
// that returned them and must be treated as read-only.
package annotation

import "github.com/googlegenomics/regannot/genomics"

// Key names a semantic field of a Feature.
type Key string

const (
	// LocusName is the human readable name of a feature, e.g. a gene symbol.
	LocusName Key = "locusName"
	// FeatureType is the feature class, e.g. "exon" or "three_prime_UTR".
	FeatureType Key = "featureType"
)

// Feature is a handle to an entry of an Index.
type Feature interface {
	// TopLocus returns the root ancestor of the feature's containment
	// hierarchy.  A root feature is its own top locus.
	TopLocus() Feature
	// FieldValue returns the value of key, or "" if the feature has none.
	FieldValue(key Key) string
}

// Index answers best-overlap queries.  Both queries return the matches in the
// priority order resolved by the index; an empty result (including for an
// unknown chromosome) means that nothing overlaps the range.
type Index interface {
	// QueryBest returns the best features overlapping [start, end) on chrom
	// regardless of strand.
	QueryBest(chrom string, start, end uint32) []Feature
	// QueryBestStrand is like QueryBest but only considers features on strand
	// (or features without a strand).
	QueryBestStrand(chrom string, start, end uint32, strand genomics.Strand) []Feature
}
