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

package annotation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
	"github.com/googlegenomics/regannot/genomics"
)

// FeatureSpec describes a single feature added to a Builder.
type FeatureSpec struct {
	// ID uniquely identifies the feature.  Features without an ID cannot be
	// referenced as a parent.
	ID string
	// Parent is the ID of the containing feature, if any.
	Parent string
	// Name is reported as the locus name when the feature is a root.  It
	// defaults to ID.
	Name string
	// Type is the feature class (GFF column 3).
	Type string

	Chrom      string
	Strand     genomics.Strand
	Start, End uint32

	// Priority ranks overlapping features; lower values win.
	Priority int
}

type feature struct {
	FeatureSpec

	order  int
	parent *feature
	top    *feature
}

func (f *feature) TopLocus() Feature {
	return f.top
}

func (f *feature) FieldValue(key Key) string {
	switch key {
	case LocusName:
		return f.Name
	case FeatureType:
		return f.Type
	}
	return ""
}

// entry adapts a feature to interval.IntInterface.
type entry struct {
	*feature
}

func (e entry) ID() uintptr {
	return uintptr(e.order)
}

func (e entry) Range() interval.IntRange {
	return interval.IntRange{Start: int(e.Start), End: int(e.End)}
}

func (e entry) Overlap(b interval.IntRange) bool {
	return int(e.End) > b.Start && int(e.Start) < b.End
}

type span struct {
	start, end int
}

func (s span) Overlap(b interval.IntRange) bool {
	return b.End > s.start && b.Start < s.end
}

// Builder accumulates features and links them into a Forest.
type Builder struct {
	features []*feature
	byID     map[string]*feature
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byID: make(map[string]*feature)}
}

// Add appends a feature.  Parents may be added after their children.
func (b *Builder) Add(spec FeatureSpec) error {
	if spec.End < spec.Start {
		return fmt.Errorf("feature %q: start %d > end %d", spec.ID, spec.Start, spec.End)
	}
	if spec.Name == "" {
		spec.Name = spec.ID
	}
	f := &feature{FeatureSpec: spec, order: len(b.features)}
	if spec.ID != "" {
		if _, ok := b.byID[spec.ID]; ok {
			return fmt.Errorf("duplicate feature ID %q", spec.ID)
		}
		b.byID[spec.ID] = f
	}
	b.features = append(b.features, f)
	return nil
}

// Build links every feature to its parent and indexes the features by
// chromosome.  The Builder must not be used afterwards.
func (b *Builder) Build() (*Forest, error) {
	for _, f := range b.features {
		if f.Parent == "" {
			continue
		}
		parent, ok := b.byID[f.Parent]
		if !ok {
			return nil, fmt.Errorf("feature %q: unknown parent %q", f.ID, f.Parent)
		}
		f.parent = parent
	}

	for _, f := range b.features {
		top, depth := f, 0
		for top.parent != nil {
			if depth++; depth > len(b.features) {
				return nil, fmt.Errorf("feature %q: cyclic parent relationship", f.ID)
			}
			top = top.parent
		}
		f.top = top
	}

	forest := &Forest{
		features: b.features,
		trees:    make(map[string]*interval.IntTree),
	}
	for _, f := range b.features {
		if f.End == f.Start {
			continue
		}
		tree, ok := forest.trees[f.Chrom]
		if !ok {
			tree = &interval.IntTree{}
			forest.trees[f.Chrom] = tree
		}
		if err := tree.Insert(entry{f}, true); err != nil {
			return nil, fmt.Errorf("indexing feature %q: %v", f.ID, err)
		}
	}
	for _, tree := range forest.trees {
		tree.AdjustRanges()
	}
	return forest, nil
}

// Forest is an Index over a set of feature containment trees.  A Forest is
// safe for concurrent queries once built.
//
// A query collects every feature overlapping the range, discards features
// that contain another overlapping feature (the most specific feature wins),
// keeps those sharing the lowest priority value and returns them in the
// order they were added.
type Forest struct {
	features []*feature
	trees    map[string]*interval.IntTree
}

var errEmptyForest = errors.New("annotation contains no features")

// Len returns the number of features in the forest.
func (forest *Forest) Len() int {
	return len(forest.features)
}

// Chromosomes returns the sorted names of the indexed chromosomes.
func (forest *Forest) Chromosomes() []string {
	names := make([]string, 0, len(forest.trees))
	for name := range forest.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QueryBest implements Index.
func (forest *Forest) QueryBest(chrom string, start, end uint32) []Feature {
	return forest.query(chrom, start, end, func(*feature) bool { return true })
}

// QueryBestStrand implements Index.
func (forest *Forest) QueryBestStrand(chrom string, start, end uint32, strand genomics.Strand) []Feature {
	if strand == genomics.Unspecified {
		return forest.QueryBest(chrom, start, end)
	}
	return forest.query(chrom, start, end, func(f *feature) bool {
		return f.Strand == strand || f.Strand == genomics.Unspecified
	})
}

func (forest *Forest) query(chrom string, start, end uint32, keep func(*feature) bool) []Feature {
	tree, ok := forest.trees[chrom]
	if !ok {
		return nil
	}
	// A zero length range is treated as the single base at start.
	if end <= start {
		end = start + 1
	}

	var hits []*feature
	for _, e := range tree.Get(span{int(start), int(end)}) {
		if f := e.(entry).feature; keep(f) {
			hits = append(hits, f)
		}
	}
	if len(hits) == 0 {
		return nil
	}

	covered := make(map[*feature]bool)
	for _, f := range hits {
		for p := f.parent; p != nil && !covered[p]; p = p.parent {
			covered[p] = true
		}
	}

	best := hits[:0]
	for _, f := range hits {
		if covered[f] {
			continue
		}
		switch {
		case len(best) == 0 || f.Priority == best[0].Priority:
			best = append(best, f)
		case f.Priority < best[0].Priority:
			best = append(best[:0], f)
		}
	}
	sort.Slice(best, func(i, j int) bool { return best[i].order < best[j].order })

	result := make([]Feature, len(best))
	for i, f := range best {
		result[i] = f
	}
	return result
}
