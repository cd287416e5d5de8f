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
	"sort"
	"strconv"

	"github.com/googlegenomics/regannot/annotation"
)

// Intergenic is the census key of records without matches.
const Intergenic = "intergenic"

// Census accumulates feature type weights.  Every record adds a total weight
// of exactly one: all of it to Intergenic when it has no match, otherwise
// 1/k to the feature type of each of its k matches.  Unlike the serialized
// annotation column, matches sharing a locus are all counted.
type Census struct {
	weights map[string]float64
	records int
}

// NewCensus returns an empty Census.
func NewCensus() *Census {
	return &Census{weights: make(map[string]float64)}
}

// Add folds record into the census.
func (c *Census) Add(record Record) {
	c.records++
	if len(record.Matches) == 0 {
		c.weights[Intergenic]++
		return
	}
	weight := 1 / float64(len(record.Matches))
	for _, match := range record.Matches {
		c.weights[match.FieldValue(annotation.FeatureType)] += weight
	}
}

// AddAll folds every record into the census.
func (c *Census) AddAll(records []Record) {
	for _, record := range records {
		c.Add(record)
	}
}

// Records returns the number of records added.
func (c *Census) Records() int {
	return c.records
}

// Weight returns the accumulated weight of key.
func (c *Census) Weight(key string) float64 {
	return c.weights[key]
}

// Keys returns the feature types seen so far in lexical order.
func (c *Census) Keys() []string {
	keys := make([]string, 0, len(c.weights))
	for key := range c.weights {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the sum of all weights, which equals Records up to rounding.
func (c *Census) Total() float64 {
	var total float64
	for _, key := range c.Keys() {
		total += c.weights[key]
	}
	return total
}

// WriteReport writes the "feature<TAB>counts" table, one row per key in
// lexical order.
func (c *Census) WriteReport(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("feature\tcounts\n")
	for _, key := range c.Keys() {
		bw.WriteString(key)
		bw.WriteByte('\t')
		bw.WriteString(strconv.FormatFloat(c.weights[key], 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
