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
	"fmt"

	"github.com/googlegenomics/regannot/annotation"
	"github.com/googlegenomics/regannot/genomics"
)

// fakeFeature is a feature whose top locus is a gene named locus.
type fakeFeature struct {
	locus, kind string
}

func (f fakeFeature) TopLocus() annotation.Feature {
	return fakeFeature{locus: f.locus, kind: "gene"}
}

func (f fakeFeature) FieldValue(key annotation.Key) string {
	switch key {
	case annotation.LocusName:
		return f.locus
	case annotation.FeatureType:
		return f.kind
	}
	return ""
}

func features(pairs ...string) []annotation.Feature {
	var out []annotation.Feature
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, fakeFeature{pairs[i], pairs[i+1]})
	}
	return out
}

// fakeIndex answers queries from a fixed table and records every call.
type fakeIndex struct {
	answers map[string][]annotation.Feature
	calls   []string
}

func rangeKey(chrom string, start, end uint32) string {
	return fmt.Sprintf("%s:%d-%d", chrom, start, end)
}

func (x *fakeIndex) QueryBest(chrom string, start, end uint32) []annotation.Feature {
	key := rangeKey(chrom, start, end)
	x.calls = append(x.calls, "best "+key)
	return x.answers[key]
}

func (x *fakeIndex) QueryBestStrand(chrom string, start, end uint32, strand genomics.Strand) []annotation.Feature {
	key := rangeKey(chrom, start, end)
	x.calls = append(x.calls, "strand"+strand.String()+" "+key)
	return x.answers[key]
}

// scenarioIndex answers the documented example regions.
func scenarioIndex() *fakeIndex {
	return &fakeIndex{answers: map[string][]annotation.Feature{
		"chr1:100-200": features("GENE1", "exon"),
		"chr1:200-300": features("GENE1", "exon", "GENE2", "utr"),
		"chr1:300-350": features("GENE1", "exon", "GENE1", "intron"),
	}}
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("disk full")
}
