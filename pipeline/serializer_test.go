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
	"bytes"
	"strings"
	"testing"

	"github.com/googlegenomics/regannot/genomics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLine(t *testing.T) {
	testCases := []struct {
		name   string
		record Record
		want   string
	}{
		{
			"no match",
			Record{
				Region:      genomics.Region{Chrom: "chr1", Strand: genomics.Unspecified, Start: 300, End: 400},
				Passthrough: []string{"sampleA"},
			},
			"chr1\t.\t300\t400\tnone,intergenic\tsampleA\n",
		},
		{
			"single match",
			Record{
				Region:  genomics.Region{Chrom: "chr1", Strand: genomics.Forward, Start: 100, End: 200},
				Matches: features("GENE1", "exon"),
			},
			"chr1\t+\t100\t200\tGENE1,exon\n",
		},
		{
			"two loci",
			Record{
				Region:  genomics.Region{Chrom: "chr1", Strand: genomics.Reverse, Start: 1, End: 2},
				Matches: features("GENE1", "exon", "GENE2", "utr"),
			},
			"chr1\t-\t1\t2\tGENE1,exon|GENE2,utr\n",
		},
		{
			"passthrough kept verbatim",
			Record{
				Region:      genomics.Region{Chrom: "chr2", Strand: genomics.Forward, Start: 5, End: 9},
				Passthrough: []string{"a b", "", "x,y|z"},
				Matches:     features("GENE3", "cds"),
			},
			"chr2\t+\t5\t9\tGENE3,cds\ta b\t\tx,y|z\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(AppendLine(nil, tc.record)))
		})
	}
}

func TestAppendAnnotation_ConsecutiveDedup(t *testing.T) {
	testCases := []struct {
		name    string
		matches []string
		want    string
	}{
		{"same locus", []string{"GENE1", "exon", "GENE1", "intron"}, "GENE1,exon"},
		{"run then new locus", []string{"GENE1", "exon", "GENE1", "intron", "GENE2", "utr"}, "GENE1,exon|GENE2,utr"},
		{"non-adjacent repeat kept", []string{"GENE1", "exon", "GENE2", "utr", "GENE1", "intron"}, "GENE1,exon|GENE2,utr|GENE1,intron"},
		{"long run", []string{"A", "x", "A", "y", "A", "z", "B", "x", "B", "y"}, "A,x|B,x"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(AppendAnnotation(nil, features(tc.matches...)))
			assert.Equal(t, tc.want, got)

			pairs := strings.Split(got, "|")
			for i := 1; i < len(pairs); i++ {
				previous := strings.SplitN(pairs[i-1], ",", 2)[0]
				current := strings.SplitN(pairs[i], ",", 2)[0]
				assert.NotEqual(t, previous, current, "adjacent pairs share a locus in %q", got)
			}
		})
	}
}

func TestAppendAnnotation_Intergenic(t *testing.T) {
	assert.Equal(t, "none,intergenic", string(AppendAnnotation(nil, nil)))
}

func TestSerializer_WriteAll(t *testing.T) {
	records := []Record{
		{Region: genomics.Region{Chrom: "chr1", Strand: genomics.Forward, Start: 1, End: 2}, Matches: features("G1", "exon")},
		{Region: genomics.Region{Chrom: "chr1", Strand: genomics.Unspecified, Start: 3, End: 4}},
		{Region: genomics.Region{Chrom: "chr2", Strand: genomics.Reverse, Start: 5, End: 6}, Matches: features("G2", "utr")},
	}

	var out bytes.Buffer
	s := NewSerializer(&out, "results.tsv")
	require.NoError(t, s.WriteAll(records))
	require.NoError(t, s.Flush())

	assert.Equal(t, ""+
		"chr1\t+\t1\t2\tG1,exon\n"+
		"chr1\t.\t3\t4\tnone,intergenic\n"+
		"chr2\t-\t5\t6\tG2,utr\n", out.String())
}

func TestSerializer_WriteError(t *testing.T) {
	s := NewSerializer(failingWriter{}, "results.tsv")
	require.NoError(t, s.Write(Record{Region: genomics.Region{Chrom: "chr1"}}))

	err := s.Flush()
	require.Error(t, err)
	assert.Equal(t, ResourceWriteError, KindOf(err))
	assert.Contains(t, err.Error(), "results.tsv")
}
