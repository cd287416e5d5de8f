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
	"testing"

	"github.com/googlegenomics/regannot/genomics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Record
	}{
		{
			"no extra fields",
			"chr1\t+\t100\t200",
			Record{Region: genomics.Region{Chrom: "chr1", Strand: genomics.Forward, Start: 100, End: 200}},
		},
		{
			"extra fields",
			"chr1\t.\t300\t400\tsampleA\t\tlast",
			Record{
				Region:      genomics.Region{Chrom: "chr1", Strand: genomics.Unspecified, Start: 300, End: 400},
				Passthrough: []string{"sampleA", "", "last"},
			},
		},
		{
			"reverse strand, maximum coordinate",
			"chrX\t-\t0\t4294967295",
			Record{Region: genomics.Region{Chrom: "chrX", Strand: genomics.Reverse, Start: 0, End: 4294967295}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRecord(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRecord_InvalidInputs(t *testing.T) {
	testCases := []struct{ name, input string }{
		{"two fields", "chr1\t+"},
		{"three fields", "chr1\t+\t100"},
		{"space separated", "chr1 + 100 200"},
		{"empty chromosome", "\t+\t100\t200"},
		{"unknown strand", "chr1\tplus\t100\t200"},
		{"negative start", "chr1\t+\t-1\t200"},
		{"non-numeric end", "chr1\t+\t100\tend"},
		{"coordinate overflow", "chr1\t+\t100\t4294967296"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got, err := ParseRecord(tc.input); err == nil {
				t.Errorf("Unexpected success: got %v, wanted error", got)
			}
		})
	}
}
