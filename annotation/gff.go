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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/googlegenomics/regannot/genomics"
)

// Attributes names the GFF attribute tags that describe the containment
// hierarchy and ranking of features.  ID and Parent link GFF3 style records;
// GeneID, TranscriptID and GeneName link GTF records, which have neither.
type Attributes struct {
	ID       string `yaml:"id_attribute"`
	Parent   string `yaml:"parent_attribute"`
	Name     string `yaml:"name_attribute"`
	Priority string `yaml:"priority_attribute"`

	GeneID       string `yaml:"gene_id_attribute"`
	TranscriptID string `yaml:"transcript_id_attribute"`
	GeneName     string `yaml:"gene_name_attribute"`
}

// DefaultAttributes returns the conventional GFF3 and GTF tags.
func DefaultAttributes() Attributes {
	return Attributes{
		ID:           "ID",
		Parent:       "Parent",
		Name:         "Name",
		Priority:     "priority",
		GeneID:       "gene_id",
		TranscriptID: "transcript_id",
		GeneName:     "gene_name",
	}
}

// ReadGFF builds a Forest from the features read from r, which may hold GFF2,
// GTF or GFF3 records.
func ReadGFF(r io.Reader, attrs Attributes) (*Forest, error) {
	builder := NewBuilder()
	linker := newGTFLinker(attrs)

	sc := featio.NewScanner(gff.NewReader(newGFF3Normalizer(r)))
	for sc.Next() {
		f, ok := sc.Feat().(*gff.Feature)
		if !ok {
			continue
		}
		spec, err := specFromGFF(f, attrs)
		if err != nil {
			return nil, err
		}
		if spec.ID == "" && spec.Parent == "" {
			linker.link(&spec, f.FeatAttributes)
		}
		if err := builder.Add(spec); err != nil {
			return nil, err
		}
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("reading GFF: %v", err)
	}
	if len(builder.features) == 0 {
		return nil, errEmptyForest
	}
	if err := linker.addImplied(builder); err != nil {
		return nil, err
	}
	return builder.Build()
}

func specFromGFF(f *gff.Feature, attrs Attributes) (FeatureSpec, error) {
	if f.FeatStart < 0 || f.FeatEnd < f.FeatStart {
		return FeatureSpec{}, fmt.Errorf("%s feature on %s: invalid range [%d, %d)", f.Feature, f.SeqName, f.FeatStart, f.FeatEnd)
	}

	spec := FeatureSpec{
		ID:     attribute(f.FeatAttributes, attrs.ID),
		Name:   attribute(f.FeatAttributes, attrs.Name),
		Type:   f.Feature,
		Chrom:  f.SeqName,
		Strand: strandFromSeq(f.FeatStrand),
		Start:  uint32(f.FeatStart),
		End:    uint32(f.FeatEnd),
	}

	// GFF3 allows several comma separated parents; the first one is used.
	if parent := attribute(f.FeatAttributes, attrs.Parent); parent != "" {
		spec.Parent = strings.SplitN(parent, ",", 2)[0]
	}

	if value := attribute(f.FeatAttributes, attrs.Priority); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return FeatureSpec{}, fmt.Errorf("feature %q: parsing priority: %v", spec.ID, err)
		}
		spec.Priority = n
	}
	return spec, nil
}

// attribute returns the unquoted value of tag.  GFF3 tags are matched in the
// form they take after normalization.
func attribute(attrs gff.Attributes, tag string) string {
	if tag == "" {
		return ""
	}
	tag = gffTag(tag)
	for _, a := range attrs {
		if a.Tag == tag {
			return strings.Trim(strings.TrimSpace(a.Value), `"`)
		}
	}
	return ""
}

func strandFromSeq(s seq.Strand) genomics.Strand {
	switch s {
	case seq.Plus:
		return genomics.Forward
	case seq.Minus:
		return genomics.Reverse
	}
	return genomics.Unspecified
}
