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

import "github.com/biogo/biogo/io/featio/gff"

const (
	genePrefix       = "gene:"
	transcriptPrefix = "transcript:"
)

// gtfLinker derives the gene > transcript > feature hierarchy of GTF records
// from their gene and transcript IDs.  Genes and transcripts that have no
// record of their own are implied, spanning their features.
type gtfLinker struct {
	attrs    Attributes
	explicit map[string]bool
	implied  map[string]*FeatureSpec
	order    []string
}

func newGTFLinker(attrs Attributes) *gtfLinker {
	return &gtfLinker{
		attrs:    attrs,
		explicit: make(map[string]bool),
		implied:  make(map[string]*FeatureSpec),
	}
}

// link sets the ID, Parent and Name of spec from its GTF attributes.  Records
// without a gene ID are left alone.
func (l *gtfLinker) link(spec *FeatureSpec, attrs gff.Attributes) {
	geneID := attribute(attrs, l.attrs.GeneID)
	if geneID == "" {
		return
	}
	gene := genePrefix + geneID
	geneName := attribute(attrs, l.attrs.GeneName)
	if geneName == "" {
		geneName = geneID
	}
	transcriptID := attribute(attrs, l.attrs.TranscriptID)

	switch {
	case spec.Type == "gene":
		spec.ID = gene
		if spec.Name == "" {
			spec.Name = geneName
		}
		l.explicit[gene] = true
	case spec.Type == "transcript" && transcriptID != "":
		spec.ID, spec.Parent = transcriptPrefix+transcriptID, gene
		if spec.Name == "" {
			spec.Name = transcriptID
		}
		l.explicit[spec.ID] = true
		l.imply(gene, "gene", geneName, "", spec)
	default:
		spec.Parent = gene
		if transcriptID != "" {
			spec.Parent = transcriptPrefix + transcriptID
			l.imply(spec.Parent, "transcript", transcriptID, gene, spec)
		}
		l.imply(gene, "gene", geneName, "", spec)
	}
}

func (l *gtfLinker) imply(id, kind, name, parent string, child *FeatureSpec) {
	if f, ok := l.implied[id]; ok {
		if child.Start < f.Start {
			f.Start = child.Start
		}
		if child.End > f.End {
			f.End = child.End
		}
		return
	}
	l.implied[id] = &FeatureSpec{
		ID:     id,
		Parent: parent,
		Name:   name,
		Type:   kind,
		Chrom:  child.Chrom,
		Strand: child.Strand,
		Start:  child.Start,
		End:    child.End,
	}
	l.order = append(l.order, id)
}

// addImplied adds the genes and transcripts that were referenced but never
// defined, in the order they were first referenced.
func (l *gtfLinker) addImplied(b *Builder) error {
	for _, id := range l.order {
		if l.explicit[id] {
			continue
		}
		if err := b.Add(*l.implied[id]); err != nil {
			return err
		}
	}
	return nil
}
