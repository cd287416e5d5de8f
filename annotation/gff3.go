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
	"bufio"
	"bytes"
	"io"
	"net/url"
)

// Zero-based GFF columns.
const (
	strandColumn    = 6
	attributeColumn = 8
)

// gff3Normalizer rewrites GFF3 input into the GFF2 dialect read by featio/gff:
// "tag=value" attributes become `tag "value"`, directives are dropped and
// reading stops at an embedded FASTA section.  GFF2 and GTF lines pass
// through unchanged.  GFF3 strand "?" is read as unstranded.
type gff3Normalizer struct {
	r       *bufio.Reader
	pending []byte
	done    bool
}

func newGFF3Normalizer(r io.Reader) *gff3Normalizer {
	return &gff3Normalizer{r: bufio.NewReader(r)}
}

func (n *gff3Normalizer) Read(p []byte) (int, error) {
	for len(n.pending) == 0 {
		if n.done {
			return 0, io.EOF
		}
		line, err := n.r.ReadBytes('\n')
		if err == io.EOF {
			n.done = true
		} else if err != nil {
			return 0, err
		}
		if len(line) > 0 {
			n.pending = n.rewrite(line)
		}
	}
	c := copy(p, n.pending)
	n.pending = n.pending[c:]
	return c, nil
}

func (n *gff3Normalizer) rewrite(line []byte) []byte {
	trimmed := bytes.TrimSpace(line)
	switch {
	case bytes.HasPrefix(trimmed, []byte("##FASTA")), bytes.HasPrefix(trimmed, []byte(">")):
		n.done = true
		return nil
	case bytes.HasPrefix(trimmed, []byte("##")):
		return nil
	case len(trimmed) == 0 || trimmed[0] == '#':
		return line
	}

	fields := bytes.SplitN(trimmed, []byte{'\t'}, attributeColumn+2)
	if len(fields) <= attributeColumn || !isGFF3Attributes(fields[attributeColumn]) {
		return line
	}
	fields[attributeColumn] = gff2Attributes(fields[attributeColumn])
	if string(fields[strandColumn]) == "?" {
		fields[strandColumn] = []byte{'.'}
	}
	return append(bytes.Join(fields, []byte{'\t'}), '\n')
}

// isGFF3Attributes reports whether the first attribute of column is written
// as tag=value.
func isGFF3Attributes(column []byte) bool {
	first := column
	if i := bytes.IndexByte(first, ';'); i >= 0 {
		first = first[:i]
	}
	eq := bytes.IndexByte(first, '=')
	if eq < 0 {
		return false
	}
	space := bytes.IndexAny(first, " \t")
	return space < 0 || eq < space
}

func gff2Attributes(column []byte) []byte {
	var out []byte
	for _, attr := range bytes.Split(column, []byte{';'}) {
		attr = bytes.TrimSpace(attr)
		if len(attr) == 0 {
			continue
		}
		tag, value := attr, []byte(nil)
		if i := bytes.IndexByte(attr, '='); i >= 0 {
			tag, value = bytes.TrimSpace(attr[:i]), bytes.TrimSpace(attr[i+1:])
		}
		if len(tag) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, "; "...)
		}
		out = append(out, gffTag(string(tag))...)
		if value != nil {
			out = append(out, ` "`...)
			out = append(out, unescapeValue(value)...)
			out = append(out, '"')
		}
	}
	return out
}

// unescapeValue decodes GFF3 percent escapes unless the decoded value would
// break the rewritten attribute column.
func unescapeValue(value []byte) []byte {
	if bytes.IndexByte(value, '%') < 0 {
		return value
	}
	decoded, err := url.PathUnescape(string(value))
	if err != nil || bytes.ContainsAny([]byte(decoded), "\";\t\n") {
		return value
	}
	return []byte(decoded)
}

// gffTag maps tag onto the characters featio/gff accepts in tag names:
// letters and underscores.
func gffTag(tag string) string {
	b := []byte(tag)
	for i, c := range b {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_') {
			b[i] = '_'
		}
	}
	return string(b)
}
