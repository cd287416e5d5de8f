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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/googlegenomics/regannot/annotation"
	"github.com/googlegenomics/regannot/genomics"
)

// mandatoryFields is the number of leading columns of a region line.
const mandatoryFields = 4

// Record is a region read from the input together with its extra columns and,
// once resolved, its best matching features.  Matches must not be modified
// after resolution.
type Record struct {
	genomics.Region
	Passthrough []string
	Matches     []annotation.Feature
}

// ParseRecord parses a tab separated region line:
//
//	chrom  strand  start  end  [extra...]
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < mandatoryFields {
		return Record{}, fmt.Errorf("found %d fields, want at least %d", len(fields), mandatoryFields)
	}
	if fields[0] == "" {
		return Record{}, errors.New("empty chromosome")
	}

	strand, err := genomics.ParseStrand(fields[1])
	if err != nil {
		return Record{}, err
	}
	start, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("parsing start: %v", err)
	}
	end, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("parsing end: %v", err)
	}

	record := Record{
		Region: genomics.Region{
			Chrom:  fields[0],
			Strand: strand,
			Start:  uint32(start),
			End:    uint32(end),
		},
	}
	if len(fields) > mandatoryFields {
		record.Passthrough = fields[mandatoryFields:]
	}
	return record, nil
}
