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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	cause := errors.New("boom")
	testCases := []struct {
		name string
		err  error
		kind Kind
		want string
	}{
		{"argument", NewArgumentError(cause), ArgumentError, "ArgumentError: boom"},
		{"open", NewOpenError("in.tsv", cause), ResourceOpenError, "ResourceOpenError: in.tsv: boom"},
		{"malformed", NewMalformedRecordError("in.tsv", 7, cause), MalformedRecordError, "MalformedRecordError: in.tsv:7: boom"},
		{"write", NewWriteError("out.tsv", cause), ResourceWriteError, "ResourceWriteError: out.tsv: boom"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
			assert.Equal(t, tc.kind, KindOf(tc.err))
			assert.True(t, errors.Is(tc.err, cause))
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("running: %w", NewWriteError("out.tsv", errors.New("disk full")))
	assert.Equal(t, ResourceWriteError, KindOf(err))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, "Unknown", Unknown.String())
}
