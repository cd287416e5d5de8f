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

package bgzf

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBlock_BlockSizes(t *testing.T) {
	if _, err := EncodeBlock(make([]byte, MaximumBlockSize+1)); err == nil {
		t.Fatal("EncodeBlock() should fail with block over size limit but didn't")
	}
	if _, err := EncodeBlock(make([]byte, MaximumBlockSize)); err != nil {
		t.Fatal("EncodeBlock() should succeed with block at size limit but didn't")
	}
}

func TestDecodeBlock_EOFMarker(t *testing.T) {
	data, length, err := DecodeBlock(bytes.NewReader(EOFMarker))
	require.NoError(t, err)
	assert.Empty(t, data)
	if got, want := length, uint16(len(EOFMarker)); got != want {
		t.Errorf("Wrong compressed block length: got %d, want %d", got, want)
	}
}

func TestWriter_Blocks(t *testing.T) {
	input := []byte(strings.Repeat("chr1\t+\t100\t200\tGENE1,exon\n", 10000))

	var output bytes.Buffer
	w := NewWriter(&output)
	n, err := w.Write(input)
	require.NoError(t, err)
	require.Equal(t, len(input), n)
	require.NoError(t, w.Close())

	r := bytes.NewReader(output.Bytes())
	var (
		decoded []byte
		blocks  int
	)
	for r.Len() > 0 {
		data, length, err := DecodeBlock(r)
		require.NoError(t, err)
		assert.True(t, len(data) <= blockDataSize, "block %d holds %d bytes", blocks, len(data))
		assert.True(t, int(length) <= MaximumBlockSize)
		decoded = append(decoded, data...)
		blocks++
	}
	assert.Equal(t, input, decoded)
	if got, want := blocks, len(input)/blockDataSize+2; got != want {
		t.Errorf("Wrong number of blocks: got %d, want %d", got, want)
	}
	assert.True(t, bytes.HasSuffix(output.Bytes(), EOFMarker))
}

func TestWriter_WriteAfterClose(t *testing.T) {
	w := NewWriter(ioutil.Discard)
	require.NoError(t, w.Close())
	_, err := w.Write([]byte("x"))
	assert.Error(t, err)
}

func TestNewReader(t *testing.T) {
	const text = "chr1\t.\t300\t400\tsampleA\n"

	var compressed bytes.Buffer
	w := NewWriter(&compressed)
	_, err := w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var gzipped bytes.Buffer
	gzw := gzip.NewWriter(&gzipped)
	_, err = gzw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, gzw.Close())

	testCases := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain", []byte(text), text},
		{"bgzf", compressed.Bytes(), text},
		{"gzip", gzipped.Bytes(), text},
		{"bgzf after gzip", append(append([]byte{}, gzipped.Bytes()...), compressed.Bytes()...), text + text},
		{"empty", nil, ""},
		{"single byte", []byte{0x1f}, "\x1f"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewReader(bytes.NewReader(tc.input))
			require.NoError(t, err)
			got, err := ioutil.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestNewReader_Blocks(t *testing.T) {
	input := []byte(strings.Repeat("chr2\t-\t5\t10\tGENE2,utr\textra\n", 8000))

	var compressed bytes.Buffer
	w := NewWriter(&compressed)
	_, err := w.Write(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(compressed.Bytes()))
	require.NoError(t, err)
	if _, ok := r.(*blockReader); !ok {
		t.Fatalf("NewReader() returned %T, want a block reader", r)
	}
	got, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestNewReader_CorruptBlock(t *testing.T) {
	var compressed bytes.Buffer
	w := NewWriter(&compressed)
	_, err := w.Write([]byte(strings.Repeat("chr1\t+\t1\t2\n", 100)))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data := compressed.Bytes()
	// Damage the deflate payload of the first block.
	for i := headerSize; i < headerSize+8; i++ {
		data[i] ^= 0xff
	}

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = ioutil.ReadAll(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 0")
}
