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

// Package bgzf reads gzip/BGZF compressed text and writes BGZF files.
package bgzf

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
)

// MaximumBlockSize is the maximum BGZF block size.
const MaximumBlockSize = 65536

// blockDataSize bounds the uncompressed payload of a block so that the
// compressed block always fits in MaximumBlockSize.
const blockDataSize = 0xff00

// EOFMarker is the empty block that terminates a BGZF file.
var EOFMarker = []byte{
	0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00,
	0x00, 0xff, 0x06, 0x00, 0x42, 0x43, 0x02, 0x00,
	0x1b, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

var gzipMagic = []byte{0x1f, 0x8b}

// DecodeBlock decodes a single BGZF block from r and returns the uncompressed
// data and the original block size (or an error).  Note that DecodeBlock may
// read bytes past the end of the block if r does not implement io.ByteReader.
func DecodeBlock(r io.Reader) ([]byte, uint16, error) {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("initializing gzip reader: %v", err)
	}
	defer gzr.Close()

	extra := gzr.Header.Extra
	if len(extra) < 6 || extra[0] != 0x42 || extra[1] != 0x43 {
		return nil, 0, fmt.Errorf("unexpected extra field: %x", extra)
	}
	if extra[2] != 2 || extra[3] != 0 {
		return nil, 0, fmt.Errorf("unexpected extra length: %x", extra[2:4])
	}

	gzr.Multistream(false)
	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, gzr); err != nil {
		return nil, 0, fmt.Errorf("decompressing data: %v", err)
	}
	return buffer.Bytes(), (uint16(extra[4]) | uint16(extra[5])<<8) + 1, nil
}

// EncodeBlock returns a single BGZF block that encodes the bytes in data.
func EncodeBlock(data []byte) ([]byte, error) {
	if len(data) > MaximumBlockSize {
		return nil, errors.New("data exceeds maximum block size")
	}

	var buffer bytes.Buffer
	gzw := gzip.NewWriter(&buffer)

	gzw.Header.Extra = []byte{
		0x42, 0x43, // Extra ID.
		0x02, 0x00, // Length of extra data (2 bytes).
		0x88, 0x88, // BSIZE (filled in after writing the archive).
	}
	if _, err := gzw.Write(data); err != nil {
		return nil, fmt.Errorf("writing compressed data: %v", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("closing writer: %v", err)
	}
	bsize := buffer.Len() - 1
	if bsize >= MaximumBlockSize {
		return nil, fmt.Errorf("compressed block too large: %d bytes", bsize+1)
	}
	encoded := buffer.Bytes()
	encoded[16] = byte(bsize)
	encoded[17] = byte(bsize >> 8)
	return encoded, nil
}

// Writer compresses everything written to it into BGZF blocks.  Close must be
// called to flush the final block and append the EOF marker; it does not close
// the underlying writer.
type Writer struct {
	w      io.Writer
	buffer []byte
	err    error
}

// NewWriter returns a Writer that writes BGZF blocks to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buffer: make([]byte, 0, blockDataSize)}
}

func (bw *Writer) Write(p []byte) (int, error) {
	if bw.err != nil {
		return 0, bw.err
	}
	written := 0
	for len(p) > 0 {
		n := copy(bw.buffer[len(bw.buffer):cap(bw.buffer)], p)
		bw.buffer = bw.buffer[:len(bw.buffer)+n]
		written += n
		p = p[n:]
		if len(bw.buffer) == cap(bw.buffer) {
			if err := bw.flush(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (bw *Writer) flush() error {
	if len(bw.buffer) == 0 {
		return nil
	}
	block, err := EncodeBlock(bw.buffer)
	if err != nil {
		bw.err = err
		return err
	}
	if _, err := bw.w.Write(block); err != nil {
		bw.err = fmt.Errorf("writing block: %v", err)
		return bw.err
	}
	bw.buffer = bw.buffer[:0]
	return nil
}

// Close flushes any buffered data and writes the EOF marker.
func (bw *Writer) Close() error {
	if err := bw.flush(); err != nil {
		return err
	}
	if bw.err != nil {
		return bw.err
	}
	if _, err := bw.w.Write(EOFMarker); err != nil {
		bw.err = fmt.Errorf("writing EOF marker: %v", err)
		return bw.err
	}
	bw.err = errors.New("bgzf: writer closed")
	return nil
}

// headerSize is the size of a BGZF block header up to and including BSIZE.
const headerSize = 18

// NewReader returns a reader of the decompressed content of r.  BGZF input is
// decoded block by block, other gzip input as a plain multi-member stream,
// and anything else is returned as is.
func NewReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 2*MaximumBlockSize)
	header, err := br.Peek(headerSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniffing compression: %v", err)
	}
	if !bytes.HasPrefix(header, gzipMagic) {
		return br, nil
	}
	if isBlockHeader(header) {
		return &blockReader{r: br}, nil
	}
	gzr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("initializing gzip reader: %v", err)
	}
	return gzr, nil
}

// isBlockHeader reports whether header starts a gzip member whose only extra
// subfield is the BGZF "BC" block size.
func isBlockHeader(header []byte) bool {
	return len(header) >= headerSize &&
		header[3]&0x04 != 0 && // FEXTRA
		header[10] == 6 && header[11] == 0 &&
		header[12] == 'B' && header[13] == 'C' &&
		header[14] == 2 && header[15] == 0
}

// blockReader decodes consecutive BGZF blocks.
type blockReader struct {
	r      *bufio.Reader
	data   []byte
	offset int64
	err    error
}

func (br *blockReader) Read(p []byte) (int, error) {
	for len(br.data) == 0 {
		if br.err != nil {
			return 0, br.err
		}
		if _, err := br.r.Peek(1); err != nil {
			if err != io.EOF {
				err = fmt.Errorf("reading block at offset %d: %v", br.offset, err)
			}
			br.err = err
			return 0, err
		}
		data, size, err := DecodeBlock(br.r)
		if err != nil {
			br.err = fmt.Errorf("decoding block at offset %d: %v", br.offset, err)
			return 0, br.err
		}
		br.data = data
		br.offset += int64(size)
	}
	n := copy(p, br.data)
	br.data = br.data[n:]
	return n, nil
}
