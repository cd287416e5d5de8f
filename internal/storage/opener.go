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

// Package storage opens the inputs and outputs of a run, which may be local
// files or Google Cloud Storage objects, and handles compressed data
// transparently.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/googlegenomics/regannot/internal/bgzf"
)

const gcsScheme = "gs://"

var (
	errEmptyLocation          = errors.New("empty location")
	errInvalidOrUnspecifiedID = errors.New("invalid or unspecified bucket or object")
)

// Location is a parsed local path or gs://bucket/object URL.
type Location struct {
	Bucket, Object string
	Path           string
}

// IsGCS reports whether the location names a Cloud Storage object.
func (loc Location) IsGCS() bool {
	return loc.Bucket != ""
}

func (loc Location) String() string {
	if loc.IsGCS() {
		return gcsScheme + loc.Bucket + "/" + loc.Object
	}
	return loc.Path
}

// ParseLocation parses input as either a gs:// URL or a local path.
func ParseLocation(input string) (Location, error) {
	if input == "" {
		return Location{}, errEmptyLocation
	}
	if !strings.HasPrefix(input, gcsScheme) {
		return Location{Path: input}, nil
	}
	if parts := strings.SplitN(input[len(gcsScheme):], "/", 2); len(parts) == 2 {
		if parts[0] != "" && parts[1] != "" {
			return Location{Bucket: parts[0], Object: parts[1]}, nil
		}
	}
	return Location{}, errInvalidOrUnspecifiedID
}

// Opener opens locations for reading and writing.  The Cloud Storage client is
// only created when the first gs:// location is opened.
type Opener struct {
	// NewClient creates the Cloud Storage client.  If nil, NewDefaultClient is
	// used.
	NewClient func(context.Context) (Client, error)

	client Client
}

func (o *Opener) gcs(ctx context.Context) (Client, error) {
	if o.client != nil {
		return o.client, nil
	}
	newClient := o.NewClient
	if newClient == nil {
		newClient = NewDefaultClient
	}
	client, err := newClient(ctx)
	if err != nil {
		return nil, err
	}
	o.client = client
	return client, nil
}

// Open returns a reader for the decompressed content of location.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	var rc io.ReadCloser
	if loc.IsGCS() {
		client, err := o.gcs(ctx)
		if err != nil {
			return nil, err
		}
		if rc, err = client.NewObjectHandle(loc.Bucket, loc.Object).NewReader(ctx); err != nil {
			return nil, describeError(err)
		}
	} else {
		if rc, err = os.Open(loc.Path); err != nil {
			return nil, err
		}
	}

	r, err := bgzf.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return readCloser{r, rc}, nil
}

// Output is a writer whose content replaces its location only once Close
// returns successfully.  Abort discards everything written and leaves the
// location untouched.
type Output interface {
	io.WriteCloser
	Abort() error
}

// Create returns an Output for location.  Locations ending in ".gz" are BGZF
// compressed.  Exactly one of Close or Abort must be called.
func (o *Opener) Create(ctx context.Context, location string) (Output, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	var out Output
	if loc.IsGCS() {
		client, err := o.gcs(ctx)
		if err != nil {
			return nil, err
		}
		// Cancelling the context of a pending upload discards the object.
		ctx, cancel := context.WithCancel(ctx)
		wc, err := client.NewObjectHandle(loc.Bucket, loc.Object).NewWriter(ctx)
		if err != nil {
			cancel()
			return nil, describeError(err)
		}
		out = &objectOutput{wc, cancel}
	} else {
		if out, err = newFileOutput(loc.Path); err != nil {
			return nil, err
		}
	}

	if strings.HasSuffix(location, ".gz") {
		return &compressedOutput{bgzf.NewWriter(out), out}, nil
	}
	return out, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// fileOutput writes to a temporary file next to path and renames it into
// place on Close.
type fileOutput struct {
	*os.File
	path string
}

func newFileOutput(path string) (*fileOutput, error) {
	f, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating %s: %v", path, err)
	}
	return &fileOutput{f, path}, nil
}

func (w *fileOutput) Close() error {
	err := w.File.Chmod(0644)
	if cerr := w.File.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(w.File.Name(), w.path)
	}
	if err != nil {
		os.Remove(w.File.Name())
		return fmt.Errorf("writing %s: %v", w.path, err)
	}
	return nil
}

func (w *fileOutput) Abort() error {
	w.File.Close()
	return os.Remove(w.File.Name())
}

type objectOutput struct {
	io.WriteCloser
	cancel context.CancelFunc
}

func (w *objectOutput) Close() error {
	defer w.cancel()
	if err := w.WriteCloser.Close(); err != nil {
		return describeError(err)
	}
	return nil
}

func (w *objectOutput) Abort() error {
	w.cancel()
	w.WriteCloser.Close()
	return nil
}

type compressedOutput struct {
	*bgzf.Writer
	underlying Output
}

func (w *compressedOutput) Close() error {
	if err := w.Writer.Close(); err != nil {
		w.underlying.Abort()
		return fmt.Errorf("closing compressed output: %v", err)
	}
	return w.underlying.Close()
}

func (w *compressedOutput) Abort() error {
	return w.underlying.Abort()
}
