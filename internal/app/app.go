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

// Package app wires configuration, storage, the annotation index and the
// pipeline into a single run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/googlegenomics/regannot/annotation"
	"github.com/googlegenomics/regannot/config"
	"github.com/googlegenomics/regannot/internal/notify"
	"github.com/googlegenomics/regannot/internal/storage"
	"github.com/googlegenomics/regannot/pipeline"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

// Options describes a run.
type Options struct {
	Regions    string // region input location (-R)
	Annotation string // annotation source location (-A)
	Output     string // result output location (-O)

	Config config.Config

	// Stdout receives the census report.
	Stdout io.Writer
	// Opener opens the locations.  If nil, one is derived from Config.
	Opener *storage.Opener
}

func (opts *Options) validate() error {
	var missing []string
	for _, arg := range []struct{ flag, value string }{
		{"-R", opts.Regions},
		{"-A", opts.Annotation},
		{"-O", opts.Output},
	} {
		if arg.value == "" {
			missing = append(missing, arg.flag)
		}
	}
	if len(missing) > 0 {
		return pipeline.NewArgumentError(fmt.Errorf("missing required flags %v", missing))
	}
	if opts.Stdout == nil {
		return pipeline.NewArgumentError(errors.New("no report writer"))
	}
	return nil
}

// NewOpener returns an Opener using the Cloud Storage credentials selected by
// cfg.
func NewOpener(cfg config.Config) *storage.Opener {
	opener := &storage.Opener{NewClient: storage.NewDefaultClient}
	switch {
	case cfg.GCS.Token != "":
		token := cfg.GCS.Token
		opener.NewClient = func(ctx context.Context) (storage.Client, error) {
			return storage.NewClientFromToken(ctx, token)
		}
	case cfg.GCS.Anonymous:
		opener.NewClient = storage.NewPublicClient
	}
	return opener
}

// Run executes the whole pipeline described by opts and reports milestones to
// notifier.  Every returned error is fatal.
func Run(ctx context.Context, opts Options, notifier *notify.Notifier) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if err := opts.Config.Validate(); err != nil {
		return pipeline.NewArgumentError(err)
	}
	opener := opts.Opener
	if opener == nil {
		opener = NewOpener(opts.Config)
	}

	switch opts.Config.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	notifier.Notify("START")

	index, err := loadIndex(ctx, opener, opts.Annotation, opts.Config.Annotation)
	if err != nil {
		return err
	}
	notifier.Notify("annotation loaded")
	notifier.Logger().Debug("annotation index",
		zap.Int("features", index.Len()), zap.Int("chromosomes", len(index.Chromosomes())))

	in, err := opener.Open(ctx, opts.Regions)
	if err != nil {
		return pipeline.NewOpenError(opts.Regions, err)
	}
	defer in.Close()

	out, err := opener.Create(ctx, opts.Output)
	if err != nil {
		return pipeline.NewOpenError(opts.Output, err)
	}

	driver := &pipeline.Driver{
		Index:            index,
		Notifier:         notifier,
		Stream:           opts.Config.Mode == config.Stream,
		ProgressInterval: opts.Config.ProgressInterval,
		SkipMalformed:    opts.Config.SkipMalformed,
		OnSkip: func(err error) {
			notifier.Warn("skipping malformed region", err)
		},
	}
	result, err := driver.Run(in, opts.Regions, out, opts.Output)
	if err != nil {
		out.Abort()
		return err
	}
	if err := out.Close(); err != nil {
		return pipeline.NewWriteError(opts.Output, err)
	}
	if result.Stats.Skipped > 0 {
		notifier.Notify(fmt.Sprintf("Skipped %d malformed regions", result.Stats.Skipped))
	}

	if err := result.Census.WriteReport(opts.Stdout); err != nil {
		return pipeline.NewWriteError("stdout", err)
	}
	notifier.Notify("END")
	return nil
}

func loadIndex(ctx context.Context, opener *storage.Opener, location string, attrs annotation.Attributes) (*annotation.Forest, error) {
	r, err := opener.Open(ctx, location)
	if err != nil {
		return nil, pipeline.NewOpenError(location, err)
	}
	defer r.Close()

	index, err := annotation.ReadGFF(r, attrs)
	if err != nil {
		return nil, pipeline.NewOpenError(location, fmt.Errorf("could not initialize annotation: %v", err))
	}
	return index, nil
}
