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

// This binary annotates genomic regions with the best matching features of a
// GFF/GTF annotation and prints a census of the matched feature types.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/googlegenomics/regannot/config"
	"github.com/googlegenomics/regannot/internal/app"
	"github.com/googlegenomics/regannot/internal/notify"
	"github.com/googlegenomics/regannot/pipeline"
	"github.com/spf13/cobra"
)

// exitFailure is returned for every fatal error, including usage errors.
const exitFailure = 8

const longUsage = `regannot maps each region of the input onto the features of an annotation,
writes one annotated line per region and prints per feature type counts.

The region input is tab separated without a header line:

    chrom  strand  start  end  [extra fields...]

Coordinates are zero based and half open.  Use '.' as the strand when it is
unknown; extra fields are copied to the output unchanged.  Any location may be
a local path or a gs://bucket/object URL, and inputs may be gzip or BGZF
compressed.  An output location ending in .gz is written as BGZF.

Environment:
    REGANNOT_CONFIG     YAML configuration file
    REGANNOT_PROFILE    cpu or mem: write a pprof profile of the run
    REGANNOT_LOG_LEVEL  debug, info, warn or error
    REGANNOT_GCS_TOKEN  OAuth2 access token for Cloud Storage`

func newCommand() *cobra.Command {
	var opts app.Options
	cmd := &cobra.Command{
		Use:           "regannot -R regions -A annotation -O output",
		Short:         "Annotate genomic regions with their best matching features",
		Long:          longUsage,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.FromEnv()
			if err != nil {
				return pipeline.NewArgumentError(err)
			}
			logger, err := notify.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			notifier := notify.New(logger)
			defer notifier.Close()

			opts.Config = cfg
			opts.Stdout = cmd.OutOrStdout()
			return app.Run(context.Background(), opts, notifier)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Regions, "regions", "R", "", "region input (TSV: chrom, strand, start, end, extra fields)")
	flags.StringVarP(&opts.Annotation, "annotation", "A", "", "annotation source (GFF/GTF)")
	flags.StringVarP(&opts.Output, "output", "O", "", "result output")
	for _, name := range []string{"regions", "annotation", "output"} {
		cmd.MarkFlagRequired(name)
	}
	return cmd
}

func main() {
	cmd := newCommand()
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
}
