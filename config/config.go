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

// Package config holds the tuning knobs of a run that are not part of the
// command line: pipeline mode, progress interval, malformed line policy,
// Cloud Storage credentials and annotation attribute names.
package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/googlegenomics/regannot/annotation"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by FromEnv.
const (
	ConfigEnv   = "REGANNOT_CONFIG"
	ProfileEnv  = "REGANNOT_PROFILE"
	LogLevelEnv = "REGANNOT_LOG_LEVEL"
	GCSTokenEnv = "REGANNOT_GCS_TOKEN"
)

// Pipeline modes.
const (
	TwoPass = "two-pass"
	Stream  = "stream"
)

// DefaultProgressInterval is the number of accepted regions between two
// progress notifications.
const DefaultProgressInterval = 5000000

// Config is the run configuration.
type Config struct {
	Mode             string `yaml:"mode"`
	ProgressInterval int    `yaml:"progress_interval"`
	SkipMalformed    bool   `yaml:"skip_malformed"`

	GCS struct {
		Anonymous bool   `yaml:"anonymous"`
		Token     string `yaml:"-"`
	} `yaml:"gcs"`

	Annotation annotation.Attributes `yaml:"annotation"`

	// Profile selects a pprof profile ("cpu" or "mem") written for the run.
	Profile  string `yaml:"profile"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Mode:             TwoPass,
		ProgressInterval: DefaultProgressInterval,
		Annotation:       annotation.DefaultAttributes(),
	}
}

// Load reads a YAML configuration from path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %v", path, err)
	}
	return cfg, cfg.Validate()
}

// FromEnv loads the file named by REGANNOT_CONFIG (if set) and applies the
// remaining environment overrides.
func FromEnv() (Config, error) {
	cfg := Default()
	if path := os.Getenv(ConfigEnv); path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return Config{}, err
		}
	}
	if v := os.Getenv(ProfileEnv); v != "" {
		cfg.Profile = v
	}
	if v := os.Getenv(LogLevelEnv); v != "" {
		cfg.LogLevel = v
	}
	cfg.GCS.Token = os.Getenv(GCSTokenEnv)
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (cfg Config) Validate() error {
	switch cfg.Mode {
	case TwoPass, Stream:
	default:
		return fmt.Errorf("invalid mode %q: want %q or %q", cfg.Mode, TwoPass, Stream)
	}
	if cfg.ProgressInterval <= 0 {
		return fmt.Errorf("invalid progress_interval %d: must be positive", cfg.ProgressInterval)
	}
	switch cfg.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("invalid profile %q: want \"cpu\" or \"mem\"", cfg.Profile)
	}
	if cfg.GCS.Anonymous && cfg.GCS.Token != "" {
		return fmt.Errorf("gcs.anonymous cannot be combined with %s", GCSTokenEnv)
	}
	return nil
}
