// Copyright 2018-2024 Onai (Onu Technology, Inc.)
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config reads the YAML configuration of schedsat:
//
//	solver:
//	  verbose: false
//	  price_min: -1000
//	  price_max: 1000
//	loader:
//	  max_commitments: 0
//	output:
//	  format: text
//	  verify: false
//
// Every field is optional. Unknown fields are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/onai/schedsat/sat/cpmodel"
	"github.com/onai/schedsat/sched/report"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a run.
type Config struct {
	Solver Solver `yaml:"solver"`
	Loader Loader `yaml:"loader"`
	Output Output `yaml:"output"`
}

// Solver configures sched.Solve.
type Solver struct {
	Verbose bool `yaml:"verbose"`
	// PriceMin and PriceMax bound every price. Both or neither must be set.
	PriceMin *int64 `yaml:"price_min"`
	PriceMax *int64 `yaml:"price_max"`
}

// Loader configures the problem loader.
type Loader struct {
	MaxCommitments int `yaml:"max_commitments"`
}

// Output configures how schedules are printed.
type Output struct {
	Format string `yaml:"format"`
	// Verify checks the schedule against the problem before printing it.
	Verify bool `yaml:"verify"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Output: Output{Format: string(report.FormatText)}}
}

// Load reads the configuration at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values and combinations.
func (c *Config) Validate() error {
	s := c.Solver
	if (s.PriceMin == nil) != (s.PriceMax == nil) {
		return errors.New("solver.price_min and solver.price_max must be set together")
	}
	if s.PriceMin != nil && *s.PriceMin > *s.PriceMax {
		return fmt.Errorf("solver.price_min = %d is above solver.price_max = %d", *s.PriceMin, *s.PriceMax)
	}
	if c.Loader.MaxCommitments < 0 {
		return fmt.Errorf("loader.max_commitments = %d, want >= 0", c.Loader.MaxCommitments)
	}
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	return nil
}

// PriceDomain returns the configured price domain, or an empty domain when prices are
// left to their default range.
func (s Solver) PriceDomain() cpmodel.Domain {
	if s.PriceMin == nil || s.PriceMax == nil {
		return cpmodel.NewEmptyDomain()
	}
	return cpmodel.NewDomain(*s.PriceMin, *s.PriceMax)
}
