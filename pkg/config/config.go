// Copyright 2025 walteh LLC
//
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

package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/hive2vertica/pkg/compile"
	"gitlab.com/tozd/go/errors"
)

// DefaultOperator is used for jobs that do not name one.
const DefaultOperator = "hive_to_vertica"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte, vars Vars) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🧮 Vars are the values a config file may reference
type Vars struct {
	DS  string            // run date, YYYY-MM-DD
	Env map[string]string // process environment
}

// 🏭 DefaultVars builds Vars from the process environment and the given run time
func DefaultVars(now time.Time) Vars {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return Vars{DS: now.Format(time.DateOnly), Env: env}
}

// lookup resolves a variable name, ds first.
func (v Vars) lookup(name string) (string, bool) {
	if name == "ds" {
		return v.DS, v.DS != ""
	}
	val, ok := v.Env[name]
	return val, ok
}

// 🖥️ ClientArgs configures the vsql client
type ClientArgs struct {
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty"`
	User   string `json:"user,omitempty" yaml:"user,omitempty"`
}

// 🎛️ Defaults are applied to every job that leaves the field empty
type Defaults struct {
	VerticaServer   string `json:"vertica_server,omitempty" yaml:"vertica_server,omitempty"`
	VerticaDatabase string `json:"vertica_database,omitempty" yaml:"vertica_database,omitempty"`
}

// 📦 Job is one Hive table copied into one Vertica table
type Job struct {
	Name            string `json:"name" yaml:"name"`
	Operator        string `json:"operator,omitempty" yaml:"operator,omitempty"`
	HiveTable       string `json:"hive_table" yaml:"hive_table"`
	VerticaTable    string `json:"vertica_table" yaml:"vertica_table"`
	PartitionColumn string `json:"partition_column,omitempty" yaml:"partition_column,omitempty"`
	PartitionValue  string `json:"partition_value,omitempty" yaml:"partition_value,omitempty"`
	VerticaServer   string `json:"vertica_server,omitempty" yaml:"vertica_server,omitempty"`
	VerticaDatabase string `json:"vertica_database,omitempty" yaml:"vertica_database,omitempty"`
}

// 📝 String returns a short description of the job
func (j Job) String() string {
	s := fmt.Sprintf("%s -> %s", j.HiveTable, j.VerticaTable)
	if j.PartitionColumn != "" && j.PartitionValue != "" {
		s += fmt.Sprintf(" [%s=%s]", j.PartitionColumn, j.PartitionValue)
	}
	return s
}

// 📚 Config represents the complete configuration
type Config struct {
	WarehouseRoot string     `json:"warehouse_root,omitempty" yaml:"warehouse_root,omitempty"`
	Client        ClientArgs `json:"client,omitempty" yaml:"client,omitempty"`
	Defaults      Defaults   `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Jobs          []Job      `json:"jobs" yaml:"jobs"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string, vars Vars) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data, vars)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Int("jobs", len(cfg.Jobs)).Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks required fields and fills in the operator default
func (cfg *Config) Validate() error {
	if len(cfg.Jobs) == 0 {
		return errors.Errorf("at least one job is required")
	}

	seen := map[string]bool{}
	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		if job.Name == "" {
			return errors.Errorf("jobs[%d].name is required", i)
		}
		if seen[job.Name] {
			return errors.Errorf("job %q is defined twice", job.Name)
		}
		seen[job.Name] = true

		if job.HiveTable == "" {
			return errors.Errorf("job %q: hive_table is required", job.Name)
		}
		if job.VerticaTable == "" {
			return errors.Errorf("job %q: vertica_table is required", job.Name)
		}
		if job.Operator == "" {
			job.Operator = DefaultOperator
		}
	}

	return nil
}

// 🔧 JobOptions merges the shared settings into a job's compile options
func (cfg *Config) JobOptions(job Job) compile.Options {
	server := job.VerticaServer
	if server == "" {
		server = cfg.Defaults.VerticaServer
	}
	database := job.VerticaDatabase
	if database == "" {
		database = cfg.Defaults.VerticaDatabase
	}
	return compile.Options{
		SourceTable:      job.HiveTable,
		DestinationTable: job.VerticaTable,
		PartitionColumn:  job.PartitionColumn,
		PartitionValue:   job.PartitionValue,
		Server:           server,
		Database:         database,
		WarehouseRoot:    cfg.WarehouseRoot,
		Client: compile.Client{
			Binary: cfg.Client.Binary,
			User:   cfg.Client.User,
		},
	}
}

// 🎯 Select returns the jobs whose name matches any of the glob patterns.
// No patterns selects every job. A pattern that matches nothing is an error.
func (cfg *Config) Select(patterns []string) ([]Job, error) {
	if len(patterns) == 0 {
		return cfg.Jobs, nil
	}

	picked := map[string]bool{}
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid job pattern %q", pattern)
		}
		matched := false
		for _, job := range cfg.Jobs {
			if ok, _ := doublestar.Match(pattern, job.Name); ok {
				picked[job.Name] = true
				matched = true
			}
		}
		if !matched {
			return nil, errors.Errorf("no job matches %q", pattern)
		}
	}

	// keep file order
	var jobs []Job
	for _, job := range cfg.Jobs {
		if picked[job.Name] {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// Names returns the sorted job names.
func (cfg *Config) Names() []string {
	names := make([]string, 0, len(cfg.Jobs))
	for _, job := range cfg.Jobs {
		names = append(names, job.Name)
	}
	sort.Strings(names)
	return names
}
