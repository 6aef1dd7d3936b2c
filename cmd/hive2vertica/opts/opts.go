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

package opts

import (
	"context"
	"io"
	"time"

	"github.com/spf13/pflag"
	"github.com/walteh/hive2vertica/pkg/config"
	"github.com/walteh/hive2vertica/pkg/plugin"
	"gitlab.com/tozd/go/errors"
)

// AdHocJob is the name given to a job built from flags.
const AdHocJob = "adhoc"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Jobs       []string // job name globs
	DS         string   // run date override

	Out io.Writer // command output, stdout; status lines go to the context console

	now func() time.Time
}

// 🏭 New creates root options writing command output to out
func New(out io.Writer) *RootOpts {
	return &RootOpts{Out: out, now: time.Now}
}

// 📝 AddFlags adds the shared flags
func (o *RootOpts) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", ".hive2vertica.yaml", "config file path")
	fs.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	fs.StringSliceVar(&o.Jobs, "job", nil, "only use jobs whose name matches this glob (repeatable)")
	fs.StringVar(&o.DS, "ds", "", "run date used for ${ds} (default today)")
}

// 🧮 Vars returns the config variables for this run
func (o *RootOpts) Vars() config.Vars {
	vars := config.DefaultVars(o.now())
	if o.DS != "" {
		vars.DS = o.DS
	}
	return vars
}

// 🐝 JobFlags describes a single job given on the command line
type JobFlags struct {
	HiveTable       string
	VerticaTable    string
	PartitionColumn string
	PartitionValue  string
	VerticaServer   string
	VerticaDatabase string
}

// 📝 AddFlags adds the ad-hoc job flags
func (f *JobFlags) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.HiveTable, "hive-table", "", "source Hive table, schema.table (skips the config file)")
	fs.StringVar(&f.VerticaTable, "vertica-table", "", "destination Vertica table")
	fs.StringVar(&f.PartitionColumn, "partition-column", "", "Hive partition column")
	fs.StringVar(&f.PartitionValue, "partition-value", "", "Hive partition value")
	fs.StringVar(&f.VerticaServer, "vertica-server", "", "Vertica host (default 127.0.0.1)")
	fs.StringVar(&f.VerticaDatabase, "vertica-database", "", "Vertica database (default DWH)")
}

// IsSet reports whether an ad-hoc job was requested.
func (f *JobFlags) IsSet() bool {
	return f.HiveTable != "" || f.VerticaTable != ""
}

// 📚 Config builds a one-job config from the flags
func (f *JobFlags) Config() (*config.Config, error) {
	cfg := &config.Config{Jobs: []config.Job{{
		Name:            AdHocJob,
		HiveTable:       f.HiveTable,
		VerticaTable:    f.VerticaTable,
		PartitionColumn: f.PartitionColumn,
		PartitionValue:  f.PartitionValue,
		VerticaServer:   f.VerticaServer,
		VerticaDatabase: f.VerticaDatabase,
	}}}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}
	return cfg, nil
}

// 📚 LoadConfig returns the config from the ad-hoc flags or the config file,
// along with the selected jobs and a label for where they came from
func (o *RootOpts) LoadConfig(ctx context.Context, adhoc *JobFlags) (*config.Config, []config.Job, string, error) {
	if adhoc != nil && adhoc.IsSet() {
		cfg, err := adhoc.Config()
		if err != nil {
			return nil, nil, "", err
		}
		return cfg, cfg.Jobs, "flags", nil
	}

	cfg, err := config.Load(ctx, o.ConfigFile, o.Vars())
	if err != nil {
		return nil, nil, "", errors.Errorf("loading config: %w", err)
	}

	jobs, err := cfg.Select(o.Jobs)
	if err != nil {
		return nil, nil, "", errors.Errorf("selecting jobs: %w", err)
	}
	return cfg, jobs, o.ConfigFile, nil
}

// 🎯 Tasks loads the config and compiles the selected jobs
func (o *RootOpts) Tasks(ctx context.Context, adhoc *JobFlags) ([]*plugin.Task, string, error) {
	cfg, jobs, source, err := o.LoadConfig(ctx, adhoc)
	if err != nil {
		return nil, "", err
	}

	tasks, err := plugin.Build(ctx, cfg, jobs)
	if err != nil {
		return nil, "", errors.Errorf("compiling jobs: %w", err)
	}
	return tasks, source, nil
}
