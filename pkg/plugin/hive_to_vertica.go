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

package plugin

import (
	"context"

	"github.com/walteh/hive2vertica/pkg/compile"
	"github.com/walteh/hive2vertica/pkg/config"
)

const (
	// HiveToVerticaPlugin is the name of the built-in plugin.
	HiveToVerticaPlugin = "hive_to_vertica_operator_plugin"

	// HiveToVerticaColor is how the operator shows up in listings.
	HiveToVerticaColor = "#aaede4"
)

func init() {
	MustRegister(Plugin{
		Name: HiveToVerticaPlugin,
		Operators: map[string]Factory{
			config.DefaultOperator: HiveToVertica,
		},
	})
}

// 🐝 HiveToVertica compiles a job into a vsql COPY task
func HiveToVertica(ctx context.Context, cfg *config.Config, job config.Job) (*Task, error) {
	c, err := compile.New(cfg.JobOptions(job))
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:          job.Name,
		Operator:    config.DefaultOperator,
		UIColor:     HiveToVerticaColor,
		Source:      c.Location(),
		Destination: c.Options().DestinationTable,
		Statement:   c.Statement(),
		CommandLine: c.CommandLine(),
		Args:        c.Args(),
	}, nil
}
