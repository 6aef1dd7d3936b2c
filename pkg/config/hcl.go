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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL.
// Expressions may reference ds and env.NAME.
func (p *HCLParser) Parse(ctx context.Context, data []byte, vars Vars) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	env := map[string]cty.Value{}
	for k, v := range vars.Env {
		env[k] = cty.StringVal(v)
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"ds":  cty.StringVal(vars.DS),
			"env": cty.ObjectVal(env),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		WarehouseRoot string `hcl:"warehouse_root,optional"`
		Client        *struct {
			Binary string `hcl:"binary,optional"`
			User   string `hcl:"user,optional"`
		} `hcl:"client,block"`
		Defaults *struct {
			VerticaServer   string `hcl:"vertica_server,optional"`
			VerticaDatabase string `hcl:"vertica_database,optional"`
		} `hcl:"defaults,block"`
		Jobs []struct {
			Name            string `hcl:"name,label"`
			Operator        string `hcl:"operator,optional"`
			HiveTable       string `hcl:"hive_table"`
			VerticaTable    string `hcl:"vertica_table"`
			PartitionColumn string `hcl:"partition_column,optional"`
			PartitionValue  string `hcl:"partition_value,optional"`
			VerticaServer   string `hcl:"vertica_server,optional"`
			VerticaDatabase string `hcl:"vertica_database,optional"`
		} `hcl:"job,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		WarehouseRoot: hclCfg.WarehouseRoot,
	}
	if hclCfg.Client != nil {
		cfg.Client = ClientArgs{Binary: hclCfg.Client.Binary, User: hclCfg.Client.User}
	}
	if hclCfg.Defaults != nil {
		cfg.Defaults = Defaults{
			VerticaServer:   hclCfg.Defaults.VerticaServer,
			VerticaDatabase: hclCfg.Defaults.VerticaDatabase,
		}
	}
	for _, j := range hclCfg.Jobs {
		cfg.Jobs = append(cfg.Jobs, Job{
			Name:            j.Name,
			Operator:        j.Operator,
			HiveTable:       j.HiveTable,
			VerticaTable:    j.VerticaTable,
			PartitionColumn: j.PartitionColumn,
			PartitionValue:  j.PartitionValue,
			VerticaServer:   j.VerticaServer,
			VerticaDatabase: j.VerticaDatabase,
		})
	}

	return cfg, nil
}
