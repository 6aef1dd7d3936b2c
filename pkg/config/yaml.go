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
	"bytes"
	"context"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses the config from YAML.
// Partition values may reference ${ds} and ${ENV_NAME}.
func (p *YAMLParser) Parse(ctx context.Context, data []byte, vars Vars) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	for i := range cfg.Jobs {
		value, err := expand(cfg.Jobs[i].PartitionValue, vars)
		if err != nil {
			return nil, errors.Errorf("job %q: partition_value: %w", cfg.Jobs[i].Name, err)
		}
		cfg.Jobs[i].PartitionValue = value
	}

	return &cfg, nil
}

// expand substitutes ${name} references, failing on undefined names.
func expand(s string, vars Vars) (string, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}
	var missing []string
	out := os.Expand(s, func(name string) string {
		v, ok := vars.lookup(name)
		if !ok {
			missing = append(missing, name)
		}
		return v
	})
	if len(missing) > 0 {
		return "", errors.Errorf("undefined variable %q", missing[0])
	}
	return out, nil
}
