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

// Package plugin is the operator registry. Plugins register operator
// factories by name; jobs pick a factory through their operator field.
package plugin

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/hive2vertica/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📦 Task is a compiled job, ready to hand to an executor
type Task struct {
	ID          string   // job name
	Operator    string   // operator that built it
	UIColor     string   // display color of the operator
	Source      string   // source location
	Destination string   // destination table
	Statement   string   // statement sent to the client
	CommandLine string   // single-line shell form
	Args        []string // argv form
}

// 🏭 Factory builds a task from a job
type Factory func(ctx context.Context, cfg *config.Config, job config.Job) (*Task, error)

// 🔌 Plugin groups operator factories under a name
type Plugin struct {
	Name      string
	Operators map[string]Factory
}

var (
	mu        sync.RWMutex
	plugins   []Plugin
	operators = map[string]Factory{}
)

// 📝 Register adds a plugin to the registry
func Register(p Plugin) error {
	mu.Lock()
	defer mu.Unlock()

	if p.Name == "" {
		return errors.Errorf("plugin name is required")
	}
	for _, existing := range plugins {
		if existing.Name == p.Name {
			return errors.Errorf("plugin %q is already registered", p.Name)
		}
	}
	for name := range p.Operators {
		if _, ok := operators[name]; ok {
			return errors.Errorf("plugin %q: operator %q is already registered", p.Name, name)
		}
	}

	for name, f := range p.Operators {
		operators[name] = f
	}
	plugins = append(plugins, p)
	return nil
}

// MustRegister is Register for init functions.
func MustRegister(p Plugin) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

// 🔍 Lookup returns the factory registered for an operator
func Lookup(operator string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := operators[operator]
	return f, ok
}

// Operators returns the registered operator names, sorted.
func Operators() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plugins returns the registered plugin names in registration order.
func Plugins() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		names = append(names, p.Name)
	}
	return names
}

// 🎯 Build compiles every job into a task, stopping at the first failure
func Build(ctx context.Context, cfg *config.Config, jobs []config.Job) ([]*Task, error) {
	logger := zerolog.Ctx(ctx)

	tasks := make([]*Task, 0, len(jobs))
	for _, job := range jobs {
		f, ok := Lookup(job.Operator)
		if !ok {
			return nil, errors.Errorf("job %q: unknown operator %q", job.Name, job.Operator)
		}

		task, err := f(ctx, cfg, job)
		if err != nil {
			return nil, errors.Errorf("job %q: %w", job.Name, err)
		}

		logger.Debug().
			Str("job", job.Name).
			Str("operator", job.Operator).
			Str("statement", task.Statement).
			Msg("compiled task")

		tasks = append(tasks, task)
	}
	return tasks, nil
}
