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

package operation

import (
	"context"

	"github.com/kballard/go-shellquote"
	"github.com/walteh/hive2vertica/pkg/log"
	"github.com/walteh/hive2vertica/pkg/plugin"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work for the runner
type Operation interface {
	// ID names the operation in logs
	ID() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 📦 taskOperation runs one compiled task through an executor
type taskOperation struct {
	task    *plugin.Task
	exec    Executor
	console *log.Logger
	status  string // logged on success
}

func (op *taskOperation) ID() string {
	return op.task.ID
}

// 🏃 Execute runs the task's command line
func (op *taskOperation) Execute(ctx context.Context) error {
	argv, err := Argv(op.task)
	if err != nil {
		return err
	}

	line := op.task.CommandLine
	if line == "" {
		line = shellquote.Join(argv...)
	}

	op.log(ctx, log.StatusRunning)
	if err := op.exec.Exec(ctx, Command{Line: line, Argv: argv}); err != nil {
		op.log(ctx, log.StatusFailed)
		return errors.Errorf("task %q: %w", op.task.ID, err)
	}
	op.log(ctx, op.status)
	return nil
}

func (op *taskOperation) log(ctx context.Context, status string) {
	if op.console == nil {
		return
	}
	op.console.LogTask(ctx, log.TaskOperation{
		ID:          op.task.ID,
		Operator:    op.task.Operator,
		Status:      status,
		Destination: op.task.Destination,
	})
}

// 🔍 Argv splits the task's command line the way a POSIX shell would.
// Tasks without a command line fall back to their argv form.
func Argv(task *plugin.Task) ([]string, error) {
	if task.CommandLine == "" {
		if len(task.Args) == 0 {
			return nil, errors.Errorf("task %q has no command", task.ID)
		}
		return task.Args, nil
	}
	argv, err := shellquote.Split(task.CommandLine)
	if err != nil {
		return nil, errors.Errorf("task %q: splitting command line: %w", task.ID, err)
	}
	return argv, nil
}
