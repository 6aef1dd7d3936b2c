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
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/hive2vertica/pkg/log"
	"github.com/walteh/hive2vertica/pkg/plugin"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds async runs when no limit is given.
const DefaultParallelism = 4

// 🔧 RunnerOptions configures a runner
type RunnerOptions struct {
	Executor    Executor    // required, defaults to printing to stdout on DryRun
	Console     *log.Logger // optional
	Async       bool        // run tasks concurrently
	Parallelism int         // async limit, DefaultParallelism when <= 0
	DryRun      bool        // print commands instead of running them
}

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	opts RunnerOptions
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts RunnerOptions) (*OperationRunner, error) {
	if opts.DryRun && opts.Executor == nil {
		opts.Executor = NewDryRunExecutor(os.Stdout)
	}
	if opts.Executor == nil {
		return nil, errors.Errorf("executor is required")
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	return &OperationRunner{opts: opts}, nil
}

// 🏃 RunTasks wraps the tasks into operations and runs them
func (r *OperationRunner) RunTasks(ctx context.Context, tasks []*plugin.Task) error {
	ops := make([]Operation, 0, len(tasks))
	for _, task := range tasks {
		op := &taskOperation{task: task, exec: r.opts.Executor, console: r.opts.Console, status: log.StatusDone}
		if r.opts.DryRun {
			op.status = log.StatusSkipped
		}
		ops = append(ops, op)
	}
	return r.Run(ctx, ops...)
}

// 🏃 Run executes operations
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	if r.opts.Async {
		return r.runAsync(ctx, ops)
	}
	return r.runSync(ctx, ops)
}

// 🔄 runSync runs operations one after another
func (r *OperationRunner) runSync(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := op.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync runs operations concurrently, cancelling the rest on failure
func (r *OperationRunner) runAsync(ctx context.Context, ops []Operation) error {
	logger := zerolog.Ctx(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)

	for _, op := range ops {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				logger.Debug().Str("operation", op.ID()).Msg("skipping cancelled operation")
				return nil
			}
			return op.Execute(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation cancelled: %w", err)
	}
	return nil
}
