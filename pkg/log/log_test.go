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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_task",
			op: func(t *testing.T, logger *Logger) {
				logger.LogTask(context.Background(), TaskOperation{
					ID:          "orders",
					Operator:    "hive_to_vertica",
					Status:      StatusDone,
					Destination: "dwh.orders",
				})
			},
			wantLogs: []string{
				"✓ orders                         hive_to_vertica    done       dwh.orders",
			},
		},
		{
			name: "start_batch",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatch(context.Background(), BatchOperation{
					Source: "jobs.yaml",
					Tasks:  2,
				})
			},
			wantLogs: []string{
				"◆ jobs.yaml • 2 tasks (run)",
			},
		},
		{
			name: "start_dry_run_batch",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatch(context.Background(), BatchOperation{
					Source: "jobs.hcl",
					Tasks:  1,
					DryRun: true,
				})
			},
			wantLogs: []string{
				"◆ jobs.hcl • 1 tasks (dry-run)",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("compiling jobs")
			},
			wantLogs: []string{
				"hive2vertica • compiling jobs",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestTaskFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   TaskOperation
		want string
	}{
		{
			name: "compiled",
			op:   TaskOperation{ID: "orders", Operator: "hive_to_vertica", Status: StatusCompiled, Destination: "dwh.orders"},
			want: "• orders                         hive_to_vertica    compiled   dwh.orders",
		},
		{
			name: "failed",
			op:   TaskOperation{ID: "events", Operator: "hive_to_vertica", Status: StatusFailed, Destination: "dwh.events"},
			want: "✗ events                         hive_to_vertica    failed     dwh.events",
		},
		{
			name: "running",
			op:   TaskOperation{ID: "events", Operator: "hive_to_vertica", Status: StatusRunning, Destination: "dwh.events"},
			want: "⟳ events                         hive_to_vertica    running    dwh.events",
		},
		{
			name: "dry_run",
			op:   TaskOperation{ID: "events", Operator: "hive_to_vertica", Status: StatusSkipped, Destination: "dwh.events"},
			want: "- events                         hive_to_vertica    dry-run    dwh.events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewWithZerolog(buf, zerolog.Nop())

			logger.LogTask(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}
}

func TestEndBatchCountsFailures(t *testing.T) {
	logger := New(io.Discard, zerolog.Disabled)
	ctx := context.Background()

	assert.Equal(t, 0, logger.EndBatch(ctx), "no batch should report no failures")

	logger.StartBatch(ctx, BatchOperation{Source: "jobs.yaml", Tasks: 2})
	logger.LogTask(ctx, TaskOperation{ID: "a", Status: StatusRunning})
	logger.LogTask(ctx, TaskOperation{ID: "a", Status: StatusFailed})
	logger.LogTask(ctx, TaskOperation{ID: "b", Status: StatusDone})
	assert.Equal(t, 1, logger.EndBatch(ctx), "one task failed")
	assert.Equal(t, 0, logger.EndBatch(ctx), "batch should be closed")
}

func TestEndBatchLogsTaskCount(t *testing.T) {
	zbuf := &bytes.Buffer{}
	logger := NewWithZerolog(io.Discard, zerolog.New(zbuf))
	ctx := context.Background()

	logger.StartBatch(ctx, BatchOperation{Source: "jobs.yaml", Tasks: 2})
	logger.LogTask(ctx, TaskOperation{ID: "a", Status: StatusRunning})
	logger.LogTask(ctx, TaskOperation{ID: "a", Status: StatusDone})
	logger.LogTask(ctx, TaskOperation{ID: "b", Status: StatusRunning})
	logger.LogTask(ctx, TaskOperation{ID: "b", Status: StatusFailed})
	require.Equal(t, 1, logger.EndBatch(ctx))

	lines := strings.Split(strings.TrimSpace(zbuf.String()), "\n")
	last := lines[len(lines)-1]
	assert.Contains(t, last, `"message":"batch complete"`)
	assert.Contains(t, last, `"tasks":2`, "each task should be counted once")
	assert.Contains(t, last, `"failed":1`)
	assert.NotContains(t, last, `"events"`)
}
