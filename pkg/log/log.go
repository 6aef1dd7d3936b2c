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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	taskIndent    = 4  // spaces to indent task entries
	nameWidth     = 30 // width for the job name
	operatorWidth = 18 // width for the operator
	statusWidth   = 10 // width for status text
)

// 📋 Task statuses
const (
	StatusCompiled = "compiled"
	StatusRunning  = "running"
	StatusDone     = "done"
	StatusFailed   = "failed"
	StatusSkipped  = "dry-run"
)

// 🎯 TaskOperation represents one task for logging
type TaskOperation struct {
	ID          string // job name
	Operator    string // operator name
	Status      string // one of the Status* values
	Destination string // destination table
}

// 📦 BatchOperation represents a batch of tasks for logging
type BatchOperation struct {
	Source string // config file the batch came from
	Tasks  int    // number of tasks
	DryRun bool   // whether commands are only printed
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	batch   *BatchOperation
	tasks   []TaskOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🏭 NewWithZerolog creates a logger that mirrors to an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatTaskOperation formats a task for display
func (l *Logger) formatTaskOperation(op TaskOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Status {
	case StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case StatusDone:
		symbol = '✓'
		symbolColor = color.FgGreen
	case StatusRunning:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case StatusSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", taskIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.ID),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", operatorWidth, op.Operator)),
		fmt.Sprintf("%-*s", statusWidth, op.Status),
		color.New(color.Faint).Sprint(op.Destination))
}

// 📝 LogTask logs a task status change
func (l *Logger) LogTask(ctx context.Context, op TaskOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tasks = append(l.tasks, op)

	fmt.Fprintln(l.console, l.formatTaskOperation(op))

	ev := l.zlog.Info()
	if op.Status == StatusFailed {
		ev = l.zlog.Error()
	}
	ev.Str("task", op.ID).
		Str("operator", op.Operator).
		Str("status", op.Status).
		Str("destination", op.Destination).
		Msg("task")
}

// 📝 StartBatch starts a new batch of tasks
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = &op
	l.tasks = nil

	mode := "run"
	if op.DryRun {
		mode = "dry-run"
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Source),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d tasks (%s)", op.Tasks, mode))

	l.zlog.Info().
		Str("source", op.Source).
		Int("tasks", op.Tasks).
		Bool("dry_run", op.DryRun).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch and returns the number of failed tasks
func (l *Logger) EndBatch(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.batch == nil {
		return 0
	}

	// last status wins per task
	last := make(map[string]string, len(l.tasks))
	for _, op := range l.tasks {
		last[op.ID] = op.Status
	}
	failed := 0
	for _, status := range last {
		if status == StatusFailed {
			failed++
		}
	}

	l.zlog.Info().
		Str("source", l.batch.Source).
		Int("tasks", len(last)).
		Int("failed", failed).
		Msg("batch complete")

	l.batch = nil
	l.tasks = nil
	return failed
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("hive2vertica")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warningf logs a formatted warning message.
func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// Successf logs a formatted success message.
func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}
