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
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📦 Command is one compiled command in both of its forms
type Command struct {
	Line string   // single-line shell form, exactly as compiled
	Argv []string // the same command split into words
}

// 🔌 Executor runs one command
type Executor interface {
	Exec(ctx context.Context, cmd Command) error
}

// syncWriter serializes writes from concurrently running commands.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// 🖥️ ProcessExecutor runs commands as child processes without a shell
type ProcessExecutor struct {
	stdout io.Writer
	stderr io.Writer
}

// 🏭 NewProcessExecutor creates an executor that is safe to share between
// concurrent tasks; output of all tasks goes to the given writers
func NewProcessExecutor(stdout, stderr io.Writer) *ProcessExecutor {
	e := &ProcessExecutor{stdout: io.Discard, stderr: io.Discard}
	if stdout != nil {
		e.stdout = &syncWriter{w: stdout}
	}
	if stderr != nil {
		e.stderr = &syncWriter{w: stderr}
	}
	return e
}

// 🏃 Exec runs the argv and waits for it
func (e *ProcessExecutor) Exec(ctx context.Context, cmd Command) error {
	if len(cmd.Argv) == 0 {
		return errors.Errorf("empty command")
	}

	zerolog.Ctx(ctx).Debug().Strs("argv", cmd.Argv).Msg("executing command")

	proc := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	proc.Stdout = e.stdout
	proc.Stderr = e.stderr
	if err := proc.Run(); err != nil {
		return errors.Errorf("running %s: %w", cmd.Argv[0], err)
	}
	return nil
}

// 📝 DryRunExecutor prints commands instead of running them
type DryRunExecutor struct {
	mu  sync.Mutex
	out io.Writer
}

// 🏭 NewDryRunExecutor creates an executor printing to out
func NewDryRunExecutor(out io.Writer) *DryRunExecutor {
	return &DryRunExecutor{out: out}
}

// 🏃 Exec prints the compiled command line
func (e *DryRunExecutor) Exec(ctx context.Context, cmd Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintln(e.out, cmd.Line)
	return err
}

// 🔢 ExitCode returns the exit code carried by err, or -1 if there is none
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
