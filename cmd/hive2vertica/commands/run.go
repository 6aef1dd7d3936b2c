package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/hive2vertica/cmd/hive2vertica/opts"
	"github.com/walteh/hive2vertica/pkg/log"
	"github.com/walteh/hive2vertica/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates a new run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var (
		adhoc    opts.JobFlags
		dryRun   bool
		async    bool
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile the jobs and run them with vsql",
		Long: `Run compiles every selected job and runs its vsql command.
It will:
1. Load the config (or the job given by flags)
2. Compile each job, failing before anything runs if one is invalid
3. Run the commands one by one, or concurrently with --async
4. Stop at the first command that exits non-zero`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			tasks, source, err := o.Tasks(ctx, &adhoc)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("parallel") && !async {
				console.Warningf("--parallel %d has no effect without --async", parallel)
			}

			var exec operation.Executor = operation.NewProcessExecutor(o.Out, cmd.ErrOrStderr())
			if dryRun {
				console.Warning("dry run, commands are printed and not executed")
				exec = operation.NewDryRunExecutor(o.Out)
			}

			runner, err := operation.NewRunner(operation.RunnerOptions{
				Executor:    exec,
				Console:     console,
				Async:       async,
				Parallelism: parallel,
				DryRun:      dryRun,
			})
			if err != nil {
				return errors.Errorf("creating runner: %w", err)
			}

			console.Header("running jobs from " + source)
			console.StartBatch(ctx, log.BatchOperation{Source: source, Tasks: len(tasks), DryRun: dryRun})
			runErr := runner.RunTasks(ctx, tasks)
			failed := console.EndBatch(ctx)
			console.LogNewline()
			if runErr != nil {
				console.Errorf("%d of %d jobs failed", failed, len(tasks))
				if code := operation.ExitCode(runErr); code >= 0 {
					return errors.Errorf("running jobs (%d failed, exit code %d): %w", failed, code, runErr)
				}
				return errors.Errorf("running jobs (%d failed): %w", failed, runErr)
			}

			console.Successf("%d jobs finished", len(tasks))
			return nil
		},
	}

	adhoc.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the commands instead of running them")
	cmd.Flags().BoolVar(&async, "async", false, "run jobs concurrently")
	cmd.Flags().IntVar(&parallel, "parallel", operation.DefaultParallelism, "maximum concurrent jobs with --async")

	return cmd
}
