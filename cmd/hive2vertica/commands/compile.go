package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/hive2vertica/cmd/hive2vertica/opts"
	"github.com/walteh/hive2vertica/pkg/log"
)

// NewCompileCmd creates a new compile command
func NewCompileCmd(o *opts.RootOpts) *cobra.Command {
	var (
		adhoc         opts.JobFlags
		statementOnly bool
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the vsql command for each job",
		Long: `Compile builds the vsql COPY command for every selected job and prints one
command per line. Nothing is executed.

A single job can be given with flags instead of a config file:

  hive2vertica compile --hive-table sales.orders --vertica-table dwh.orders \
    --partition-column day --partition-value 2019-03-03`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			tasks, source, err := o.Tasks(ctx, &adhoc)
			if err != nil {
				return err
			}

			console.Header(fmt.Sprintf("compiling %d jobs from %s", len(tasks), source))
			for _, task := range tasks {
				line := task.CommandLine
				if statementOnly {
					line = task.Statement
				}
				fmt.Fprintln(o.Out, line)
				console.LogTask(ctx, log.TaskOperation{
					ID:          task.ID,
					Operator:    task.Operator,
					Status:      log.StatusCompiled,
					Destination: task.Destination,
				})
			}
			return nil
		},
	}

	adhoc.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&statementOnly, "statement-only", false, "print only the COPY statement")

	return cmd
}
