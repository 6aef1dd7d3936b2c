package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/hive2vertica/cmd/hive2vertica/opts"
	"github.com/walteh/hive2vertica/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewListCmd creates a new list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the jobs in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, source, err := o.Tasks(cmd.Context(), nil)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"JOB", "OPERATOR", "COLOR", "SOURCE", "DESTINATION"}}
			for _, task := range tasks {
				data = append(data, []string{task.ID, task.Operator, swatch(task.UIColor), task.Source, task.Destination})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering table: %w", err)
			}
			fmt.Fprintln(o.Out, table)

			log.FromContext(cmd.Context()).Infof("%d jobs from %s", len(tasks), source)
			return nil
		},
	}

	return cmd
}

// swatch renders a #rrggbb operator color in that color.
// Anything else is shown as given.
func swatch(hex string) string {
	rgb, ok := parseHex(hex)
	if !ok {
		return hex
	}
	return rgb.Sprint(hex)
}

func parseHex(hex string) (pterm.RGB, bool) {
	var r, g, b uint8
	if len(hex) != 7 {
		return pterm.RGB{}, false
	}
	if n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 {
		return pterm.RGB{}, false
	}
	return pterm.NewRGB(r, g, b), true
}
