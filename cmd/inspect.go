package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entericlab/entericreport/internal/dataset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Profile the columns of input CSVs without running the analysis",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			prof, err := dataset.Inspect(path)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d rows, %d columns\n", prof.Path, prof.Rows, len(prof.Columns))
			for _, c := range prof.Columns {
				total := c.NonNull + c.Missing
				missPct := 0.0
				if total > 0 {
					missPct = 100 * float64(c.Missing) / float64(total)
				}
				fmt.Printf("- %s: %s (non-null %d, missing %.1f%%)\n", c.Name, c.Kind, c.NonNull, missPct)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
