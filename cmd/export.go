package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entericlab/entericreport/internal/report"
)

var (
	expOutputDir string
	expFormat    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the analysis and write the summary tables",
	Long: `Runs the same pipeline as report with exports enabled, writing the
prevalence, burden, and AMR profile tables plus a run manifest to the
output directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.ExportEnabled = true
		if cmd.Flags().Changed("out") {
			cfg.OutputDir = expOutputDir
		}
		if cmd.Flags().Changed("format") {
			cfg.ExportFormat = expFormat
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		res, err := report.Run(cfg)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Fprintln(os.Stderr, "⚠ Warning:", w)
		}
		for _, p := range res.Exports {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&expOutputDir, "out", "", "output directory (overrides config)")
	f.StringVar(&expFormat, "format", "", "export format: csv|parquet|both (overrides config)")
	rootCmd.AddCommand(exportCmd)
}
