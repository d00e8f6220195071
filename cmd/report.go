package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entericlab/entericreport/internal/report"
)

var (
	repDetectionPath string
	repCulturePath   string
	repOutputDir     string
	repChartsDir     string
	repTopN          int
	repAssay         string
	repTarget        string
	repExport        bool
	repFormat        string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the full analysis and print the summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyReportFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		progress("loading %s and %s", cfg.DetectionPath, cfg.CulturePath)
		res, err := report.Run(cfg)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			fmt.Fprintln(os.Stderr, "⚠ Warning:", w)
		}
		fmt.Print(res.Render())
		return nil
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&repDetectionPath, "tac", "", "molecular panel CSV (overrides config)")
	f.StringVar(&repCulturePath, "culture", "", "culture/AMR CSV (overrides config)")
	f.StringVar(&repOutputDir, "out", "", "output directory for exports (overrides config)")
	f.StringVar(&repChartsDir, "charts", "", "output directory for figures (overrides config)")
	f.IntVar(&repTopN, "top", 0, "number of targets in the prevalence chart (overrides config)")
	f.StringVar(&repAssay, "concordance-assay", "", "culture assay for the concordance table (overrides config)")
	f.StringVar(&repTarget, "concordance-target", "", "panel target for the concordance table (overrides config)")
	f.BoolVar(&repExport, "export", false, "write summary tables to the output directory")
	f.StringVar(&repFormat, "format", "", "export format: csv|parquet|both (overrides config)")
	rootCmd.AddCommand(reportCmd)
}

func applyReportFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("tac") {
		cfg.DetectionPath = repDetectionPath
	}
	if f.Changed("culture") {
		cfg.CulturePath = repCulturePath
	}
	if f.Changed("out") {
		cfg.OutputDir = repOutputDir
	}
	if f.Changed("charts") {
		cfg.ChartsDir = repChartsDir
	}
	if f.Changed("top") {
		cfg.TopN = repTopN
	}
	if f.Changed("concordance-assay") {
		cfg.ConcordanceAssay = repAssay
	}
	if f.Changed("concordance-target") {
		cfg.ConcordanceTarget = repTarget
	}
	if f.Changed("export") {
		cfg.ExportEnabled = repExport
	}
	if f.Changed("format") {
		cfg.ExportFormat = repFormat
	}
}
