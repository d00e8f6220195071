package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Run is the full configuration of a report run: where the two cleaned
// datasets live, where artifacts go, and the knobs of the summary stages.
// Everything is explicit here; no stage reads process-wide defaults.
type Run struct {
	DetectionPath string `mapstructure:"detection_path" yaml:"detection_path"`
	CulturePath   string `mapstructure:"culture_path" yaml:"culture_path"`
	OutputDir     string `mapstructure:"output_dir" yaml:"output_dir"`
	ChartsDir     string `mapstructure:"charts_dir" yaml:"charts_dir"`

	TopN int `mapstructure:"top_n" yaml:"top_n"`

	// Concordance compares one culture assay against one panel target.
	ConcordanceAssay  string `mapstructure:"concordance_assay" yaml:"concordance_assay"`
	ConcordanceTarget string `mapstructure:"concordance_target" yaml:"concordance_target"`

	ExportEnabled bool   `mapstructure:"export_enabled" yaml:"export_enabled"`
	ExportFormat  string `mapstructure:"export_format" yaml:"export_format"` // csv|parquet|both
}

// Save writes the given configuration to cfgFile. If cfgFile is empty, it
// writes to ~/.entericreport/config.yaml, creating the directory if needed.
func Save(c *Run, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".entericreport")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Run, error) {
	v := viper.New()
	v.SetEnvPrefix("ENTERIC")
	v.AutomaticEnv()

	v.SetDefault("detection_path", filepath.Join("clean_data", "tac_data_cleaned.csv"))
	v.SetDefault("culture_path", filepath.Join("clean_data", "microbial_data_cleaned.csv"))
	v.SetDefault("output_dir", "output")
	v.SetDefault("charts_dir", filepath.Join("output", "figures"))
	v.SetDefault("top_n", 20)
	v.SetDefault("concordance_assay", "ec_detect")
	v.SetDefault("concordance_target", "E_coli")
	v.SetDefault("export_enabled", false)
	v.SetDefault("export_format", "csv")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".entericreport")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Run
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no stage can act on.
func (c *Run) Validate() error {
	switch c.ExportFormat {
	case "csv", "parquet", "both":
	default:
		return fmt.Errorf("unsupported export_format %q (use csv|parquet|both)", c.ExportFormat)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must be non-negative, got %d", c.TopN)
	}
	switch c.ConcordanceAssay {
	case "ec_detect", "ar_ec_detect", "tc_detect", "ar_tc_detect":
	default:
		return fmt.Errorf("unsupported concordance_assay %q", c.ConcordanceAssay)
	}
	return nil
}
