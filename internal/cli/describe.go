package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDescribeCommand() *cobra.Command {
	var config DescribeConfig

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the detected union specs without generating code",
		RunE: func(_ *cobra.Command, _ []string) error {
			return Describe(&config)
		},
	}

	cmd.Flags().StringVar(&config.SourcePath, "source", ".", "Directory to scan for //tagson:union directives")
	cmd.Flags().StringVar(&config.Format, "format", "json", "Output format: json or yaml")
	cmd.Flags().StringVar(&config.ConfigPath, "config", "", "Path to .tagson.yml config file")

	return cmd
}

// DescribeConfig holds configuration for the describe command.
type DescribeConfig struct {
	SourcePath string
	Format     string
	ConfigPath string
}

func loadDescribeConfig(config *DescribeConfig) error {
	cfg, err := loadFileConfig(config.ConfigPath, config.SourcePath)
	if err != nil {
		return err
	}
	if config.SourcePath == "." && cfg.Source != "" {
		config.SourcePath = cfg.Source
	}
	if config.Format == "json" && cfg.Format != "" {
		config.Format = cfg.Format
	}
	return nil
}

// Describe scans the source directory and prints the detected union specs.
func Describe(config *DescribeConfig) error {
	return describeWithWriter(config, os.Stdout)
}

func describeWithWriter(config *DescribeConfig, w io.Writer) error {
	if err := loadDescribeConfig(config); err != nil {
		return err
	}

	specs, err := scanSource(config.SourcePath)
	if err != nil {
		return err
	}

	switch config.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(specs)
	case "yaml", "yml":
		data, err := yaml.Marshal(specs)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", config.Format)
	}
}
