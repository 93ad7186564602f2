package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gork-labs/tagson/internal/generator"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newGenerateCommand() *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate codec constructors for //tagson:union directives",
		RunE: func(_ *cobra.Command, _ []string) error {
			return Generate(&config)
		},
	}

	cmd.Flags().StringVar(&config.SourcePath, "source", ".", "Directory to scan for //tagson:union directives")
	cmd.Flags().StringVar(&config.OutputPath, "output", "", "Output file or '-' for stdout; empty writes one <type>_tagson.go per union into the source directory")
	cmd.Flags().StringVar(&config.ConfigPath, "config", "", "Path to .tagson.yml config file")

	return cmd
}

// GenerateConfig holds configuration for codec generation.
type GenerateConfig struct {
	SourcePath string
	OutputPath string
	ConfigPath string
}

// configFileName is the config file auto-loaded from the source directory.
const configFileName = ".tagson.yml"

// fileConfig mirrors the .tagson.yml schema.
type fileConfig struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Format string `yaml:"format"`
}

// loadFileConfig reads the config file named explicitly, or the .tagson.yml
// sitting in the source directory. A missing auto-loaded file is fine; a
// missing explicit one is an error.
func loadFileConfig(explicitPath, sourceDir string) (fileConfig, error) {
	var cfg fileConfig

	path := explicitPath
	if path == "" {
		path = filepath.Join(sourceDir, configFileName)
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// loadGenerateConfig fills config from the file. Explicit flags win: file
// values apply only where the flag still holds its default.
func loadGenerateConfig(config *GenerateConfig) error {
	cfg, err := loadFileConfig(config.ConfigPath, config.SourcePath)
	if err != nil {
		return err
	}
	if config.SourcePath == "." && cfg.Source != "" {
		config.SourcePath = cfg.Source
	}
	if config.OutputPath == "" && cfg.Output != "" {
		config.OutputPath = cfg.Output
	}
	return nil
}

// FileSystem abstracts the write operations so tests can capture output.
type FileSystem interface {
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// DefaultFileSystem implements FileSystem with the real filesystem.
type DefaultFileSystem struct{}

func (fs *DefaultFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (fs *DefaultFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

var defaultFileSystem FileSystem = &DefaultFileSystem{}

// Generate scans the source directory and writes the generated codec
// constructors per the provided configuration.
func Generate(config *GenerateConfig) error {
	return generateWithFS(config, defaultFileSystem, os.Stdout)
}

func generateWithFS(config *GenerateConfig, fs FileSystem, stdout io.Writer) error {
	if err := loadGenerateConfig(config); err != nil {
		return err
	}

	specs, err := scanSource(config.SourcePath)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return fmt.Errorf("no //tagson:union directives found in %s", config.SourcePath)
	}

	gen := generator.NewCodecGenerator()

	switch config.OutputPath {
	case "-":
		content, err := gen.GenerateAll(specs)
		if err != nil {
			return err
		}
		_, err = stdout.Write(content)
		return err
	case "":
		// Colocate one file per union next to its sources.
		for _, spec := range specs {
			content, err := gen.Generate(spec)
			if err != nil {
				return err
			}
			path := filepath.Join(config.SourcePath, generator.FileNameFor(spec))
			if err := writeFileWithFS(path, content, fs); err != nil {
				return err
			}
		}
		return nil
	default:
		content, err := gen.GenerateAll(specs)
		if err != nil {
			return err
		}
		return writeFileWithFS(config.OutputPath, content, fs)
	}
}

func writeFileWithFS(path string, content []byte, fs FileSystem) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := fs.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func scanSource(dir string) ([]generator.UnionSpec, error) {
	scanner := generator.NewUnionScanner()
	if err := scanner.ParseDirectory(dir); err != nil {
		return nil, err
	}
	return scanner.Scan()
}
