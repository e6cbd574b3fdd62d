package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwantia/tagalong/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management utilities",
		Long:  `Manage tagalong configuration files.`,
	}

	cmd.AddCommand(newConfigGenerateCommand())

	return cmd
}

func newConfigGenerateCommand() *cobra.Command {
	var outputDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a default configuration file",
		Long: `Generate config.yaml with every setting at its default value.

An existing file is left untouched unless --overwrite is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, written, err := writeDefaultConfig(outputDir, overwrite)
			if err != nil {
				return err
			}

			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipping %s (file exists, use --overwrite to replace)\n", filename)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", ".", "output directory for configuration files")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing files")

	return cmd
}

func writeDefaultConfig(outputDir string, overwrite bool) (string, bool, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", false, fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(outputDir, configName+".yaml")
	if _, err := os.Stat(filename); err == nil && !overwrite {
		return filename, false, nil
	}

	data, err := yaml.Marshal(config.GetDefault())
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", false, fmt.Errorf("failed to write config file %s: %w", filename, err)
	}

	return filename, true, nil
}
