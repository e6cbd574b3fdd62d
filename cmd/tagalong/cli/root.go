package cli

import (
	"context"
	"fmt"

	"github.com/mwantia/tagalong/internal/agent"
	"github.com/mwantia/tagalong/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "tagalong <store-path> <root-directory>",
		Short: "Catalog scanned files into dated documents",
		Long: `Index every file below <root-directory> by content hash into the SQLite
store at <store-path>, then group files stored as YYYY/MM/DD/<name> into
documents tagged with their sender.

The store is created and migrated on first use. Scanned files are never
modified.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(path)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			return agent.NewAgent(cfg).Run(context.Background(), args[0], args[1])
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().Bool("no-color", false, "Disables colored command output")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.no_color", cmd.PersistentFlags().Lookup("no-color"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)
	cmd.SetVersionTemplate("tagalong {{.Version}}\n")

	return cmd
}
