package main

import (
	"fmt"
	"os"

	"github.com/Nomadcxx/invoicecsv/internal/config"
	"github.com/Nomadcxx/invoicecsv/internal/ui"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage invoicecsv configuration",
		Long: `Commands for managing invoicecsv configuration.

The config file is stored at: ~/.config/invoicecsv/config.toml
Every key can be overridden with an INVOICECSV_ environment variable,
e.g. INVOICECSV_EXPORT_OUTPUT_NAME=summary.csv.

Examples:
  invoicecsv config init              # Create default config file
  invoicecsv config show              # Display current configuration
  invoicecsv config path              # Show config file path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}
			if fileExists(path) && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().SaveTo(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			ui.SuccessMsg("Created config file: %s", path)
			ui.Plain("\nNext steps:")
			ui.Plain("  1. Edit the config file to change the output name or server address")
			ui.Plain("  2. Run 'invoicecsv config show' to review settings")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			path, err := configFilePath()
			if err != nil {
				return err
			}

			if !fileExists(path) {
				ui.WarningMsg("No config file at %s, showing defaults", path)
			}
			fmt.Fprint(ui.Output(), cfg.ToTOML())
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}
			ui.Plain("%s", path)
			return nil
		},
	}
}

// configFilePath honors --config before the default location.
func configFilePath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.ConfigPath()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
