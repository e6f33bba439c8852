package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todo/internal/config"
	"todo/internal/errors"
)

func (r *RootCommand) configCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// Replaces the root hook: config commands never open the store.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.loadConfig(cmd)
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration as YAML",
		Long: `Write the configuration in effect (config file, environment and flags
combined) to a YAML file that later runs pick up.`,
		Args: cobra.NoArgs,
		RunE: r.writeConfig,
	}
	initCmd.Flags().String("path", "", "File to write (default: --config, else ~/.todo/config.yaml)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}

func (r *RootCommand) writeConfig(cmd *cobra.Command, _ []string) error {
	eh := NewErrorHandler()
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		path, _ = r.cmd.PersistentFlags().GetString("config")
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if force, _ := cmd.Flags().GetBool("force"); !force {
		if _, err := os.Stat(path); err == nil {
			return eh.Handle("write config", errors.NewInvalidInputError("path", path, "file exists, pass --force to overwrite"))
		}
	}
	if err := config.Save(path, r.config); err != nil {
		return eh.Handle("write config", err)
	}
	r.log.Debug("config written", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", path)
	return nil
}
