package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphseek/graphseek/configs"
	"github.com/graphseek/graphseek/internal/output"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write an annotated graphseek.yaml to the current directory.

Examples:
  graphseek init
  graphseek init --config ./custom.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			if err := os.WriteFile(configPath, []byte(configs.ConfigTemplate), 0o644); err != nil {
				return err
			}
			output.New(cmd.OutOrStdout()).Successf("Wrote %s", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}
