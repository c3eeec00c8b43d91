package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-assistant/zeroindex/configs"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Creates a zeroindex.yaml in the working directory with the default
settings, ready to edit. Refuses to overwrite an existing file unless
--force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Overwrite an existing config file")

	return cmd
}

func runInit(force bool) error {
	if fileExists(cfgPath) && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", cfgPath)
	}

	if err := os.WriteFile(cfgPath, []byte(configs.ConfigTemplate), 0644); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", cfgPath)
	return nil
}
