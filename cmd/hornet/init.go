package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HueCodes/hornet/internal/config"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate default config file",
		Long:  "Generate a default .hornet.yaml configuration file in the current directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			if configFile == "" {
				configFile = config.DefaultFile
			}

			if _, err := os.Stat(configFile); err == nil {
				return fmt.Errorf("%s already exists", configFile)
			}

			if err := os.WriteFile(configFile, []byte(config.Template), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", configFile, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFile)
			return nil
		},
	}

	return cmd
}
