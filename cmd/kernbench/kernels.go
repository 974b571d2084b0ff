package main

import (
	"kernbench/internal/config"
	"kernbench/internal/suite"
	"kernbench/internal/ui"

	"github.com/spf13/cobra"
)

var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "List the available kernels with their sizes and disciplines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := suiteOptions(config.FromViper())
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).Kernels(suite.Catalog(), opts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kernelsCmd)
}
