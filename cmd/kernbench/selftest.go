package main

import (
	"kernbench/internal/suite"
	"kernbench/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var selftestKernels []string

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run only the kernels' known-answer checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := suite.Lookup(selftestKernels)
		if err != nil {
			return err
		}
		opts := suite.Options{Lanes: viper.GetInt("lanes")}

		gateErr := suite.Gate(ks, opts)
		ui.NewPrinter(cmd.OutOrStdout()).SelfTest(ks, gateErr)
		return gateErr
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
	selftestCmd.Flags().StringSliceVarP(&selftestKernels, "kernels", "k", nil, "Kernels or families to check (default all)")
}
