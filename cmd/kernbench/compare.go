package main

import (
	"errors"
	"fmt"

	"kernbench/internal/benchmark"
	"kernbench/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	compareBaseTag       string
	compareTag           string
	compareThreshold     float64
	compareFailThreshold float64
)

var compareCmd = &cobra.Command{
	Use:   "compare <base_run> [run]",
	Short: "Compare mean times between two runs or two implementations",
	Long: `Matches records by kernel (and size for adaptive kernels) and prints the
change in mean from the base set to the current set.

With one run id, --base-tag and --tag select two implementations within that
run, e.g. "kernbench compare r1 --base-tag c --tag go".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseRun, run := args[0], args[0]
		if len(args) == 2 {
			run = args[1]
		}
		if baseRun == run && (compareBaseTag == "" || compareTag == "" || compareBaseTag == compareTag) {
			return errors.New("comparing a run with itself requires two different tags (--base-tag and --tag)")
		}

		store, err := newStoreFunc(viper.GetString("output_dir"))
		if err != nil {
			return err
		}
		prev, err := store.LoadRun(baseRun)
		if err != nil {
			return fmt.Errorf("failed to load base run %s: %w", baseRun, err)
		}
		curr, err := store.LoadRun(run)
		if err != nil {
			return fmt.Errorf("failed to load run %s: %w", run, err)
		}

		comparisons := benchmark.Compare(
			benchmark.FilterTag(prev, compareBaseTag),
			benchmark.FilterTag(curr, compareTag),
		)
		p := ui.NewPrinter(cmd.OutOrStdout())
		p.Title(fmt.Sprintf("%s%s -> %s%s", baseRun, tagSuffix(compareBaseTag), run, tagSuffix(compareTag)))
		p.Comparisons(comparisons, compareThreshold)

		if compareFailThreshold > 0 {
			var regressed int
			for _, c := range comparisons {
				if c.Regressed(compareFailThreshold) {
					regressed++
				}
			}
			if regressed > 0 {
				return fmt.Errorf("%d record(s) regressed by more than %.1f%%", regressed, compareFailThreshold)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareBaseTag, "base-tag", "", "Only use base records with this implementation tag")
	compareCmd.Flags().StringVar(&compareTag, "tag", "", "Only use current records with this implementation tag")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 10.0, "Percentage change highlighted as regression or improvement")
	compareCmd.Flags().Float64Var(&compareFailThreshold, "fail-threshold", 0, "Exit non-zero when any mean regresses by more than this percentage")
}

func tagSuffix(tag string) string {
	if tag == "" {
		return ""
	}
	return "[" + tag + "]"
}
