package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"kernbench/internal/benchmark"
	"kernbench/internal/config"
	"kernbench/internal/entropy"
	"kernbench/internal/history"
	"kernbench/internal/kernels"
	"kernbench/internal/suite"
	"kernbench/internal/telemetry"
	"kernbench/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runKernels []string

// Factories are package variables so tests can substitute them.
var (
	newStoreFunc = func(outputDir string) (benchmark.Store, error) {
		s, err := benchmark.NewFileStore(outputDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	newHistoryFunc = func(cfg history.StoreConfig) (history.Store, error) {
		return history.NewStore(cfg)
	}
	openInputsFunc = func(source string) (benchmark.InputSource, error) {
		g, err := entropy.Open(source)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	newRunnerFunc = func(cfg benchmark.Config, store benchmark.Store, gate func() error, open func() (benchmark.InputSource, error), sink benchmark.HistorySink) benchmark.Runner {
		r := benchmark.NewPipelineRunner(cfg, store, gate, open)
		r.History = sink
		return r
	}
)

var runCmd = &cobra.Command{
	Use:   "run <run_id> [duration_seconds]",
	Short: "Self-test, then time the selected kernels",
	Long: `Runs the correctness gate, draws every input from the entropy source and
times each kernel. Records land in <output_dir>/<run_id>/ as JSON, alongside a
Prometheus textfile with the run's metrics.

duration_seconds is the time budget of adaptive-duration kernels and falls
back to bench_time from the configuration.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("missing run id: usage kernbench run <run_id> [duration_seconds]")
		}
		if len(args) > 2 {
			return fmt.Errorf("accepts at most 2 args, received %d", len(args))
		}
		return nil
	},
	RunE: runBenchmarks,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVarP(&runKernels, "kernels", "k", nil, "Kernels or families to run (default all)")
	runCmd.Flags().String("discipline", "", "Override sampling for every kernel: fixed or adaptive")
	runCmd.Flags().Int("iterations", 0, "Iterations for fixed-count kernels")
	runCmd.Flags().String("tag", "", "Implementation tag used in record file names")
	runCmd.Flags().String("source", "", "Entropy source: a device path or 'getrandom'")
	runCmd.Flags().String("mean-divisor", "", "Mean denominator: samples or input_size")
	runCmd.Flags().Int("lanes", 0, "Lane width for softmax_simd (0 detects from the CPU)")

	viper.BindPFlag("discipline", runCmd.Flags().Lookup("discipline"))
	viper.BindPFlag("iterations", runCmd.Flags().Lookup("iterations"))
	viper.BindPFlag("impl_tag", runCmd.Flags().Lookup("tag"))
	viper.BindPFlag("entropy_source", runCmd.Flags().Lookup("source"))
	viper.BindPFlag("mean_divisor", runCmd.Flags().Lookup("mean-divisor"))
	viper.BindPFlag("lanes", runCmd.Flags().Lookup("lanes"))
}

func runBenchmarks(cmd *cobra.Command, args []string) error {
	if err := config.ValidateConfig(); err != nil {
		return err
	}
	cfg := config.FromViper()

	runID := args[0]
	if len(args) == 2 {
		d, err := config.ParseBenchTime(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration_seconds: %w", err)
		}
		cfg.BenchTime = d
	}
	if cfg.BenchTime <= 0 {
		return fmt.Errorf("bench time must be positive, got %v", cfg.BenchTime)
	}

	divisor, err := benchmark.ParseMeanDivisor(cfg.MeanDivisor)
	if err != nil {
		return err
	}
	opts, err := suiteOptions(cfg)
	if err != nil {
		return err
	}
	ks, err := suite.Lookup(runKernels)
	if err != nil {
		return err
	}
	workloads, err := suite.Build(ks, opts)
	if err != nil {
		return err
	}

	store, err := newStoreFunc(cfg.OutputDir)
	if err != nil {
		return err
	}

	var sink benchmark.HistorySink
	if cfg.HistoryEnabled {
		hs, err := newHistoryFunc(history.StoreConfig{Type: cfg.HistoryType, ConnectionString: cfg.HistoryDSN})
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer hs.Close()
		sink = history.Recorder{Store: hs}
	}

	bcfg := benchmark.Config{
		Iterations:  cfg.Iterations,
		Budget:      cfg.BenchTime,
		Tag:         cfg.ImplTag,
		MeanDivisor: divisor,
	}
	if cfg.MetricsEnabled {
		bcfg.MetricsFile = cfg.MetricsFile
	}

	runner := newRunnerFunc(bcfg, store,
		func() error { return suite.Gate(ks, opts) },
		func() (benchmark.InputSource, error) { return openInputsFunc(cfg.EntropySource) },
		sink,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	telemetry.LogInfo("Starting run", "run_id", runID, "kernels", strings.Join(kernelNames(ks), ","),
		"bench_time", cfg.BenchTime.String(), "cpu_lanes", kernels.DetectLaneWidth(), "isa", kernels.LaneFeatures())
	results, err := runner.Run(ctx, runID, workloads)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Title(fmt.Sprintf("run %s (%s)", runID, cfg.ImplTag))
	for _, r := range results {
		p.Result(r)
	}
	telemetry.LogInfof("Run %s complete: %d records in %s", runID, len(results), store.RunDir(runID))
	return nil
}

// suiteOptions maps the resolved configuration onto workload options.
func suiteOptions(cfg config.Config) (suite.Options, error) {
	opts := suite.Options{Sizes: cfg.Sizes, Lanes: cfg.Lanes}
	if cfg.Discipline != "" {
		d, err := benchmark.ParseDiscipline(strings.ToLower(cfg.Discipline))
		if err != nil {
			return suite.Options{}, err
		}
		opts.Discipline = d
	}
	return opts, nil
}

func kernelNames(ks []suite.Kernel) []string {
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.Name
	}
	return names
}
