package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. KERNBENCH_BENCH_TIME.
const EnvPrefix = "KERNBENCH"

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", cfgFile, err)
	}
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("output_dir", "bench_times")
	viper.SetDefault("impl_tag", "go")
	viper.SetDefault("iterations", 1000)
	viper.SetDefault("bench_time", 5)
	viper.SetDefault("entropy_source", "/dev/urandom")
	viper.SetDefault("mean_divisor", "samples")
	viper.SetDefault("lanes", 0)
	viper.SetDefault("discipline", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")

	viper.SetDefault("sizes.crc16", 100000)
	viper.SetDefault("sizes.quicksort", 10000)
	viper.SetDefault("sizes.softmax", 2048)
	viper.SetDefault("sizes.matmul", 256)

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.file", "metrics.prom")

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.type", "sqlite")
	viper.SetDefault("history.dsn", "")
}
