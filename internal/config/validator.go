package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// MaxLanes mirrors the widest lane count SoftmaxLanes accepts.
const MaxLanes = 16

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	if viper.IsSet("iterations") {
		// One delta needs two samples.
		if n := viper.GetInt("iterations"); n < 2 {
			errors = append(errors, fmt.Sprintf("iterations must be at least 2, got: %d", n))
		}
	}

	if viper.IsSet("bench_time") {
		raw := viper.GetString("bench_time")
		d, err := ParseBenchTime(raw)
		if err != nil {
			errors = append(errors, fmt.Sprintf("bench_time must be seconds or a duration, got: %q", raw))
		} else if d <= 0 {
			errors = append(errors, fmt.Sprintf("bench_time must be positive, got: %v", d))
		}
	}

	for _, f := range Families {
		key := "sizes." + f
		if viper.IsSet(key) {
			if n := viper.GetInt(key); n <= 0 {
				errors = append(errors, fmt.Sprintf("%s must be positive, got: %d", key, n))
			}
		}
	}

	if viper.IsSet("mean_divisor") {
		switch v := viper.GetString("mean_divisor"); v {
		case "samples", "input_size":
		default:
			errors = append(errors, fmt.Sprintf("mean_divisor must be samples or input_size, got: %q", v))
		}
	}

	if viper.IsSet("discipline") {
		switch v := strings.ToLower(viper.GetString("discipline")); v {
		case "", "fixed", "adaptive":
		default:
			errors = append(errors, fmt.Sprintf("discipline must be fixed or adaptive, got: %q", v))
		}
	}

	if viper.IsSet("lanes") {
		if n := viper.GetInt("lanes"); n < 0 || n > MaxLanes {
			errors = append(errors, fmt.Sprintf("lanes must be between 0 and %d, got: %d", MaxLanes, n))
		}
	}

	if viper.IsSet("impl_tag") {
		tag := viper.GetString("impl_tag")
		if tag == "" || strings.ContainsAny(tag, `/\_`) {
			errors = append(errors, fmt.Sprintf("impl_tag must be non-empty without '/', '\\' or '_', got: %q", tag))
		}
	}

	if viper.GetBool("history.enabled") && viper.IsSet("history.type") {
		switch v := strings.ToLower(viper.GetString("history.type")); v {
		case "sqlite", "sqlite3", "postgres", "postgresql":
		default:
			errors = append(errors, fmt.Sprintf("history.type must be sqlite or postgres, got: %q", v))
		}
	}

	if len(errors) > 0 {
		errorMsg := errors[0]
		for i := 1; i < len(errors); i++ {
			errorMsg += "\n  " + errors[i]
		}
		return fmt.Errorf("configuration validation failed:\n  %s", errorMsg)
	}

	return nil
}
