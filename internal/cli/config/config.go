// Package config loads the CLI configuration from all sources (defaults,
// config file, environment, flags) and produces the validated engine
// options plus the logger for the run.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jjalcantara1/data-analysis-agent/pkg/engine"
)

const (
	// EnvPrefix namespaces environment overrides, e.g.
	// DATA_ANALYSIS_AGENT_CONCURRENCY=4.
	EnvPrefix = "DATA_ANALYSIS_AGENT"
	// DefaultConfigName is the config file base name searched in standard
	// locations when --config is not given.
	DefaultConfigName = "data-analysis-agent"
)

// Config is the fully resolved CLI configuration.
type Config struct {
	DatasetPath string // Cleaned dataset artifact (.json or .csv)
	PlanPath    string // Analysis plan artifact (.json, .yaml or .yml)
	OutputPath  string // Directory for report.json and charts/
	Verbose     bool
	Engine      engine.Options
}

// Load merges defaults, the optional config file, DATA_ANALYSIS_AGENT_*
// environment variables and command-line flags (highest precedence), then
// validates the result. The returned logger is configured for the chosen
// verbosity and should be used for all subsequent output.
func Load(cfgFile string, verbose bool, flags *pflag.FlagSet) (Config, *slog.Logger, error) {
	var cfg Config
	v := viper.New()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(logHandler)

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			logger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			return cfg, logger, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		logger.Debug("Using configuration file", slog.String("path", v.ConfigFileUsed()))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return cfg, logger, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	cfg.DatasetPath = v.GetString("dataset")
	cfg.PlanPath = v.GetString("plan")
	cfg.OutputPath = v.GetString("output")
	cfg.Verbose = verbose || v.GetBool("verbose")

	cfg.Engine = engine.Options{
		RenderCharts:        v.GetBool("renderCharts"),
		EntryTimeout:        v.GetDuration("entryTimeout"),
		Concurrency:         v.GetInt("concurrency"),
		TopN:                v.GetInt("topN"),
		PercentDigits:       v.GetInt("percentDigits"),
		StatDigits:          v.GetInt("statDigits"),
		MultiValueColumns:   v.GetStringSlice("multiValueColumns"),
		MultiValueSeparator: v.GetString("multiValueSeparator"),
		Logger:              logHandler,
	}

	if err := validate(&cfg); err != nil {
		return cfg, logger, err
	}
	cfg.Engine.ChartDir = filepath.Join(cfg.OutputPath, "charts")
	return cfg, logger, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", "analysis_outputs")
	v.SetDefault("renderCharts", true)
	v.SetDefault("entryTimeout", 60*time.Second)
	v.SetDefault("concurrency", 0)
	v.SetDefault("topN", 10)
	v.SetDefault("percentDigits", 1)
	v.SetDefault("statDigits", 2)
	v.SetDefault("multiValueColumns", []string{})
	v.SetDefault("multiValueSeparator", ",")
}

func validate(cfg *Config) error {
	if cfg.DatasetPath == "" {
		return fmt.Errorf("%w: dataset path is required", engine.ErrConfigValidation)
	}
	if _, err := os.Stat(cfg.DatasetPath); err != nil {
		return fmt.Errorf("%w: cannot access dataset '%s': %v", engine.ErrConfigValidation, cfg.DatasetPath, err)
	}
	if cfg.PlanPath == "" {
		return fmt.Errorf("%w: plan path is required", engine.ErrConfigValidation)
	}
	if _, err := os.Stat(cfg.PlanPath); err != nil {
		return fmt.Errorf("%w: cannot access plan '%s': %v", engine.ErrConfigValidation, cfg.PlanPath, err)
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("%w: output path is required", engine.ErrConfigValidation)
	}
	if err := os.MkdirAll(cfg.OutputPath, 0o755); err != nil {
		return fmt.Errorf("%w: cannot create output directory '%s': %v", engine.ErrConfigValidation, cfg.OutputPath, err)
	}
	return nil
}
