// Package config provides configuration loading and validation for redblack.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/redblack/internal/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/randseq"
	"github.com/Sumatoshi-tech/redblack/pkg/render"
	"github.com/Sumatoshi-tech/redblack/pkg/sorting"
)

// Sentinel validation errors.
var (
	ErrInvalidLength      = errors.New("sequence length must not be negative")
	ErrInvalidRange       = errors.New("sequence min must not exceed max")
	ErrInvalidPattern     = errors.New("invalid sequence pattern")
	ErrInvalidFormat      = errors.New("invalid render format")
	ErrInvalidAlgorithm   = errors.New("invalid sort algorithm")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// Default configuration values.
const (
	defaultLength      = 20
	defaultPattern     = string(randseq.PatternRandom)
	defaultFormat      = string(render.FormatText)
	defaultAlgorithm   = sorting.AlgorithmHeap
	defaultLogLevel    = "info"
	defaultLogFormat   = LogFormatText
	defaultEnvironment = "dev"

	envPrefix  = "REDBLACK"
	configName = "redblack"

	keyOTLPHeaders = "observability.otlp_headers"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration for redblack.
type Config struct {
	Sequence      SequenceConfig      `mapstructure:"sequence"`
	Render        RenderConfig        `mapstructure:"render"`
	Sort          SortConfig          `mapstructure:"sort"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// SequenceConfig controls generated input sequences.
type SequenceConfig struct {
	Pattern string `mapstructure:"pattern"`
	Length  int    `mapstructure:"length"`
	Min     int    `mapstructure:"min"`
	Max     int    `mapstructure:"max"`
	// Seed makes sequences reproducible. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed"`
}

// RenderConfig controls how trees are drawn.
type RenderConfig struct {
	Format string `mapstructure:"format"`
	// Output is a file path. Empty means stdout, a .lz4 suffix compresses.
	Output  string `mapstructure:"output"`
	NoColor bool   `mapstructure:"no_color"`
}

// SortConfig controls the sort command.
type SortConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	Trace     bool   `mapstructure:"trace"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds OpenTelemetry and Prometheus settings.
type ObservabilityConfig struct {
	OTLPEndpoint string            `mapstructure:"otlp_endpoint"`
	OTLPHeaders  map[string]string `mapstructure:"otlp_headers"`
	Environment  string            `mapstructure:"environment"`
	// MetricsAddr is where the bench command serves /metrics. Empty disables it.
	MetricsAddr  string  `mapstructure:"metrics_addr"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty path searches redblack.yaml in the usual locations; a missing file
// is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	// Set defaults.
	setDefaults(viperCfg)

	// Read config file.
	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/redblack")
	}

	// Read environment variables.
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map-valued keys are not picked up by AutomaticEnv; the env form is
	// "key=value,key=value".
	bindErr := viperCfg.BindEnv(keyOTLPHeaders)
	if bindErr != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", keyOTLPHeaders, bindErr)
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		otlpHeadersHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

var headersType = reflect.TypeOf(map[string]string(nil))

// otlpHeadersHook decodes a "key=value,key=value" string into a header map.
func otlpHeadersHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != headersType {
		return data, nil
	}

	raw, _ := data.(string)

	return observability.ParseOTLPHeaders(raw), nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Sequence defaults.
	viperCfg.SetDefault("sequence.length", defaultLength)
	viperCfg.SetDefault("sequence.min", randseq.DefaultMin)
	viperCfg.SetDefault("sequence.max", randseq.DefaultMax)
	viperCfg.SetDefault("sequence.seed", 0)
	viperCfg.SetDefault("sequence.pattern", defaultPattern)

	// Render defaults.
	viperCfg.SetDefault("render.format", defaultFormat)
	viperCfg.SetDefault("render.output", "")
	viperCfg.SetDefault("render.no_color", false)

	// Sort defaults.
	viperCfg.SetDefault("sort.algorithm", defaultAlgorithm)
	viperCfg.SetDefault("sort.trace", false)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", defaultLogLevel)
	viperCfg.SetDefault("logging.format", defaultLogFormat)

	// Observability defaults.
	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.environment", defaultEnvironment)
	viperCfg.SetDefault("observability.sample_ratio", 0.0)
	viperCfg.SetDefault("observability.metrics_addr", "")
}

// Validate checks value ranges and enumerations. Commands call it again after
// applying flag overrides.
func (config *Config) Validate() error {
	if config.Sequence.Length < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, config.Sequence.Length)
	}

	if config.Sequence.Min > config.Sequence.Max {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, config.Sequence.Min, config.Sequence.Max)
	}

	if _, err := randseq.ParsePattern(config.Sequence.Pattern); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, config.Sequence.Pattern)
	}

	if _, err := render.ParseFormat(config.Render.Format); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, config.Render.Format)
	}

	if !slices.Contains(sorting.Names(), config.Sort.Algorithm) {
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, config.Sort.Algorithm)
	}

	if _, err := config.LogLevel(); err != nil {
		return err
	}

	if config.Logging.Format != LogFormatText && config.Logging.Format != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Observability.SampleRatio < 0 || config.Observability.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Observability.SampleRatio)
	}

	return nil
}

// LogLevel parses Logging.Level.
func (config *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(config.Logging.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	return level, nil
}
