package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// InputCfg holds source settings. Path "-" reads stdin.
type InputCfg struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"` // "lines" | "archive"
	Follow bool   `mapstructure:"follow"`
}

// FilterCfg controls normalization and the duplicate policy.
type FilterCfg struct {
	CaseSensitive       bool    `mapstructure:"case_sensitive"`
	TrimWhitespace      bool    `mapstructure:"trim_whitespace"`
	StripURLs           bool    `mapstructure:"strip_urls"`
	StripMentions       bool    `mapstructure:"strip_mentions"`
	FoldArabic          bool    `mapstructure:"fold_arabic"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"` // 0 = exact match
	WindowSize          int     `mapstructure:"window_size"`
}

// DedupeCfg controls cross-run state.
type DedupeCfg struct {
	Persist        bool   `mapstructure:"persist"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	RetentionDays  int    `mapstructure:"retention_days"`
	ResumeFromSink bool   `mapstructure:"resume_from_sink"`
}

// OutputCfg holds sink settings. Path "-" writes stdout.
type OutputCfg struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

// S3Cfg configures the optional run archive.
type S3Cfg struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// LoggingCfg controls output formatting and level.
type LoggingCfg struct {
	Level  string `mapstructure:"level"`  // debug|info|warn|error
	Format string `mapstructure:"format"` // json|console
}

// Config is the root configuration.
type Config struct {
	Input   InputCfg   `mapstructure:"input"`
	Filter  FilterCfg  `mapstructure:"filter"`
	Dedupe  DedupeCfg  `mapstructure:"dedupe"`
	Output  OutputCfg  `mapstructure:"output"`
	S3      S3Cfg      `mapstructure:"s3"`
	Logging LoggingCfg `mapstructure:"logging"`
}

// Load reads config from a file and validates it. Invalid values fail here,
// never get clamped.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FEEDSIFT")
	v.AutomaticEnv()

	v.SetDefault("input.path", "-")
	v.SetDefault("input.format", "lines")
	v.SetDefault("input.follow", false)

	v.SetDefault("filter.case_sensitive", false)
	v.SetDefault("filter.trim_whitespace", true)
	v.SetDefault("filter.strip_urls", false)
	v.SetDefault("filter.strip_mentions", false)
	v.SetDefault("filter.fold_arabic", false)
	v.SetDefault("filter.similarity_threshold", 0.0)
	v.SetDefault("filter.window_size", 0)

	v.SetDefault("dedupe.persist", false)
	v.SetDefault("dedupe.sqlite_path", "./data/feedsift.db")
	v.SetDefault("dedupe.retention_days", 0)
	v.SetDefault("dedupe.resume_from_sink", false)

	v.SetDefault("output.path", "-")
	v.SetDefault("output.format", "lines")

	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.prefix", "feedsift")
	v.SetDefault("s3.use_ssl", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate applies the fail-fast rules shared by both binaries.
func (c Config) Validate() error {
	if c.Input.Format != "lines" && c.Input.Format != "archive" {
		return fmt.Errorf("input.format %q: must be lines or archive", c.Input.Format)
	}
	if c.Output.Format != "lines" && c.Output.Format != "archive" {
		return fmt.Errorf("output.format %q: must be lines or archive", c.Output.Format)
	}
	if c.Input.Path == "" {
		return fmt.Errorf("input.path must be set")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must be set")
	}
	if t := c.Filter.SimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("filter.similarity_threshold %v: must be in [0,1]", t)
	}
	if c.Filter.WindowSize < 0 {
		return fmt.Errorf("filter.window_size %d: must be positive", c.Filter.WindowSize)
	}
	if c.Filter.WindowSize > 0 && c.Filter.SimilarityThreshold == 0 {
		return fmt.Errorf("filter.window_size requires filter.similarity_threshold")
	}
	if c.Input.Follow && c.Input.Format != "lines" {
		return fmt.Errorf("input.follow requires input.format lines")
	}
	if c.Input.Follow && c.Input.Path == "-" {
		return fmt.Errorf("input.follow requires a file input.path")
	}
	if c.Dedupe.RetentionDays < 0 {
		return fmt.Errorf("dedupe.retention_days %d: must not be negative", c.Dedupe.RetentionDays)
	}
	if c.Dedupe.Persist && c.Filter.SimilarityThreshold > 0 {
		return fmt.Errorf("dedupe.persist only supports exact matching; unset filter.similarity_threshold")
	}
	if c.Dedupe.Persist && c.Dedupe.SQLitePath == "" {
		return fmt.Errorf("dedupe.sqlite_path must be set when dedupe.persist is on")
	}
	if c.Dedupe.ResumeFromSink && c.Output.Path == "-" {
		return fmt.Errorf("dedupe.resume_from_sink requires a file output.path")
	}
	if c.S3.Enabled {
		if c.S3.Endpoint == "" || c.S3.Bucket == "" {
			return fmt.Errorf("s3.endpoint and s3.bucket must be set when s3.enabled is on")
		}
		if c.Output.Path == "-" {
			return fmt.Errorf("s3 archive requires a file output.path")
		}
	}
	return nil
}
