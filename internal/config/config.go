package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PanelNest/internal/gcode"
	"github.com/piwi3910/PanelNest/internal/model"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
)

// Config aggregates runtime configuration resolved from multiple sources.
type Config struct {
	Kerf             float64 `yaml:"kerf"`
	ConsiderMaterial bool    `yaml:"consider_material"`
	PreserveGrain    bool    `yaml:"preserve_grain"`
	ParallelGroups   bool    `yaml:"parallel_groups"`

	LogLevel string `yaml:"log_level"`
	DBPath   string `yaml:"db_path"`

	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	IdleTimeout          time.Duration `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	RateLimitRPS         float64       `yaml:"-"`
	RateLimitBurst       int           `yaml:"-"`

	GCode gcode.Settings `yaml:"gcode"`
}

// yamlConfig mirrors the file layout. Pointers distinguish unset keys from
// explicit zero values.
type yamlConfig struct {
	Optimizer struct {
		Kerf             *float64 `yaml:"kerf"`
		ConsiderMaterial *bool    `yaml:"consider_material"`
		PreserveGrain    *bool    `yaml:"preserve_grain"`
		ParallelGroups   *bool    `yaml:"parallel_groups"`
	} `yaml:"optimizer"`
	LogLevel string `yaml:"log_level"`
	DBPath   string `yaml:"db_path"`
	Server   struct {
		Port                 string `yaml:"port"`
		ShutdownGracePeriod  string `yaml:"shutdown_grace_period"`
		ReadHeaderTimeout    string `yaml:"read_header_timeout"`
		WriteTimeout         string `yaml:"write_timeout"`
		IdleTimeout          string `yaml:"idle_timeout"`
		EnableRequestLogging *bool  `yaml:"enable_request_logging"`
		RateLimit            struct {
			RPS   *float64 `yaml:"rps"`
			Burst *int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	GCode *gcode.Settings `yaml:"gcode"`
}

// CLIOverrides holds command-line flag values. Nil fields were not set.
type CLIOverrides struct {
	ConfigFile       string
	Kerf             *float64
	ConsiderMaterial *bool
	PreserveGrain    *bool
	LogLevel         *string
	DBPath           *string
	Port             *string
	RateLimitRPS     *float64
	RateLimitBurst   *int
	GCodeProfile     *string
}

// Load resolves the configuration. overrides may be nil.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options returns the engine options carried by the configuration.
func (c Config) Options() model.Options {
	return model.Options{
		Kerf:             c.Kerf,
		ConsiderMaterial: c.ConsiderMaterial,
		PreserveGrain:    c.PreserveGrain,
	}
}

// GCodeSettings returns the machining settings with the configured kerf.
func (c Config) GCodeSettings() gcode.Settings {
	s := c.GCode
	s.Kerf = c.Kerf
	return s
}

func defaultConfig() Config {
	opts := model.DefaultOptions()
	return Config{
		Kerf:                 opts.Kerf,
		ConsiderMaterial:     opts.ConsiderMaterial,
		PreserveGrain:        opts.PreserveGrain,
		LogLevel:             defaultLogLevel,
		DBPath:               defaultDBPath(),
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		GCode:                gcode.DefaultSettings(),
	}
}

// defaultDBPath places the history database under the user's config directory.
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "panelnest.db"
	}
	return filepath.Join(dir, "panelnest", "history.db")
}

func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &yamlCfg, nil
}

func applyYAMLConfig(cfg *Config, y *yamlConfig) error {
	if y.Optimizer.Kerf != nil {
		cfg.Kerf = *y.Optimizer.Kerf
	}
	if y.Optimizer.ConsiderMaterial != nil {
		cfg.ConsiderMaterial = *y.Optimizer.ConsiderMaterial
	}
	if y.Optimizer.PreserveGrain != nil {
		cfg.PreserveGrain = *y.Optimizer.PreserveGrain
	}
	if y.Optimizer.ParallelGroups != nil {
		cfg.ParallelGroups = *y.Optimizer.ParallelGroups
	}
	if y.LogLevel != "" {
		cfg.LogLevel = y.LogLevel
	}
	if y.DBPath != "" {
		cfg.DBPath = y.DBPath
	}

	s := y.Server
	if s.Port != "" {
		cfg.Port = s.Port
	}
	durations := []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{s.ShutdownGracePeriod, &cfg.ShutdownGracePeriod, "shutdown_grace_period"},
		{s.ReadHeaderTimeout, &cfg.ReadHeaderTimeout, "read_header_timeout"},
		{s.WriteTimeout, &cfg.WriteTimeout, "write_timeout"},
		{s.IdleTimeout, &cfg.IdleTimeout, "idle_timeout"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	if s.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *s.EnableRequestLogging
	}
	if s.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *s.RateLimit.RPS
	}
	if s.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *s.RateLimit.Burst
	}

	if y.GCode != nil {
		mergeGCode(&cfg.GCode, *y.GCode)
	}
	return nil
}

// mergeGCode copies the non-zero fields of src onto dst.
func mergeGCode(dst *gcode.Settings, src gcode.Settings) {
	if src.Profile != "" {
		dst.Profile = src.Profile
	}
	setIfPositive(&dst.ToolDiameter, src.ToolDiameter)
	setIfPositive(&dst.FeedRate, src.FeedRate)
	setIfPositive(&dst.PlungeRate, src.PlungeRate)
	if src.SpindleSpeed > 0 {
		dst.SpindleSpeed = src.SpindleSpeed
	}
	setIfPositive(&dst.SafeZ, src.SafeZ)
	setIfPositive(&dst.CutDepth, src.CutDepth)
	setIfPositive(&dst.PassDepth, src.PassDepth)
	if src.TabsPerSide > 0 {
		dst.TabsPerSide = src.TabsPerSide
	}
	setIfPositive(&dst.TabWidth, src.TabWidth)
	setIfPositive(&dst.TabHeight, src.TabHeight)
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func applyEnvConfig(cfg *Config) {
	if v := env("PANELNEST_KERF"); v != "" {
		if kerf, err := strconv.ParseFloat(v, 64); err == nil && kerf >= 0 {
			cfg.Kerf = kerf
		}
	}
	if v := env("PANELNEST_CONSIDER_MATERIAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ConsiderMaterial = b
		}
	}
	if v := env("PANELNEST_PRESERVE_GRAIN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PreserveGrain = b
		}
	}
	if v := env("PANELNEST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := env("PANELNEST_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := env("PORT"); v != "" {
		cfg.Port = v
	}
	if v := env("RATE_LIMIT_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil && rps >= 0 {
			cfg.RateLimitRPS = rps
		}
	}
	if v := env("RATE_LIMIT_BURST"); v != "" {
		if burst, err := strconv.Atoi(v); err == nil && burst >= 0 {
			cfg.RateLimitBurst = burst
		}
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func applyCLIOverrides(cfg *Config, o *CLIOverrides) {
	if o.Kerf != nil {
		cfg.Kerf = *o.Kerf
	}
	if o.ConsiderMaterial != nil {
		cfg.ConsiderMaterial = *o.ConsiderMaterial
	}
	if o.PreserveGrain != nil {
		cfg.PreserveGrain = *o.PreserveGrain
	}
	if o.LogLevel != nil && *o.LogLevel != "" {
		cfg.LogLevel = *o.LogLevel
	}
	if o.DBPath != nil && *o.DBPath != "" {
		cfg.DBPath = *o.DBPath
	}
	if o.Port != nil && *o.Port != "" {
		cfg.Port = *o.Port
	}
	if o.RateLimitRPS != nil {
		cfg.RateLimitRPS = *o.RateLimitRPS
	}
	if o.RateLimitBurst != nil {
		cfg.RateLimitBurst = *o.RateLimitBurst
	}
	if o.GCodeProfile != nil && *o.GCodeProfile != "" {
		cfg.GCode.Profile = *o.GCodeProfile
	}
}

func validateConfig(cfg Config) error {
	if cfg.Kerf < 0 {
		return fmt.Errorf("kerf must be >= 0, got %v", cfg.Kerf)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.GCode.ToolDiameter <= 0 {
		return fmt.Errorf("gcode tool diameter must be > 0")
	}
	if cfg.GCode.CutDepth <= 0 {
		return fmt.Errorf("gcode cut depth must be > 0")
	}
	return nil
}
