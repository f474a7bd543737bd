package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const (
	envPrefix         = "HYPRSPRITE_"
	defaultHome       = "~/.local/share/hyprsprite"
	defaultEntryPoint = "hyprsprite"
	configFileName    = "config.yaml"
)

// SpriteConfig holds everything a sprite instance needs. It is a value type:
// components receive copies and never observe later changes.
type SpriteConfig struct {
	Corner         string
	Margin         int
	Wander         bool
	WanderBox      int
	Scale          float64
	StrictHitTest  bool
	AlphaThreshold uint8
	FramePeriod    time.Duration
	StepPeriod     time.Duration
	FramesDir      string
	IdleThreshold  float64
	BaseSpeed      float64
	MaxSpeed       float64
	SpeedScale     float64
	PauseMin       time.Duration
	PauseMax       time.Duration
	GeometryTTL    time.Duration
}

// WatcherConfig holds the presence watcher settings
type WatcherConfig struct {
	Home         string
	EntryPoint   string
	Runner       string
	PollInterval time.Duration
	SpawnGrace   time.Duration
}

// EntryPath returns the absolute path of the sprite binary the watcher launches
func (w WatcherConfig) EntryPath() string {
	return filepath.Join(w.Home, w.EntryPoint)
}

// AppConfig holds application configuration
type AppConfig struct {
	logger  *zap.Logger
	sprite  SpriteConfig
	watcher WatcherConfig
	source  string
}

// fileConfig mirrors config.yaml. Durations are expressed in milliseconds.
type fileConfig struct {
	Corner         string  `yaml:"corner"`
	Margin         int     `yaml:"margin"`
	Wander         bool    `yaml:"wander"`
	WanderBox      int     `yaml:"wander_box"`
	Scale          float64 `yaml:"scale"`
	StrictHitTest  bool    `yaml:"strict_hittest"`
	AlphaThreshold int     `yaml:"alpha_threshold"`
	FrameMs        int     `yaml:"frame_ms"`
	StepMs         int     `yaml:"step_ms"`
	FramesDir      string  `yaml:"frames_dir"`
	IdleThreshold  float64 `yaml:"idle_threshold"`
	BaseSpeed      float64 `yaml:"base_speed"`
	MaxSpeed       float64 `yaml:"max_speed"`
	SpeedScale     float64 `yaml:"speed_scale"`
	PauseMinMs     int     `yaml:"pause_min_ms"`
	PauseMaxMs     int     `yaml:"pause_max_ms"`
	GeometryTTLMs  int     `yaml:"geometry_ttl_ms"`
	Home           string  `yaml:"home"`
	Runner         string  `yaml:"runner"`
	PollMs         int     `yaml:"poll_ms"`
	SpawnGraceMs   int     `yaml:"spawn_grace_ms"`
}

func defaults() fileConfig {
	return fileConfig{
		Corner:         "bottom-right",
		Margin:         24,
		Scale:          1.0,
		AlphaThreshold: 10,
		FrameMs:        60,
		StepMs:         16,
		IdleThreshold:  2,
		BaseSpeed:      2,
		MaxSpeed:       12,
		SpeedScale:     40,
		PauseMinMs:     2500,
		PauseMaxMs:     5000,
		GeometryTTLMs:  2000,
		Home:           defaultHome,
		PollMs:         1000,
		SpawnGraceMs:   3000,
	}
}

// NewAppConfig creates a new application configuration instance.
// Precedence: defaults, then the YAML file, then HYPRSPRITE_* environment variables.
func NewAppConfig(logger *zap.Logger) (*AppConfig, error) {
	return load(logger, os.Getenv, defaultConfigPath())
}

func load(logger *zap.Logger, getenv func(string) string, path string) (*AppConfig, error) {
	fc := defaults()
	source := "defaults"

	if override := getenv(envPrefix + "CONFIG"); override != "" {
		path = override
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			source = path
		case os.IsNotExist(err):
			// Missing file is not an error, defaults apply
		default:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := applyEnv(&fc, getenv); err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		logger:  logger,
		sprite:  fc.sprite(),
		watcher: fc.watcher(),
		source:  source,
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("Configuration loaded",
		zap.String("source", source),
		zap.String("corner", cfg.sprite.Corner),
		zap.Int("margin", cfg.sprite.Margin),
		zap.Bool("wander", cfg.sprite.Wander),
		zap.Int("wanderBox", cfg.sprite.WanderBox),
		zap.String("framesDir", cfg.sprite.FramesDir),
		zap.String("home", cfg.watcher.Home))

	return cfg, nil
}

// Sprite returns a copy of the sprite configuration
func (c *AppConfig) Sprite() SpriteConfig {
	return c.sprite
}

// Watcher returns a copy of the watcher configuration
func (c *AppConfig) Watcher() WatcherConfig {
	return c.watcher
}

// Source returns the file the configuration was read from, or "defaults"
func (c *AppConfig) Source() string {
	return c.source
}

func (c *AppConfig) validate() error {
	var err error
	s, w := c.sprite, c.watcher

	if s.Margin < 0 {
		err = multierr.Append(err, fmt.Errorf("margin must be >= 0, got %d", s.Margin))
	}
	if s.Scale <= 0 {
		err = multierr.Append(err, fmt.Errorf("scale must be > 0, got %g", s.Scale))
	}
	if s.FramePeriod <= 0 {
		err = multierr.Append(err, fmt.Errorf("frame period must be > 0, got %v", s.FramePeriod))
	}
	if s.StepPeriod <= 0 {
		err = multierr.Append(err, fmt.Errorf("step period must be > 0, got %v", s.StepPeriod))
	}
	if s.PauseMin < 0 || s.PauseMax < s.PauseMin {
		err = multierr.Append(err, fmt.Errorf("pause range [%v, %v] is invalid", s.PauseMin, s.PauseMax))
	}
	if s.MaxSpeed <= 0 || s.BaseSpeed <= 0 {
		err = multierr.Append(err, fmt.Errorf("speeds must be > 0 (base %g, max %g)", s.BaseSpeed, s.MaxSpeed))
	}
	if s.SpeedScale <= 0 {
		err = multierr.Append(err, fmt.Errorf("speed scale must be > 0, got %g", s.SpeedScale))
	}
	if s.IdleThreshold < 0 {
		err = multierr.Append(err, fmt.Errorf("idle threshold must be >= 0, got %g", s.IdleThreshold))
	}
	if w.PollInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("poll interval must be > 0, got %v", w.PollInterval))
	}
	if w.SpawnGrace < 0 {
		err = multierr.Append(err, fmt.Errorf("spawn grace must be >= 0, got %v", w.SpawnGrace))
	}
	return err
}

func (fc fileConfig) sprite() SpriteConfig {
	threshold := fc.AlphaThreshold
	if threshold < 0 {
		threshold = 0
	} else if threshold > 255 {
		threshold = 255
	}
	framesDir := fc.FramesDir
	if framesDir == "" {
		framesDir = defaultFramesDir()
	}
	return SpriteConfig{
		Corner:         fc.Corner,
		Margin:         fc.Margin,
		Wander:         fc.Wander,
		WanderBox:      fc.WanderBox,
		Scale:          fc.Scale,
		StrictHitTest:  fc.StrictHitTest,
		AlphaThreshold: uint8(threshold),
		FramePeriod:    millis(fc.FrameMs),
		StepPeriod:     millis(fc.StepMs),
		FramesDir:      expandPath(framesDir),
		IdleThreshold:  fc.IdleThreshold,
		BaseSpeed:      fc.BaseSpeed,
		MaxSpeed:       fc.MaxSpeed,
		SpeedScale:     fc.SpeedScale,
		PauseMin:       millis(fc.PauseMinMs),
		PauseMax:       millis(fc.PauseMaxMs),
		GeometryTTL:    millis(fc.GeometryTTLMs),
	}
}

func (fc fileConfig) watcher() WatcherConfig {
	return WatcherConfig{
		Home:         expandPath(fc.Home),
		EntryPoint:   defaultEntryPoint,
		Runner:       fc.Runner,
		PollInterval: millis(fc.PollMs),
		SpawnGrace:   millis(fc.SpawnGraceMs),
	}
}

// applyEnv overrides file values with HYPRSPRITE_* variables.
// All malformed values are reported together.
func applyEnv(fc *fileConfig, getenv func(string) string) error {
	var err error

	str := func(key string, dst *string) {
		if v := getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := getenv(envPrefix + key); v != "" {
			n, perr := strconv.Atoi(strings.TrimSpace(v))
			if perr != nil {
				err = multierr.Append(err, fmt.Errorf("%s%s: %w", envPrefix, key, perr))
				return
			}
			*dst = n
		}
	}
	flt := func(key string, dst *float64) {
		if v := getenv(envPrefix + key); v != "" {
			f, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if perr != nil {
				err = multierr.Append(err, fmt.Errorf("%s%s: %w", envPrefix, key, perr))
				return
			}
			*dst = f
		}
	}
	flag := func(key string, dst *bool) {
		if v := getenv(envPrefix + key); v != "" {
			b, perr := strconv.ParseBool(strings.TrimSpace(v))
			if perr != nil {
				err = multierr.Append(err, fmt.Errorf("%s%s: %w", envPrefix, key, perr))
				return
			}
			*dst = b
		}
	}

	str("CORNER", &fc.Corner)
	num("MARGIN", &fc.Margin)
	flag("WANDER", &fc.Wander)
	num("WANDER_BOX", &fc.WanderBox)
	flt("SCALE", &fc.Scale)
	flag("STRICT_HITTEST", &fc.StrictHitTest)
	num("ALPHA_THRESHOLD", &fc.AlphaThreshold)
	num("FRAME_MS", &fc.FrameMs)
	num("STEP_MS", &fc.StepMs)
	str("FRAMES_DIR", &fc.FramesDir)
	flt("IDLE_THRESHOLD", &fc.IdleThreshold)
	flt("BASE_SPEED", &fc.BaseSpeed)
	flt("MAX_SPEED", &fc.MaxSpeed)
	flt("SPEED_SCALE", &fc.SpeedScale)
	num("PAUSE_MIN_MS", &fc.PauseMinMs)
	num("PAUSE_MAX_MS", &fc.PauseMaxMs)
	num("GEOMETRY_TTL_MS", &fc.GeometryTTLMs)
	str("HOME", &fc.Home)
	str("RUNNER", &fc.Runner)
	num("POLL_MS", &fc.PollMs)
	num("SPAWN_GRACE_MS", &fc.SpawnGraceMs)

	return err
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hyprsprite", configFileName)
}

// defaultFramesDir is the frames directory next to the running binary
func defaultFramesDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "frames"
	}
	return filepath.Join(filepath.Dir(exe), "frames")
}
