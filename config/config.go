// Package config provides configuration loading and access for the demo.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all demo configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Camera    CameraConfig    `yaml:"camera"`
	Flame     FlameConfig     `yaml:"flame"`
	Sparks    SparksConfig    `yaml:"sparks"`
	Emitters  []EmitterConfig `yaml:"emitters"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// CameraConfig holds the perspective camera used for the flame quad.
type CameraConfig struct {
	FovY     float64 `yaml:"fov_y"`    // Vertical field of view in radians
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
	Distance float64 `yaml:"distance"` // Eye distance along +Z, looking at the origin
}

// FlameConfig holds the flame quad shader paths.
type FlameConfig struct {
	Enabled        bool   `yaml:"enabled"`
	VertexShader   string `yaml:"vertex_shader"`
	FragmentShader string `yaml:"fragment_shader"`
}

// SparksConfig holds the particle stream settings shared by all emitters.
type SparksConfig struct {
	Capacity       int     `yaml:"capacity"` // Ring buffer slots per emitter
	Gravity        float64 `yaml:"gravity"`  // Uniform vertical acceleration (negative = down)
	VertexShader   string  `yaml:"vertex_shader"`
	FragmentShader string  `yaml:"fragment_shader"`
}

// Range is a closed-open [min, max) interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// EmitterConfig defines one particle stream.
// Color channels with min == max stay fixed; the others are jittered per particle.
type EmitterConfig struct {
	Name     string   `yaml:"name"`
	Enabled  bool     `yaml:"enabled"`
	Interval float64  `yaml:"interval"` // Seconds between emissions (0 = every tick)
	PosX     Range    `yaml:"pos_x"`
	PosY     Range    `yaml:"pos_y"`
	Size     Range    `yaml:"size"`
	Duration Range    `yaml:"duration"`
	Color    [4]Range `yaml:"color"`
	VelX     Range    `yaml:"vel_x"`
	VelY     Range    `yaml:"vel_y"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	FPSInterval         float64 `yaml:"fps_interval"`          // Seconds between FPS reports
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks in the rolling perf window
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds between CSV/perf flushes
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Gravity32      float32        // Sparks.Gravity as float32
	Aspect         float32        // Screen.Width / Screen.Height
	EnabledCount   int            // Number of enabled emitters
	EmitterIndex   map[string]int // name -> index into Emitters
	SparkBufferLen int            // Bytes per ring buffer (capacity * record size)
}

// recordBytes mirrors particles.RecordSize; config cannot import particles.
const recordBytes = 44

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects settings the particle stream cannot honour.
func (c *Config) validate() error {
	if c.Sparks.Capacity <= 0 {
		return fmt.Errorf("sparks.capacity must be positive, got %d", c.Sparks.Capacity)
	}
	seen := make(map[string]bool, len(c.Emitters))
	for i, em := range c.Emitters {
		if em.Name == "" {
			return fmt.Errorf("emitters[%d]: name is required", i)
		}
		if seen[em.Name] {
			return fmt.Errorf("emitters[%d]: duplicate name %q", i, em.Name)
		}
		seen[em.Name] = true
		if em.Interval < 0 {
			return fmt.Errorf("emitter %q: interval must not be negative", em.Name)
		}
		if em.Duration.Max <= 0 {
			return fmt.Errorf("emitter %q: duration range must be positive", em.Name)
		}
		for _, r := range []Range{em.PosX, em.PosY, em.Size, em.Duration, em.VelX, em.VelY} {
			if r.Min > r.Max {
				return fmt.Errorf("emitter %q: range min %v exceeds max %v", em.Name, r.Min, r.Max)
			}
		}
		for ch, r := range em.Color {
			if r.Min > r.Max {
				return fmt.Errorf("emitter %q: color[%d] min %v exceeds max %v", em.Name, ch, r.Min, r.Max)
			}
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Gravity32 = float32(c.Sparks.Gravity)
	c.Derived.Aspect = 1
	if c.Screen.Height > 0 {
		c.Derived.Aspect = float32(c.Screen.Width) / float32(c.Screen.Height)
	}
	c.Derived.SparkBufferLen = c.Sparks.Capacity * recordBytes

	c.Derived.EnabledCount = 0
	c.Derived.EmitterIndex = make(map[string]int, len(c.Emitters))
	for i, em := range c.Emitters {
		c.Derived.EmitterIndex[em.Name] = i
		if em.Enabled {
			c.Derived.EnabledCount++
		}
	}
}

// Emitter returns the named emitter config.
func (c *Config) Emitter(name string) (EmitterConfig, bool) {
	i, ok := c.Derived.EmitterIndex[name]
	if !ok {
		return EmitterConfig{}, false
	}
	return c.Emitters[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
