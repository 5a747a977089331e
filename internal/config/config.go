package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravbox/internal/body"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/integrators"
	"github.com/san-kum/gravbox/internal/sandbox"
	"github.com/san-kum/gravbox/internal/sim"
)

const (
	DefaultScene            = "earth-drop"
	DefaultUpdatesPerSecond = 100.0
	DefaultMaxFrameDelta    = 0.03
	DefaultFlingWindowMS    = 75
	EnvPrefix               = "GRAVBOX"
)

var ErrUnknownScene = errors.New("unknown scene")

type Config struct {
	Scene            string       `mapstructure:"scene" yaml:"scene"`
	UpdatesPerSecond float64      `mapstructure:"updates_per_second" yaml:"updates_per_second"`
	MaxFrameDelta    float64      `mapstructure:"max_frame_delta" yaml:"max_frame_delta"`
	TrailCapacity    int          `mapstructure:"trail_capacity" yaml:"trail_capacity"`
	FlingWindowMS    int          `mapstructure:"fling_window_ms" yaml:"fling_window_ms"`
	ZoomSpeed        float64      `mapstructure:"zoom_speed" yaml:"zoom_speed"`
	MinZoom          float64      `mapstructure:"min_zoom" yaml:"min_zoom"`
	Zoom             float64      `mapstructure:"zoom" yaml:"zoom"`
	SpeedLevel       int          `mapstructure:"speed_level" yaml:"speed_level"`
	GravityConstant  float64      `mapstructure:"gravity_constant" yaml:"gravity_constant"`
	Integrator       string       `mapstructure:"integrator" yaml:"integrator"`
	Bodies           []BodySpec   `mapstructure:"bodies" yaml:"bodies,omitempty"`
	Logger           LoggerConfig `mapstructure:"logger" yaml:"logger"`
}

// BodySpec describes a body in a scene or a config file.
type BodySpec struct {
	Name           string  `mapstructure:"name" yaml:"name,omitempty"`
	Color          string  `mapstructure:"color" yaml:"color,omitempty"`
	Mass           float64 `mapstructure:"mass" yaml:"mass"`
	Radius         float64 `mapstructure:"radius" yaml:"radius"`
	X              float64 `mapstructure:"x" yaml:"x"`
	Y              float64 `mapstructure:"y" yaml:"y"`
	VX             float64 `mapstructure:"vx" yaml:"vx"`
	VY             float64 `mapstructure:"vy" yaml:"vy"`
	Uninteractable bool    `mapstructure:"uninteractable" yaml:"uninteractable,omitempty"`
}

type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("scene", DefaultScene)
	v.SetDefault("updates_per_second", DefaultUpdatesPerSecond)
	v.SetDefault("max_frame_delta", DefaultMaxFrameDelta)
	v.SetDefault("trail_capacity", body.DefaultTrailCapacity)
	v.SetDefault("fling_window_ms", DefaultFlingWindowMS)
	v.SetDefault("zoom_speed", camera.DefaultZoomSpeed)
	v.SetDefault("min_zoom", camera.DefaultMinZoom)
	v.SetDefault("zoom", 0.0)
	v.SetDefault("speed_level", 0)
	v.SetDefault("gravity_constant", 0.0)
	v.SetDefault("integrator", integrators.Default)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "gravbox")
	v.SetDefault("logger.log_file", "gravbox.log")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
}

func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads a YAML config file with GRAVBOX_* environment overrides. An
// empty path looks for gravbox.yaml in the working directory and falls back
// to defaults when none exists.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("gravbox")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.UpdatesPerSecond > 0) {
		return fmt.Errorf("updates_per_second must be positive, got %g", c.UpdatesPerSecond)
	}
	if !(c.MaxFrameDelta > 0) {
		return fmt.Errorf("max_frame_delta must be positive, got %g", c.MaxFrameDelta)
	}
	if c.TrailCapacity < 1 {
		return fmt.Errorf("trail_capacity must be at least 1, got %d", c.TrailCapacity)
	}
	if c.FlingWindowMS <= 0 {
		return fmt.Errorf("fling_window_ms must be positive, got %d", c.FlingWindowMS)
	}
	if c.Zoom < 0 || c.MinZoom < 0 || c.ZoomSpeed < 0 {
		return errors.New("zoom, min_zoom and zoom_speed must not be negative")
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return err
	}
	if len(c.Bodies) == 0 {
		if _, ok := GetScene(c.Scene); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownScene, c.Scene)
		}
	}
	return nil
}

// ActiveScene returns the custom scene built from Bodies, or the named
// built-in scene.
func (c *Config) ActiveScene() (*Scene, error) {
	if len(c.Bodies) > 0 {
		return &Scene{Name: "custom", Bodies: c.Bodies}, nil
	}
	sc, ok := GetScene(c.Scene)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, c.Scene)
	}
	return sc, nil
}

// BuildBodies creates fresh bodies for the active scene.
func (c *Config) BuildBodies() ([]*body.Body, error) {
	sc, err := c.ActiveScene()
	if err != nil {
		return nil, err
	}
	return sc.Build(c.TrailCapacity)
}

// SimConfig maps the file settings onto the world configuration. A
// non-zero gravity_constant wins over the scene's.
func (c *Config) SimConfig() sim.Config {
	g := c.GravityConstant
	if g == 0 {
		if sc, err := c.ActiveScene(); err == nil {
			g = sc.G
		}
	}
	return sim.Config{
		UpdatesPerSecond:      c.UpdatesPerSecond,
		MaxFrameDelta:         c.MaxFrameDelta,
		Integrator:            c.Integrator,
		GravitationalConstant: g,
	}
}

func (c *Config) SandboxConfig(viewport geom.Vec2) sandbox.Config {
	var center geom.Vec2
	zoom := c.Zoom
	if sc, err := c.ActiveScene(); err == nil {
		center = sc.Center
		if zoom == 0 {
			zoom = sc.Zoom
		}
	}
	if zoom == 0 {
		zoom = 1
	}
	return sandbox.Config{
		World:       c.SimConfig(),
		Center:      center,
		Zoom:        zoom,
		MinZoom:     c.MinZoom,
		ZoomSpeed:   c.ZoomSpeed,
		FlingWindow: time.Duration(c.FlingWindowMS) * time.Millisecond,
		Viewport:    viewport,
		SpeedLevel:  c.SpeedLevel,
	}
}

// Body builds a body from the spec with a trail of the given capacity.
func (s BodySpec) Body(trailCapacity int) (*body.Body, error) {
	opts := []body.Option{
		body.WithVelocity(geom.Vec2{X: s.VX, Y: s.VY}),
		body.WithRadius(s.Radius),
		body.WithName(s.Name),
		body.WithColor(s.Color),
		body.WithTrailCapacity(trailCapacity),
	}
	if s.Uninteractable {
		opts = append(opts, body.Uninteractable())
	}
	b, err := body.New(s.Mass, geom.Vec2{X: s.X, Y: s.Y}, opts...)
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", s.Name, err)
	}
	return b, nil
}
