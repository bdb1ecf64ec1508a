// Package config loads the application settings from a TOML file.
//
// Every field is optional. A zero value falls back to the matching field of Default, so a file
// only needs to name what it changes. Fields where zero is meaningful, such as animation.speed,
// are pointers so that an explicit zero is kept.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned when a loaded configuration holds out-of-range values.
var ErrInvalid = errors.New("config: invalid value")

// Present modes accepted by engine.present_mode.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Config is the full application configuration.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Engine    EngineConfig    `toml:"engine"`
	Camera    CameraConfig    `toml:"camera"`
	Tree      TreeConfig      `toml:"tree"`
	Animation AnimationConfig `toml:"animation"`
	Light     LightConfig     `toml:"light"`
	Log       LogConfig       `toml:"log"`
}

// WindowConfig sizes the window. Title is replaced by the surface id when one is given.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
}

// EngineConfig tunes the frame loop and the renderer.
type EngineConfig struct {
	// FrameLimit caps frames per second, 0 leaves the loop uncapped.
	FrameLimit float64 `toml:"frame_limit"`
	// TickRate is the headless frame rate.
	TickRate float64 `toml:"tick_rate"`
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `toml:"present_mode"`
	// MSAA is the sample count, 1 or 4.
	MSAA       int        `toml:"msaa"`
	Profiling  bool       `toml:"profiling"`
	ClearColor [4]float64 `toml:"clear_color"`
	// RaycastWorkers sizes the hover picking worker pool. 1 keeps picking on the frame thread.
	RaycastWorkers int `toml:"raycast_workers"`
}

// CameraConfig places the camera. The orbit target defaults to the middle of the root branch.
type CameraConfig struct {
	// FovDegrees is the vertical field of view.
	FovDegrees float32    `toml:"fov"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
	Position   [3]float32 `toml:"position"`
	// ResetDuration is how long ResetView eases back, as a Go duration string. "0s" snaps.
	ResetDuration string `toml:"reset_duration"`
	// RadiusRange bounds the orbit distance as [min, max].
	RadiusRange [2]float32 `toml:"radius_range"`
	// ElevationRange bounds the orbit elevation as [min, max] degrees.
	ElevationRange [2]float32 `toml:"elevation_range"`
	// OrbitSpeed is the keyboard orbit step in degrees.
	OrbitSpeed float32 `toml:"orbit_speed"`
	// MouseSensitivity is the drag rotation in radians per screen unit.
	MouseSensitivity float32 `toml:"mouse_sensitivity"`
	ZoomSpeed        float32 `toml:"zoom_speed"`
	PanSpeed         float32 `toml:"pan_speed"`
}

// TreeConfig holds the generation parameters used at startup.
type TreeConfig struct {
	MaxDepth    int     `toml:"max_depth"`
	MinBranches int     `toml:"min_branches"`
	MaxBranches int     `toml:"max_branches"`
	RootLength  float32 `toml:"root_length"`
	RootRadius  float32 `toml:"root_radius"`
	// Seed fixes the random sequence, 0 seeds from the clock.
	Seed int64 `toml:"seed"`
}

// AnimationConfig controls the sway animation.
type AnimationConfig struct {
	// Speed is in degrees per second. Unlike other fields an explicit 0 is kept.
	Speed *float32 `toml:"speed"`
	// Autostart begins animating as soon as the window opens.
	Autostart bool `toml:"autostart"`
}

// LightConfig describes the scene's directional light.
type LightConfig struct {
	// Direction is the direction the light travels.
	Direction [3]float32 `toml:"direction"`
	Color     [3]float32 `toml:"color"`
	Intensity float32    `toml:"intensity"`
	// Ambient is the fraction of a surface's color shown where the light does not reach.
	Ambient float32 `toml:"ambient"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Format is "text" or "json".
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-tree",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
		},
		Engine: EngineConfig{
			TickRate:       60,
			PresentMode:    PresentModeVSync,
			MSAA:           4,
			ClearColor:     [4]float64{0.92, 0.95, 0.98, 1},
			RaycastWorkers: runtime.NumCPU(),
		},
		Camera: CameraConfig{
			FovDegrees:       45,
			Near:             0.1,
			Far:              1000,
			Position:         [3]float32{0, 20, 30},
			ResetDuration:    "500ms",
			RadiusRange:      [2]float32{1, 500},
			ElevationRange:   [2]float32{-87, 87},
			OrbitSpeed:       2,
			MouseSensitivity: 0.005,
			ZoomSpeed:        1,
			PanSpeed:         0.05,
		},
		Tree: TreeConfig{
			MaxDepth:    4,
			MinBranches: 2,
			MaxBranches: 4,
			RootLength:  40,
			RootRadius:  0.75,
		},
		Animation: AnimationConfig{
			Speed: speed(10),
		},
		Light: LightConfig{
			Direction: [3]float32{-0.4, -1, -0.3},
			Color:     [3]float32{1, 0.98, 0.94},
			Intensity: 1,
			Ambient:   0.35,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the TOML file at path over the defaults and validates the result.
// An empty path or a file that does not exist yields Default().
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML from r, fills zero fields from Default and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the decoded configuration
//   - error: a decode or validation error
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("decode config: %w\n%s", err, strict.String())
		}
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
//
// Parameters:
//   - w: the destination
//   - cfg: the configuration to write
//
// Returns:
//   - error: an encoding or write error
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// withDefaults replaces every zero field with its default.
func (c Config) withDefaults() Config {
	d := Default()

	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, d.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, d.Window.Height)
	c.Window.MinWidth = common.Coalesce(c.Window.MinWidth, d.Window.MinWidth)
	c.Window.MinHeight = common.Coalesce(c.Window.MinHeight, d.Window.MinHeight)

	c.Engine.TickRate = common.Coalesce(c.Engine.TickRate, d.Engine.TickRate)
	c.Engine.PresentMode = common.Coalesce(strings.ToLower(c.Engine.PresentMode), d.Engine.PresentMode)
	c.Engine.MSAA = common.Coalesce(c.Engine.MSAA, d.Engine.MSAA)
	c.Engine.ClearColor = common.Coalesce(c.Engine.ClearColor, d.Engine.ClearColor)
	c.Engine.RaycastWorkers = common.Coalesce(c.Engine.RaycastWorkers, d.Engine.RaycastWorkers)

	c.Camera.FovDegrees = common.Coalesce(c.Camera.FovDegrees, d.Camera.FovDegrees)
	c.Camera.Near = common.Coalesce(c.Camera.Near, d.Camera.Near)
	c.Camera.Far = common.Coalesce(c.Camera.Far, d.Camera.Far)
	c.Camera.Position = common.Coalesce(c.Camera.Position, d.Camera.Position)
	c.Camera.ResetDuration = common.Coalesce(c.Camera.ResetDuration, d.Camera.ResetDuration)
	c.Camera.RadiusRange = common.Coalesce(c.Camera.RadiusRange, d.Camera.RadiusRange)
	c.Camera.ElevationRange = common.Coalesce(c.Camera.ElevationRange, d.Camera.ElevationRange)
	c.Camera.OrbitSpeed = common.Coalesce(c.Camera.OrbitSpeed, d.Camera.OrbitSpeed)
	c.Camera.MouseSensitivity = common.Coalesce(c.Camera.MouseSensitivity, d.Camera.MouseSensitivity)
	c.Camera.ZoomSpeed = common.Coalesce(c.Camera.ZoomSpeed, d.Camera.ZoomSpeed)
	c.Camera.PanSpeed = common.Coalesce(c.Camera.PanSpeed, d.Camera.PanSpeed)

	c.Tree.MaxDepth = common.Coalesce(c.Tree.MaxDepth, d.Tree.MaxDepth)
	c.Tree.MinBranches = common.Coalesce(c.Tree.MinBranches, d.Tree.MinBranches)
	c.Tree.MaxBranches = common.Coalesce(c.Tree.MaxBranches, d.Tree.MaxBranches)
	c.Tree.RootLength = common.Coalesce(c.Tree.RootLength, d.Tree.RootLength)
	c.Tree.RootRadius = common.Coalesce(c.Tree.RootRadius, d.Tree.RootRadius)

	if c.Animation.Speed == nil {
		c.Animation.Speed = d.Animation.Speed
	}

	c.Light.Direction = common.Coalesce(c.Light.Direction, d.Light.Direction)
	c.Light.Color = common.Coalesce(c.Light.Color, d.Light.Color)
	c.Light.Intensity = common.Coalesce(c.Light.Intensity, d.Light.Intensity)
	c.Light.Ambient = common.Coalesce(c.Light.Ambient, d.Light.Ambient)

	c.Log.Level = common.Coalesce(strings.ToLower(c.Log.Level), d.Log.Level)
	c.Log.Format = common.Coalesce(strings.ToLower(c.Log.Format), d.Log.Format)
	return c
}

// Validate checks every section.
//
// Returns:
//   - error: ErrInvalid wrapped with the offending key, nil if valid
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, ErrInvalid)
	case c.Window.MinWidth < 0 || c.Window.MinHeight < 0:
		return fmt.Errorf("window minimum size %dx%d: %w", c.Window.MinWidth, c.Window.MinHeight, ErrInvalid)
	case c.Engine.FrameLimit < 0:
		return fmt.Errorf("engine.frame_limit %v: %w", c.Engine.FrameLimit, ErrInvalid)
	case c.Engine.TickRate < 0:
		return fmt.Errorf("engine.tick_rate %v: %w", c.Engine.TickRate, ErrInvalid)
	case c.Engine.PresentMode != PresentModeVSync && c.Engine.PresentMode != PresentModeUncapped:
		return fmt.Errorf("engine.present_mode %q: %w", c.Engine.PresentMode, ErrInvalid)
	case c.Engine.MSAA != 1 && c.Engine.MSAA != 4:
		return fmt.Errorf("engine.msaa %d: %w", c.Engine.MSAA, ErrInvalid)
	case c.Engine.RaycastWorkers < 0:
		return fmt.Errorf("engine.raycast_workers %d: %w", c.Engine.RaycastWorkers, ErrInvalid)
	case c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180:
		return fmt.Errorf("camera.fov %v: %w", c.Camera.FovDegrees, ErrInvalid)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("camera near/far %v/%v: %w", c.Camera.Near, c.Camera.Far, ErrInvalid)
	case c.Camera.RadiusRange[0] <= 0 || c.Camera.RadiusRange[1] < c.Camera.RadiusRange[0]:
		return fmt.Errorf("camera.radius_range %v: %w", c.Camera.RadiusRange, ErrInvalid)
	case c.Camera.ElevationRange[0] <= -90 || c.Camera.ElevationRange[1] >= 90 ||
		c.Camera.ElevationRange[1] < c.Camera.ElevationRange[0]:
		return fmt.Errorf("camera.elevation_range %v: %w", c.Camera.ElevationRange, ErrInvalid)
	case c.Camera.OrbitSpeed < 0 || c.Camera.MouseSensitivity < 0 || c.Camera.ZoomSpeed < 0 || c.Camera.PanSpeed < 0:
		return fmt.Errorf("camera speeds %v/%v/%v/%v: %w",
			c.Camera.OrbitSpeed, c.Camera.MouseSensitivity, c.Camera.ZoomSpeed, c.Camera.PanSpeed, ErrInvalid)
	case c.Tree.MaxDepth < 1:
		return fmt.Errorf("tree.max_depth %d: %w", c.Tree.MaxDepth, ErrInvalid)
	case c.Tree.MinBranches < 1 || c.Tree.MinBranches > c.Tree.MaxBranches:
		return fmt.Errorf("tree branches %d..%d: %w", c.Tree.MinBranches, c.Tree.MaxBranches, ErrInvalid)
	case c.Tree.RootLength <= 0 || c.Tree.RootRadius <= 0:
		return fmt.Errorf("tree root %vx%v: %w", c.Tree.RootLength, c.Tree.RootRadius, ErrInvalid)
	case c.Animation.Speed != nil && *c.Animation.Speed < 0:
		return fmt.Errorf("animation.speed %v: %w", *c.Animation.Speed, ErrInvalid)
	case c.Light.Intensity < 0:
		return fmt.Errorf("light.intensity %v: %w", c.Light.Intensity, ErrInvalid)
	case c.Light.Ambient < 0 || c.Light.Ambient > 1:
		return fmt.Errorf("light.ambient %v: %w", c.Light.Ambient, ErrInvalid)
	}
	if _, err := c.Camera.ResetDurationSeconds(); err != nil {
		return err
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format %q: %w", c.Log.Format, ErrInvalid)
	}
	return nil
}

// ResetDurationSeconds parses ResetDuration.
//
// Returns:
//   - float32: the duration in seconds
//   - error: ErrInvalid for an unparsable or negative duration
func (c CameraConfig) ResetDurationSeconds() (float32, error) {
	d, err := time.ParseDuration(c.ResetDuration)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("camera.reset_duration %q: %w", c.ResetDuration, ErrInvalid)
	}
	return float32(d.Seconds()), nil
}

// DegreesPerSecond returns Speed, or the default when it is unset.
//
// Returns:
//   - float32: the sway speed in degrees per second
func (a AnimationConfig) DegreesPerSecond() float32 {
	if a.Speed == nil {
		return *Default().Animation.Speed
	}
	return *a.Speed
}

// SlogLevel maps Level onto a slog.Level.
//
// Returns:
//   - slog.Level: the level
//   - error: ErrInvalid for an unknown level name
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", c.Level, ErrInvalid)
	}
	return l, nil
}

// NewLogger builds the slog logger described by c, writing to w.
//
// Parameters:
//   - w: the log destination
//
// Returns:
//   - *slog.Logger: the logger
//   - error: ErrInvalid for an unknown level
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func speed(v float32) *float32 {
	return &v
}
