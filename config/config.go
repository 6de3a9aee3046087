// Package config loads the scene settings from YAML on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type AimMode string

const (
	// AimGaze casts through the viewport center every frame (crosshair)
	AimGaze AimMode = "gaze"
	// AimPointer casts through the last click or tap position
	AimPointer AimMode = "pointer"
)

type Config struct {
	Joystick  Joystick  `yaml:"joystick"`
	Movement  Movement  `yaml:"movement"`
	Camera    Camera    `yaml:"camera"`
	Highlight Highlight `yaml:"highlight"`
	Scene     Scene     `yaml:"scene"`
	Texture   Texture   `yaml:"texture"`
	Cloud     Cloud     `yaml:"cloud"`
	Grid      Grid      `yaml:"grid"`
	Log       Log       `yaml:"log"`
}

type Joystick struct {
	Radius  float64 `yaml:"radius"`
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
}

type Movement struct {
	Speed float64 `yaml:"speed"` // world units per frame at full deflection
	Floor float64 `yaml:"floor"` // minimum camera height
}

type Camera struct {
	Fovy     float64    `yaml:"fovy"`
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
	Width    float64    `yaml:"width"`
	Height   float64    `yaml:"height"`
	Position [3]float64 `yaml:"position"`
	LookAt   [3]float64 `yaml:"look_at"`
}

type Highlight struct {
	Tint     [3]float64 `yaml:"tint"`
	Hover    float64    `yaml:"hover"`
	Selected float64    `yaml:"selected"`
}

type Scene struct {
	Aim      AimMode `yaml:"aim"`
	SpinRate float64 `yaml:"spin_rate"` // radians per second
	Workers  int     `yaml:"workers"`
}

type Texture struct {
	MaxEdge   int   `yaml:"max_edge"`
	MaxBytes  int64 `yaml:"max_bytes"`
	MaxPixels int   `yaml:"max_pixels"`
}

type Cloud struct {
	Enabled     bool       `yaml:"enabled"`
	Count       int        `yaml:"count"`
	MajorRadius float64    `yaml:"major_radius"`
	MinorRadius float64    `yaml:"minor_radius"`
	Jitter      float64    `yaml:"jitter"`
	Seed        uint64     `yaml:"seed"`
	SpinRate    float64    `yaml:"spin_rate"`
	Center      [3]float64 `yaml:"center"`
}

type Grid struct {
	CellSize float64 `yaml:"cell_size"`
	Cells    int     `yaml:"cells"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() Config {
	return Config{
		Joystick: Joystick{Radius: 50, CenterX: 100, CenterY: 500},
		Movement: Movement{Speed: 0.1, Floor: 1.6},
		Camera: Camera{
			Fovy:     75,
			Near:     0.1,
			Far:      1000,
			Width:    800,
			Height:   600,
			Position: [3]float64{0, 1.6, 8},
			LookAt:   [3]float64{0, 1.6, 0},
		},
		Highlight: Highlight{Tint: [3]float64{1, 0.85, 0.4}, Hover: 0.35, Selected: 1},
		Scene:     Scene{Aim: AimGaze, SpinRate: 1, Workers: 1},
		Texture:   Texture{MaxEdge: 1024, MaxBytes: 32 << 20, MaxPixels: 8192 * 8192},
		Cloud: Cloud{
			Count:       2000,
			MajorRadius: 3,
			MinorRadius: 1,
			Jitter:      0.25,
			Seed:        1,
			SpinRate:    0.2,
			Center:      [3]float64{0, 6, -20},
		},
		Grid: Grid{CellSize: 4, Cells: 1024},
		Log:  Log{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads YAML from r over the defaults and validates the result
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Joystick.Radius <= 0 {
		errs = append(errs, errors.New("joystick.radius must be positive"))
	}
	if c.Movement.Speed < 0 {
		errs = append(errs, errors.New("movement.speed must not be negative"))
	}
	if c.Camera.Fovy <= 0 || c.Camera.Fovy >= 180 {
		errs = append(errs, errors.New("camera.fovy must be in (0, 180)"))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, errors.New("camera.near must be positive and below camera.far"))
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		errs = append(errs, errors.New("camera viewport must be positive"))
	}
	if c.Highlight.Hover > c.Highlight.Selected {
		errs = append(errs, errors.New("highlight.hover must not exceed highlight.selected"))
	}
	if c.Scene.Aim != AimGaze && c.Scene.Aim != AimPointer {
		errs = append(errs, fmt.Errorf("scene.aim %q is not gaze or pointer", c.Scene.Aim))
	}
	if c.Texture.MaxEdge <= 0 || c.Texture.MaxBytes <= 0 || c.Texture.MaxPixels <= 0 {
		errs = append(errs, errors.New("texture limits must be positive"))
	}
	if c.Grid.CellSize <= 0 || c.Grid.Cells <= 0 {
		errs = append(errs, errors.New("grid.cell_size and grid.cells must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
