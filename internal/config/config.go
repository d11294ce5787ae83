package config

import (
	"fmt"
	"os"

	"github.com/san-kum/astrodyn/internal/coord"
	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/epoch"
	"github.com/san-kum/astrodyn/internal/frames"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 10.0
	DefaultDuration  = 5400.0
	DefaultTolerance = 1e-9
)

// Initial state frames.
const (
	FrameDefault  = "default"
	FrameGeodetic = "geodetic"
	FrameECEF     = "ecef"
	FrameECI      = "eci"
	FrameLag      = "lag"
)

type Config struct {
	Model            string             `yaml:"model"`
	Integrator       string             `yaml:"integrator"`
	Controller       string             `yaml:"controller"`
	Dt               float64            `yaml:"dt"`
	Duration         float64            `yaml:"duration"`
	Adaptive         bool               `yaml:"adaptive"`
	Tolerance        float64            `yaml:"tolerance"`
	Seed             int64              `yaml:"seed"`
	Epoch            epoch.Calendar     `yaml:"epoch"`
	InitState        InitStateConfig    `yaml:"init_state"`
	Vehicle          VehicleConfig      `yaml:"vehicle"`
	ControllerParams ControllerConfig   `yaml:"controller_params"`
	Params           map[string]float64 `yaml:"params,omitempty"`
}

// InitStateConfig selects how the initial state is built. Only the fields of
// the chosen frame are read.
type InitStateConfig struct {
	Frame string `yaml:"frame"`

	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude"`
	VNorth    float64 `yaml:"v_north"`
	VEast     float64 `yaml:"v_east"`
	VUp       float64 `yaml:"v_up"`

	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`

	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// VehicleConfig overrides the rotating-Earth vehicle. Zero fields keep the
// model defaults.
type VehicleConfig struct {
	Mass float64 `yaml:"mass"`
	Cd   float64 `yaml:"cd"`
	Area float64 `yaml:"area"`
}

type ControllerConfig struct {
	Magnitude float64    `yaml:"magnitude"`
	Start     float64    `yaml:"start"`
	Stop      float64    `yaml:"stop"`
	Vector    [3]float64 `yaml:"vector"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "orbit",
		Integrator: "rk4",
		Controller: "none",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Tolerance:  DefaultTolerance,
		InitState:  InitStateConfig{Frame: FrameDefault},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be modified by callers.
func (c *Config) Clone() *Config {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive", dynamo.ErrInvalidConfig)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", dynamo.ErrInvalidConfig)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive", dynamo.ErrInvalidConfig)
	}
	switch c.InitState.Frame {
	case "", FrameDefault, FrameGeodetic, FrameECEF, FrameECI, FrameLag:
	default:
		return fmt.Errorf("%w: unknown init_state frame %q", dynamo.ErrInvalidConfig, c.InitState.Frame)
	}
	return nil
}

// GetInitState returns the explicit initial state, or nil when the model
// should build its own from its parameters (default and geodetic frames).
// ECEF states are taken to be given at t = 0, where ECEF and ECI coincide.
func (c *Config) GetInitState() []float64 {
	s := c.InitState
	switch s.Frame {
	case FrameECI:
		return []float64{s.Position[0], s.Position[1], s.Position[2], s.Velocity[0], s.Velocity[1], s.Velocity[2]}
	case FrameECEF:
		eci := frames.ECEFToECIWithVelocity(coord.ECEFState{
			R: coord.ECEF{X: s.Position[0], Y: s.Position[1], Z: s.Position[2]},
			V: coord.ECEF{X: s.Velocity[0], Y: s.Velocity[1], Z: s.Velocity[2]},
		}, 0)
		return []float64{eci.R.X, eci.R.Y, eci.R.Z, eci.V.X, eci.V.Y, eci.V.Z}
	case FrameLag:
		return []float64{s.Output, s.Input}
	default:
		return nil
	}
}

// ModelParams collects the parameters to apply to the model before it builds
// its default state. Explicit Params win over the vehicle and geodetic
// sections.
func (c *Config) ModelParams() map[string]float64 {
	p := make(map[string]float64)
	if c.Model == "earth3dof" {
		if c.Vehicle.Mass > 0 {
			p["mass"] = c.Vehicle.Mass
		}
		if c.Vehicle.Cd > 0 {
			p["cd"] = c.Vehicle.Cd
		}
		if c.Vehicle.Area > 0 {
			p["area"] = c.Vehicle.Area
		}
		if c.InitState.Frame == FrameGeodetic {
			s := c.InitState
			p["latitude"] = s.Latitude
			p["longitude"] = s.Longitude
			p["altitude"] = s.Altitude
			p["v_north"] = s.VNorth
			p["v_east"] = s.VEast
			p["v_up"] = s.VUp
		}
	}
	for k, v := range c.Params {
		p[k] = v
	}
	return p
}

func (c *Config) GetControllerParams(controlDim int) map[string]float64 {
	return map[string]float64{
		"dim":       float64(controlDim),
		"magnitude": c.ControllerParams.Magnitude,
		"start":     c.ControllerParams.Start,
		"stop":      c.ControllerParams.Stop,
		"ux":        c.ControllerParams.Vector[0],
		"uy":        c.ControllerParams.Vector[1],
		"uz":        c.ControllerParams.Vector[2],
	}
}

// SimConfig converts the scenario into a simulator configuration.
func (c *Config) SimConfig() dynamo.Config {
	sc := dynamo.DefaultConfig()
	sc.Dt = c.Dt
	sc.Duration = c.Duration
	sc.Seed = c.Seed
	sc.Adaptive = c.Adaptive
	if c.Tolerance > 0 {
		sc.Tolerance = c.Tolerance
	}
	if sc.MaxDt < c.Dt {
		sc.MaxDt = c.Dt
	}
	return sc
}

// EpochJD returns the Julian Date of the scenario epoch, J2000 when unset.
func (c *Config) EpochJD() float64 {
	if c.Epoch.IsZero() {
		return epoch.J2000
	}
	return c.Epoch.JulianDate()
}
