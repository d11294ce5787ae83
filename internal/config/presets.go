package config

import "sort"

var Presets = map[string]map[string]*Config{
	"orbit": {
		"iss": {
			Model: "orbit", Integrator: "rk4", Controller: "none", Dt: 10, Duration: 5560,
			Tolerance: DefaultTolerance,
			Params:    map[string]float64{"altitude": 420e3, "inclination": 51.64},
		},
		"sso": {
			Model: "orbit", Integrator: "rk4", Controller: "none", Dt: 10, Duration: 5930,
			Tolerance: DefaultTolerance,
			Params:    map[string]float64{"altitude": 700e3, "inclination": 98.19},
		},
		"kepler": {
			Model: "orbit", Integrator: "verlet", Controller: "none", Dt: 5, Duration: 5560,
			Tolerance: DefaultTolerance,
			Params:    map[string]float64{"j2": 0},
		},
		"raise": {
			Model: "orbit", Integrator: "rk45", Controller: "prograde", Dt: 10, Duration: 11000,
			Adaptive: true, Tolerance: 1e-6,
			ControllerParams: ControllerConfig{Magnitude: 0.01, Start: 0, Stop: 1800},
		},
	},
	"earth3dof": {
		"sounding": {
			Model: "earth3dof", Integrator: "rk4", Controller: "none", Dt: 0.05, Duration: 250,
			Tolerance: DefaultTolerance,
			InitState: InitStateConfig{Frame: FrameGeodetic, Altitude: 10, VUp: 1000},
		},
		"reentry": {
			Model: "earth3dof", Integrator: "rk4", Controller: "none", Dt: 0.1, Duration: 900,
			Tolerance: DefaultTolerance,
			InitState: InitStateConfig{Frame: FrameGeodetic, Latitude: 28.5, Longitude: -80.6, Altitude: 70e3, VEast: 3000, VUp: -200},
			Vehicle:   VehicleConfig{Mass: 500, Cd: 1.3, Area: 1.2},
		},
		"drop": {
			Model: "earth3dof", Integrator: "rk4", Controller: "none", Dt: 0.01, Duration: 30,
			Tolerance: DefaultTolerance,
			InitState: InitStateConfig{Frame: FrameGeodetic, Latitude: 45, Altitude: 1000},
		},
	},
	"lag": {
		"step": {
			Model: "lag", Integrator: "rk4", Controller: "none", Dt: 0.01, Duration: 5,
			Tolerance: DefaultTolerance,
			InitState: InitStateConfig{Frame: FrameLag, Input: 1},
		},
		"fast": {
			Model: "lag", Integrator: "rosenbrock", Controller: "none", Dt: 0.01, Duration: 1,
			Tolerance: DefaultTolerance,
			InitState: InitStateConfig{Frame: FrameLag, Input: 1},
			Params:    map[string]float64{"cutoff": 50},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
