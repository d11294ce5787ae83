// Package atmosphere implements the lower 71 km of the U.S. Standard
// Atmosphere 1976 as six layers with linear temperature profiles.
//
// Every function is evaluated independently per call: there is no cached
// layer lookup and no shared state. Altitudes outside [Floor, Ceiling] yield
// NaN temperature and pressure, and a NaN density follows from the ideal-gas
// closure.
package atmosphere

import "math"

const (
	// R is the specific gas constant of dry air, J/(kg·K).
	R = 287.05
	// G0 is standard gravity, m/s².
	G0 = 9.80665

	Floor   = 0.0     // m
	Ceiling = 71000.0 // m
)

// Layer is one altitude band of the model.
type Layer struct {
	Name                string
	AltitudeMin         float64 // m
	AltitudeMax         float64 // m
	TemperatureBase     float64 // K at AltitudeMin
	TemperatureGradient float64 // K/m
	PressureBase        float64 // Pa at AltitudeMin
}

var layers = [6]Layer{
	{"troposphere", 0, 11000, 288.15, -0.0065, 101325.0},
	{"tropopause", 11000, 20000, 216.65, 0.0, 22632.06},
	{"stratosphere", 20000, 32000, 216.65, 0.001, 5474.889},
	{"upper stratosphere", 32000, 47000, 228.65, 0.0028, 868.0187},
	{"stratopause", 47000, 51000, 270.65, 0.0, 110.9063},
	{"mesosphere", 51000, 71000, 270.65, -0.0028, 66.93887},
}

// Layers returns a copy of the layer table ordered by altitude.
func Layers() []Layer {
	out := make([]Layer, len(layers))
	copy(out, layers[:])
	return out
}

// LayerAt returns the first layer whose closed interval contains altitude.
// Shared boundaries resolve to the lower layer.
func LayerAt(altitude float64) (Layer, bool) {
	for _, l := range layers {
		if altitude >= l.AltitudeMin && altitude <= l.AltitudeMax {
			return l, true
		}
	}
	return Layer{}, false
}

// Temperature returns the static air temperature in K.
func Temperature(altitude float64) float64 {
	l, ok := LayerAt(altitude)
	if !ok {
		return math.NaN()
	}
	return l.temperature(altitude)
}

// Pressure returns the static pressure in Pa from the barometric formula of
// the enclosing layer.
func Pressure(altitude float64) float64 {
	l, ok := LayerAt(altitude)
	if !ok {
		return math.NaN()
	}
	if l.TemperatureGradient != 0 {
		ratio := l.temperature(altitude) / l.TemperatureBase
		return l.PressureBase * math.Pow(ratio, -G0/(R*l.TemperatureGradient))
	}
	return l.PressureBase * math.Exp(-G0*(altitude-l.AltitudeMin)/(R*l.TemperatureBase))
}

// Density returns the air density in kg/m³. Out-of-range altitudes give NaN.
func Density(altitude float64) float64 {
	return Pressure(altitude) / (R * Temperature(altitude))
}

func (l Layer) temperature(altitude float64) float64 {
	return l.TemperatureBase + l.TemperatureGradient*(altitude-l.AltitudeMin)
}

// Conditions bundles the three state variables at one altitude.
type Conditions struct {
	Altitude    float64 `json:"altitude"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Density     float64 `json:"density"`
}

func Sample(altitude float64) Conditions {
	return Conditions{
		Altitude:    altitude,
		Temperature: Temperature(altitude),
		Pressure:    Pressure(altitude),
		Density:     Density(altitude),
	}
}

// InRange reports whether altitude lies inside the modelled band.
func InRange(altitude float64) bool {
	_, ok := LayerAt(altitude)
	return ok
}
