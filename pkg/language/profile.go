package language

import "math"

// Safe ranges accepted by every synthesis backend.
const (
	MinRate   = 0.5
	MaxRate   = 2.0
	MinPitch  = 0.5
	MaxPitch  = 2.0
	MinVolume = 0.1
	MaxVolume = 1.0
)

// Profile holds synthesis parameters for one language.
type Profile struct {
	Locale string
	Rate   float64
	Pitch  float64
	Volume float64
}

// Clamped returns a copy with every numeric field inside its safe range.
// NaN values reset to the neutral value 1.0.
func (p Profile) Clamped() Profile {
	p.Rate = clamp(p.Rate, MinRate, MaxRate)
	p.Pitch = clamp(p.Pitch, MinPitch, MaxPitch)
	p.Volume = clamp(p.Volume, MinVolume, MaxVolume)
	return p
}

// Scaled multiplies rate and pitch by the given factors and clamps the result.
func (p Profile) Scaled(rate, pitch float64) Profile {
	p.Rate *= rate
	p.Pitch *= pitch
	return p.Clamped()
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 1.0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
