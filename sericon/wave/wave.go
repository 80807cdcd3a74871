// Package wave synthesizes the periodic signals previewed by the scope.
package wave

import "math"

// Kind selects the waveform shape.
type Kind uint8

const (
	Sine Kind = iota
	Square
	Sawtooth

	kindCount
)

func (k Kind) String() string {
	switch k {
	case Sine:
		return "Sine"
	case Square:
		return "Square"
	case Sawtooth:
		return "Sawtooth"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined shapes.
func (k Kind) Valid() bool { return k < kindCount }

// Next returns the following shape, wrapping from Sawtooth back to Sine.
func (k Kind) Next() Kind {
	if !k.Valid() {
		return Sine
	}
	return (k + 1) % kindCount
}

// ParseKind accepts the shape names used on the command line.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "sine", "Sine":
		return Sine, true
	case "square", "Square":
		return Square, true
	case "saw", "sawtooth", "Sawtooth":
		return Sawtooth, true
	default:
		return Sine, false
	}
}

// Phase returns the position within the current cycle, in [0, 1).
func Phase(frequency, t float64) float64 {
	_, frac := math.Modf(frequency * t)
	if frac < 0 {
		frac++
	}
	if frac >= 1 {
		frac = 0
	}
	return frac
}

// Sample returns the instantaneous signal value at time t (seconds).
func Sample(k Kind, frequency, amplitude, t float64) float64 {
	switch k {
	case Square:
		return AtPhase(Square, Phase(frequency, t), amplitude)
	case Sawtooth:
		return AtPhase(Sawtooth, Phase(frequency, t), amplitude)
	default:
		return amplitude * math.Sin(2*math.Pi*frequency*t)
	}
}

// AtPhase evaluates a shape at an already accumulated phase in [0, 1).
func AtPhase(k Kind, phase, amplitude float64) float64 {
	switch k {
	case Square:
		if phase < 0.5 {
			return amplitude
		}
		return -amplitude
	case Sawtooth:
		return amplitude * (2*phase - 1)
	default:
		return amplitude * math.Sin(2*math.Pi*phase)
	}
}
