package engine

import "fmt"

// Period is a match phase. Periods only move forward.
type Period int

const (
	FirstHalf Period = iota
	HalfTime
	SecondHalf
	Finished
)

var periodNames = map[Period]string{
	FirstHalf:  "first_half",
	HalfTime:   "half_time",
	SecondHalf: "second_half",
	Finished:   "finished",
}

// String returns the snake_case name used in logs, scenarios and JSON.
func (p Period) String() string {
	if s, ok := periodNames[p]; ok {
		return s
	}
	return fmt.Sprintf("period(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(b []byte) error {
	v, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePeriod is the inverse of Period.String.
func ParsePeriod(s string) (Period, error) {
	for p, name := range periodNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown period %q", s)
}

// Ball is the abstract ball position. X runs along the pitch length (home
// attacks toward +X), Z across its width.
type Ball struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Pitch bounds. The ball is kept inside the playable box on every tick.
const (
	PitchHalfLength = 50.0
	PitchHalfWidth  = 25.0
	playableX       = 48.0
	playableZ       = 23.0
)

func (b *Ball) clampToPlayable() {
	b.X = clamp(b.X, -playableX, playableX)
	b.Z = clamp(b.Z, -playableZ, playableZ)
}
