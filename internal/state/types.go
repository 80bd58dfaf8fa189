package state

import (
	"fmt"
	"time"
)

// #region meter-bounds
const (
	MeterMin float32 = 0
	MeterMax float32 = 100
)

// #endregion meter-bounds

// #region meter
// Meter identifies one of the three clamped progression meters.
type Meter int

const (
	MeterDestruction Meter = iota
	MeterZorpRespect
	MeterXylarCuriosity
)

// Meters lists every meter in notification order.
var Meters = []Meter{MeterDestruction, MeterZorpRespect, MeterXylarCuriosity}

func (m Meter) String() string {
	switch m {
	case MeterDestruction:
		return "destruction"
	case MeterZorpRespect:
		return "zorp_respect"
	case MeterXylarCuriosity:
		return "xylar_curiosity"
	default:
		return fmt.Sprintf("meter(%d)", int(m))
	}
}

// Valid reports whether m is one of Meters.
func (m Meter) Valid() bool {
	return m >= MeterDestruction && m <= MeterXylarCuriosity
}

// ParseMeter maps a meter name (or a short alias) back to its Meter.
func ParseMeter(s string) (Meter, error) {
	switch s {
	case "destruction", "threat":
		return MeterDestruction, nil
	case "zorp_respect", "zorp":
		return MeterZorpRespect, nil
	case "xylar_curiosity", "xylar":
		return MeterXylarCuriosity, nil
	}
	return 0, fmt.Errorf("unknown meter %q", s)
}

// #endregion meter

// #region progress
// Progress is the persisted slice of a session: level index and the three meters.
type Progress struct {
	Level          int     `json:"level"`
	Destruction    float32 `json:"destruction"`
	ZorpRespect    float32 `json:"zorp_respect"`
	XylarCuriosity float32 `json:"xylar_curiosity"`
}

// DefaultProgress returns the fresh-session values used when nothing is saved.
func DefaultProgress() Progress {
	return Progress{
		Level:          0,
		Destruction:    50,
		ZorpRespect:    0,
		XylarCuriosity: 25,
	}
}

// Get returns the value of a single meter.
func (p Progress) Get(m Meter) float32 {
	switch m {
	case MeterDestruction:
		return p.Destruction
	case MeterZorpRespect:
		return p.ZorpRespect
	case MeterXylarCuriosity:
		return p.XylarCuriosity
	}
	return 0
}

// With returns a copy of p with meter m set to v. No clamping is applied.
func (p Progress) With(m Meter, v float32) Progress {
	switch m {
	case MeterDestruction:
		p.Destruction = v
	case MeterZorpRespect:
		p.ZorpRespect = v
	case MeterXylarCuriosity:
		p.XylarCuriosity = v
	}
	return p
}

// #endregion progress

// #region version-record
// VersionRecord is one saved snapshot in the progress history.
type VersionRecord struct {
	VersionID string
	ParentID  string
	Progress  Progress
	CreatedAt time.Time
}

// #endregion version-record
