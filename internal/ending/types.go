package ending

import "fmt"

// #region kind
// Kind is the terminal classification of a session.
type Kind int

const (
	None Kind = iota
	Destruction
	Salvation
	Conversion
	AcademicExchange
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Destruction:
		return "destruction"
	case Salvation:
		return "salvation"
	case Conversion:
		return "conversion"
	case AcademicExchange:
		return "academic_exchange"
	default:
		return fmt.Sprintf("ending(%d)", int(k))
	}
}

// ParseKind maps a name produced by String back to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{None, Destruction, Salvation, Conversion, AcademicExchange} {
		if k.String() == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown ending %q", s)
}

// IsVictory reports whether k is one of the winning endings.
func (k Kind) IsVictory() bool {
	return k == Salvation || k == Conversion || k == AcademicExchange
}

// #endregion kind

// #region config
// Config holds the end-condition thresholds.
type Config struct {
	DestructionLimit         float32 `yaml:"destruction_limit" json:"destruction_limit"`
	ConversionMaxDestruction float32 `yaml:"conversion_max_destruction" json:"conversion_max_destruction"`
	ConversionMinZorp        float32 `yaml:"conversion_min_zorp" json:"conversion_min_zorp"`
	ConversionMinXylar       float32 `yaml:"conversion_min_xylar" json:"conversion_min_xylar"`
	AcademicMaxDestruction   float32 `yaml:"academic_max_destruction" json:"academic_max_destruction"`
	AcademicMinLevel         int     `yaml:"academic_min_level" json:"academic_min_level"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		DestructionLimit:         100,
		ConversionMaxDestruction: 10,
		ConversionMinZorp:        90,
		ConversionMinXylar:       90,
		AcademicMaxDestruction:   20,
		AcademicMinLevel:         20,
	}
}

// #endregion config

// #region decision
// Decision is the output of an end-condition evaluation.
type Decision struct {
	Kind   Kind
	Reason string
}

// Ended reports whether the session is over.
func (d Decision) Ended() bool {
	return d.Kind != None
}

// #endregion decision
