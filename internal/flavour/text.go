// Package flavour derives level categories and looks up the narrative strings
// shown around the meters: category blurbs, ending narration and standings.
package flavour

import (
	_ "embed"
	"sync"

	"github.com/leonelquinteros/gotext"

	"github.com/danielpatrickdp/alien-probe/internal/ending"
)

//go:embed locale/en.po
var enPO []byte

var (
	catalogOnce sync.Once
	catalog     *gotext.Po
)

func po() *gotext.Po {
	catalogOnce.Do(func() {
		catalog = gotext.NewPo()
		catalog.Parse(enPO)
	})
	return catalog
}

// Text returns the message for key, or key itself when it has no translation.
func Text(key string) string {
	return po().Get(key)
}

// CategoryDescription returns the one-line blurb for c.
func CategoryDescription(c Category) string {
	return Text(c.key())
}

// EndingNarration returns the closing line for k. None has no narration.
func EndingNarration(k ending.Kind) string {
	switch k {
	case ending.Destruction:
		return Text("ENDING_DESTRUCTION")
	case ending.Salvation:
		return Text("ENDING_SALVATION")
	case ending.Conversion:
		return Text("ENDING_CONVERSION")
	case ending.AcademicExchange:
		return Text("ENDING_ACADEMIC_EXCHANGE")
	default:
		return ""
	}
}

// #region standings
// ZorpStanding labels the respect meter in quarters.
func ZorpStanding(v float32) string {
	switch {
	case v < 25:
		return Text("ZORP_HOSTILE")
	case v < 50:
		return Text("ZORP_SKEPTICAL")
	case v < 75:
		return Text("ZORP_IMPRESSED")
	default:
		return Text("ZORP_PROTECTIVE")
	}
}

// XylarStanding labels the curiosity meter in quarters.
func XylarStanding(v float32) string {
	switch {
	case v < 25:
		return Text("XYLAR_DETACHED")
	case v < 50:
		return Text("XYLAR_INTERESTED")
	case v < 75:
		return Text("XYLAR_FASCINATED")
	default:
		return Text("XYLAR_INVESTED")
	}
}

// ThreatBand buckets the destruction meter into thirds.
func ThreatBand(v float32) string {
	switch {
	case v < 33:
		return Text("THREAT_SAFE")
	case v < 66:
		return Text("THREAT_WARNING")
	default:
		return Text("THREAT_DANGER")
	}
}

// #endregion standings
