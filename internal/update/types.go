package update

import "github.com/danielpatrickdp/alien-probe/internal/state"

// #region meter-change
// MeterChange records a committed change to one meter, after clamping.
type MeterChange struct {
	Meter state.Meter `json:"meter"`
	Old   float32     `json:"old"`
	New   float32     `json:"new"`
}

// #endregion meter-change

// #region deltas
// Deltas are the raw, unclamped deltas computed for one outcome.
type Deltas struct {
	Destruction    float32 `json:"destruction"`
	ZorpRespect    float32 `json:"zorp_respect"`
	XylarCuriosity float32 `json:"xylar_curiosity"`
}

// #endregion deltas

// #region update-result
// Result bundles everything returned by Apply.
type Result struct {
	NewState state.Progress
	Deltas   Deltas
	Changes  []MeterChange // only meters whose clamped value moved
}

// #endregion update-result
