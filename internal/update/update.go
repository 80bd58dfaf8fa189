package update

import (
	"math"

	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region math
// Clamp limits v to the meter range. NaN maps to the lower bound.
func Clamp(v float32) float32 {
	if math.IsNaN(float64(v)) || v < state.MeterMin {
		return state.MeterMin
	}
	if v > state.MeterMax {
		return state.MeterMax
	}
	return v
}

// Lerp interpolates between a and b with t clamped to [0, 1].
func Lerp(a, b, t float32) float32 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}

// ZorpDelta returns the respect change for an outcome. Gains shrink and
// penalties soften as respect rises.
func ZorpDelta(current float32, correct bool) float32 {
	t := current / state.MeterMax
	if correct {
		return Lerp(5, 2, t)
	}
	return Lerp(-3, -1, t)
}

// XylarDelta returns the curiosity change for an outcome. Wrong answers still
// raise curiosity.
func XylarDelta(current float32, correct bool) float32 {
	t := current / state.MeterMax
	if correct {
		return Lerp(3, 4, t)
	}
	return Lerp(1, 2, t)
}

// #endregion math

// #region apply
// Apply is a pure function computing the meter effects of one outcome on the
// given puzzle. The level index is not touched.
func Apply(old state.Progress, def puzzle.Definition, correct bool) Result {
	d := Deltas{
		Destruction:    def.DestructionOnIncorrect,
		ZorpRespect:    ZorpDelta(old.ZorpRespect, false),
		XylarCuriosity: XylarDelta(old.XylarCuriosity, false),
	}
	if correct {
		d = Deltas{
			Destruction:    def.DestructionOnCorrect,
			ZorpRespect:    ZorpDelta(old.ZorpRespect, true),
			XylarCuriosity: XylarDelta(old.XylarCuriosity, true),
		}
	}

	next := old
	var changes []MeterChange
	for _, step := range []struct {
		meter state.Meter
		delta float32
	}{
		{state.MeterDestruction, d.Destruction},
		{state.MeterZorpRespect, d.ZorpRespect},
		{state.MeterXylarCuriosity, d.XylarCuriosity},
	} {
		var c *MeterChange
		next, c = Adjust(next, step.meter, step.delta)
		if c != nil {
			changes = append(changes, *c)
		}
	}

	return Result{
		NewState: next,
		Deltas:   d,
		Changes:  changes,
	}
}

// #endregion apply

// #region adjust
// Adjust adds delta to one meter with clamping. The change is nil when the
// clamped value equals the old one or delta is NaN.
func Adjust(p state.Progress, m state.Meter, delta float32) (state.Progress, *MeterChange) {
	if math.IsNaN(float64(delta)) {
		return p, nil
	}
	old := p.Get(m)
	v := Clamp(old + delta)
	if v == old {
		return p, nil
	}
	return p.With(m, v), &MeterChange{Meter: m, Old: old, New: v}
}

// #endregion adjust
