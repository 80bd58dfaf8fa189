package update

import (
	"math"
	"math/rand"
	"testing"

	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

func testPuzzle() puzzle.Definition {
	return puzzle.Definition{
		ID:                     "time-001",
		Solution:               "TIME",
		DestructionOnCorrect:   -10,
		DestructionOnIncorrect: 5,
	}
}

func TestZorpDeltaEndpoints(t *testing.T) {
	cases := []struct {
		current float32
		correct bool
		want    float32
	}{
		{0, true, 5},
		{100, true, 2},
		{50, true, 3.5},
		{0, false, -3},
		{100, false, -1},
		{50, false, -2},
	}
	for _, c := range cases {
		if got := ZorpDelta(c.current, c.correct); got != c.want {
			t.Errorf("ZorpDelta(%v, %v) = %v, want %v", c.current, c.correct, got, c.want)
		}
	}
}

func TestXylarDeltaEndpoints(t *testing.T) {
	cases := []struct {
		current float32
		correct bool
		want    float32
	}{
		{0, true, 3},
		{100, true, 4},
		{25, true, 3.25},
		{0, false, 1},
		{100, false, 2},
		{25, false, 1.25},
	}
	for _, c := range cases {
		if got := XylarDelta(c.current, c.correct); got != c.want {
			t.Errorf("XylarDelta(%v, %v) = %v, want %v", c.current, c.correct, got, c.want)
		}
	}
}

func TestLerpClampsT(t *testing.T) {
	if got := Lerp(5, 2, -1); got != 5 {
		t.Fatalf("expected 5 for t<0, got %v", got)
	}
	if got := Lerp(5, 2, 3); got != 2 {
		t.Fatalf("expected 2 for t>1, got %v", got)
	}
}

func TestApplyCorrectFromDefaults(t *testing.T) {
	res := Apply(state.DefaultProgress(), testPuzzle(), true)

	want := state.Progress{Level: 0, Destruction: 40, ZorpRespect: 5, XylarCuriosity: 28.25}
	if res.NewState != want {
		t.Fatalf("expected %+v, got %+v", want, res.NewState)
	}
	if len(res.Changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(res.Changes))
	}
	if res.Changes[0].Meter != state.MeterDestruction || res.Changes[0].Old != 50 || res.Changes[0].New != 40 {
		t.Fatalf("unexpected destruction change %+v", res.Changes[0])
	}
	if res.Deltas.Destruction != -10 {
		t.Fatalf("expected destruction delta -10, got %v", res.Deltas.Destruction)
	}
}

func TestApplyIncorrectFromDefaults(t *testing.T) {
	res := Apply(state.DefaultProgress(), testPuzzle(), false)

	// Zorp is already 0 so the -3 penalty clamps to no change.
	want := state.Progress{Level: 0, Destruction: 55, ZorpRespect: 0, XylarCuriosity: 26.25}
	if res.NewState != want {
		t.Fatalf("expected %+v, got %+v", want, res.NewState)
	}
	if len(res.Changes) != 2 {
		t.Fatalf("expected 2 changes (zorp clamped), got %d: %+v", len(res.Changes), res.Changes)
	}
	for _, c := range res.Changes {
		if c.Meter == state.MeterZorpRespect {
			t.Fatal("zorp change must not be reported when the clamped value is unchanged")
		}
	}
}

func TestApplyDoesNotTouchLevel(t *testing.T) {
	start := state.DefaultProgress()
	start.Level = 9
	res := Apply(start, testPuzzle(), true)
	if res.NewState.Level != 9 {
		t.Fatalf("expected level 9, got %d", res.NewState.Level)
	}
}

func TestAdjustNoChangeAtBound(t *testing.T) {
	p := state.Progress{Destruction: 100}
	next, c := Adjust(p, state.MeterDestruction, 25)
	if c != nil {
		t.Fatalf("expected no change at upper bound, got %+v", c)
	}
	if next != p {
		t.Fatalf("expected unchanged progress, got %+v", next)
	}
}

func inRange(v float32) bool {
	return v >= state.MeterMin && v <= state.MeterMax
}

func TestClampNonFinite(t *testing.T) {
	cases := []struct {
		name string
		in   float32
		want float32
	}{
		{"nan", float32(math.NaN()), state.MeterMin},
		{"+inf", float32(math.Inf(1)), state.MeterMax},
		{"-inf", float32(math.Inf(-1)), state.MeterMin},
		{"max float", math.MaxFloat32, state.MeterMax},
		{"min float", -math.MaxFloat32, state.MeterMin},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Clamp(c.in); got != c.want {
				t.Fatalf("Clamp(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestAdjustIgnoresNaN(t *testing.T) {
	p := state.DefaultProgress()
	next, c := Adjust(p, state.MeterZorpRespect, float32(math.NaN()))
	if c != nil {
		t.Fatalf("expected no change for NaN delta, got %+v", c)
	}
	if next != p {
		t.Fatalf("expected unchanged progress, got %+v", next)
	}
}

func TestAdjustInfiniteDeltaHitsBound(t *testing.T) {
	p := state.DefaultProgress()
	next, c := Adjust(p, state.MeterXylarCuriosity, float32(math.Inf(1)))
	if c == nil || c.New != state.MeterMax || next.XylarCuriosity != state.MeterMax {
		t.Fatalf("expected xylar at max, got %+v change %+v", next, c)
	}
	next, c = Adjust(next, state.MeterXylarCuriosity, float32(math.Inf(-1)))
	if c == nil || c.New != state.MeterMin || next.XylarCuriosity != state.MeterMin {
		t.Fatalf("expected xylar at min, got %+v change %+v", next, c)
	}
}

func TestClampPropertyRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	extremes := []float32{
		float32(math.NaN()),
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
		math.MaxFloat32,
		-math.MaxFloat32,
	}
	p := state.DefaultProgress()
	for i := 0; i < 5000; i++ {
		m := state.Meters[rng.Intn(len(state.Meters))]
		delta := float32(rng.Float64()*400 - 200)
		if rng.Intn(10) == 0 {
			delta = extremes[rng.Intn(len(extremes))]
		}
		var c *MeterChange
		p, c = Adjust(p, m, delta)
		for _, mm := range state.Meters {
			v := p.Get(mm)
			if !inRange(v) {
				t.Fatalf("step %d: meter %s out of range: %v", i, mm, v)
			}
		}
		if c != nil && !inRange(c.New) {
			t.Fatalf("step %d: change reported out of range: %+v", i, c)
		}

		def := puzzle.Definition{
			ID:                     "p",
			DestructionOnCorrect:   float32(rng.Float64()*60 - 30),
			DestructionOnIncorrect: float32(rng.Float64()*60 - 30),
		}
		p = Apply(p, def, rng.Intn(2) == 0).NewState
		for _, mm := range state.Meters {
			v := p.Get(mm)
			if !inRange(v) {
				t.Fatalf("step %d: meter %s out of range after Apply: %v", i, mm, v)
			}
		}
	}
}
