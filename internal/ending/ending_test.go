package ending

import (
	"testing"

	"github.com/danielpatrickdp/alien-probe/internal/state"
)

func progress(level int, d, z, x float32) state.Progress {
	return state.Progress{Level: level, Destruction: d, ZorpRespect: z, XylarCuriosity: x}
}

func TestDestructionWinsOverEverything(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	// Last puzzle with conversion-grade respect, but destruction hit the limit.
	d := e.Evaluate(progress(2, 100, 95, 95), 3)
	if d.Kind != Destruction {
		t.Fatalf("expected Destruction, got %s (%s)", d.Kind, d.Reason)
	}
	if !d.Ended() || d.Kind.IsVictory() {
		t.Fatal("destruction should end the session as a loss")
	}
}

func TestContinueBeforeLastPuzzle(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	d := e.Evaluate(progress(0, 99.9, 0, 0), 3)
	if d.Ended() {
		t.Fatalf("expected no ending, got %s", d.Kind)
	}
}

func TestConversionOnLastPuzzle(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	d := e.Evaluate(progress(2, 5, 95, 92), 3)
	if d.Kind != Conversion {
		t.Fatalf("expected Conversion, got %s", d.Kind)
	}
}

func TestConversionBoundariesInclusive(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	if k := e.Evaluate(progress(0, 10, 90, 90), 1).Kind; k != Conversion {
		t.Fatalf("expected Conversion at exact thresholds, got %s", k)
	}
	if k := e.Evaluate(progress(0, 10.5, 90, 90), 1).Kind; k == Conversion {
		t.Fatal("destruction above 10 must not convert")
	}
}

func TestAcademicExchange(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	d := e.Evaluate(progress(20, 15, 50, 50), 21)
	if d.Kind != AcademicExchange {
		t.Fatalf("expected AcademicExchange, got %s", d.Kind)
	}
	// Same meters on a short catalog fall through to Salvation.
	d = e.Evaluate(progress(4, 15, 50, 50), 5)
	if d.Kind != Salvation {
		t.Fatalf("expected Salvation below academic level, got %s", d.Kind)
	}
}

func TestSalvationFallback(t *testing.T) {
	e := NewEvaluator(DefaultConfig())
	d := e.Evaluate(progress(30, 60, 10, 10), 31)
	if d.Kind != Salvation {
		t.Fatalf("expected Salvation, got %s", d.Kind)
	}
	if !d.Kind.IsVictory() {
		t.Fatal("salvation is a victory")
	}
}

func TestCustomConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DestructionLimit = 80
	e := NewEvaluator(cfg)
	if k := e.Evaluate(progress(0, 80, 0, 0), 10).Kind; k != Destruction {
		t.Fatalf("expected Destruction at custom limit, got %s", k)
	}
	if e.Config().DestructionLimit != 80 {
		t.Fatal("Config should echo thresholds")
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{None, Destruction, Salvation, Conversion, AcademicExchange} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("triumph"); err == nil {
		t.Fatal("expected error for unknown ending")
	}
}
