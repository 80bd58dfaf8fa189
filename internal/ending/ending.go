// Package ending decides whether a session is over after an outcome, and which
// ending it reached.
package ending

import (
	"fmt"

	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region evaluator
// Evaluator applies a Config to progress snapshots.
type Evaluator struct {
	config Config
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(config Config) *Evaluator {
	return &Evaluator{config: config}
}

// Config returns the thresholds in use.
func (e *Evaluator) Config() Config {
	return e.config
}

// Evaluate checks the loss condition first, then the last-puzzle victory table.
// p.Level is the index of the puzzle that was just resolved; total is the
// catalog size.
func (e *Evaluator) Evaluate(p state.Progress, total int) Decision {
	if p.Destruction >= e.config.DestructionLimit {
		return Decision{
			Kind:   Destruction,
			Reason: fmt.Sprintf("destruction %.1f reached limit %.1f", p.Destruction, e.config.DestructionLimit),
		}
	}
	if p.Level+1 >= total {
		return e.victory(p)
	}
	return Decision{Kind: None, Reason: fmt.Sprintf("level %d of %d, continuing", p.Level+1, total)}
}

// #endregion evaluator

// #region victory
func (e *Evaluator) victory(p state.Progress) Decision {
	c := e.config
	if p.Destruction <= c.ConversionMaxDestruction && p.ZorpRespect >= c.ConversionMinZorp && p.XylarCuriosity >= c.ConversionMinXylar {
		return Decision{
			Kind: Conversion,
			Reason: fmt.Sprintf("destruction %.1f <= %.1f, zorp %.1f and xylar %.1f >= thresholds",
				p.Destruction, c.ConversionMaxDestruction, p.ZorpRespect, p.XylarCuriosity),
		}
	}
	if p.Destruction <= c.AcademicMaxDestruction && p.Level >= c.AcademicMinLevel {
		return Decision{
			Kind:   AcademicExchange,
			Reason: fmt.Sprintf("destruction %.1f <= %.1f at level %d", p.Destruction, c.AcademicMaxDestruction, p.Level),
		}
	}
	// Salvation doubles as the catch-all victory.
	return Decision{
		Kind:   Salvation,
		Reason: fmt.Sprintf("catalog complete with destruction %.1f", p.Destruction),
	}
}

// #endregion victory
