package progression

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/flavour"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/schedule"
	"github.com/danielpatrickdp/alien-probe/internal/state"
	"github.com/danielpatrickdp/alien-probe/internal/update"
)

// DefaultTransitionDelay is the pause between resolving a puzzle and loading the next.
const DefaultTransitionDelay = 3 * time.Second

var (
	// ErrInvalidState is returned when the level index does not address a puzzle.
	ErrInvalidState = errors.New("invalid progression state")
	ErrUnknownMeter = errors.New("unknown meter")
	// ErrInvalidDelta is returned for NaN or infinite meter adjustments.
	ErrInvalidDelta = errors.New("meter delta must be finite")
)

// #region phase
// Phase is the controller's position in its state machine.
type Phase int

const (
	Idle Phase = iota
	Resolving
	Transitioning
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Transitioning:
		return "transitioning"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// #endregion phase

// #region outcome
// Outcome describes one resolved puzzle for the presentation layer.
type Outcome struct {
	Level    int
	Puzzle   puzzle.Definition
	Correct  bool
	Deltas   update.Deltas
	Before   state.Progress
	After    state.Progress
	Feedback []string // dialogue keys to play
	Ending   ending.Decision
}

// #endregion outcome

// #region collaborators
// Presenter receives notifications for UI and dialogue playback. Calls arrive in
// the order the controller produced them and never while its lock is held.
type Presenter interface {
	MeterChanged(c update.MeterChange)
	OutcomeResolved(o Outcome)
	TransitionStarted(level int, delay time.Duration)
	LevelCategoryChanged(c flavour.Category)
	EndingDetermined(k ending.Kind)
}

// Loader pushes a puzzle to the input layer.
type Loader interface {
	LoadPuzzle(def puzzle.Definition)
}

// Persister stores the four progress scalars.
type Persister interface {
	Save(p state.Progress) error
	Load() (state.Progress, bool, error)
}

// Recorder keeps an audit trail of resolved outcomes.
type Recorder interface {
	RecordOutcome(rec logging.OutcomeRecord) error
}

// NopPresenter ignores every notification. Embed it to implement a subset.
type NopPresenter struct{}

func (NopPresenter) MeterChanged(update.MeterChange) {}
func (NopPresenter) OutcomeResolved(Outcome) {}
func (NopPresenter) TransitionStarted(int, time.Duration) {}
func (NopPresenter) LevelCategoryChanged(flavour.Category) {}
func (NopPresenter) EndingDetermined(ending.Kind) {}

type nopLoader struct{}

func (nopLoader) LoadPuzzle(puzzle.Definition) {}

// #endregion collaborators

// #region options
// Options wires a Controller. Zero fields get working defaults: no-op presenter
// and loader, in-memory persistence, real timers, discarded logs.
type Options struct {
	Presenter       Presenter
	Loader          Loader
	Persister       Persister
	Recorder        Recorder
	Scheduler       schedule.Scheduler
	Logger          *slog.Logger
	Ending          *ending.Config
	TransitionDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Presenter == nil {
		o.Presenter = NopPresenter{}
	}
	if o.Loader == nil {
		o.Loader = nopLoader{}
	}
	if o.Persister == nil {
		o.Persister = state.NewMemoryStore()
	}
	if o.Scheduler == nil {
		o.Scheduler = schedule.Real{}
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Ending == nil {
		cfg := ending.DefaultConfig()
		o.Ending = &cfg
	}
	if o.TransitionDelay <= 0 {
		o.TransitionDelay = DefaultTransitionDelay
	}
	return o
}

// #endregion options

// #region snapshot
// Snapshot is a point-in-time, wire-friendly view of a session.
type Snapshot struct {
	Level          int     `json:"level"`
	Total          int     `json:"total"`
	Destruction    float32 `json:"destruction"`
	ZorpRespect    float32 `json:"zorp_respect"`
	XylarCuriosity float32 `json:"xylar_curiosity"`
	Percentage     float32 `json:"progress_percentage"`
	Phase          string  `json:"phase"`
	Category       string  `json:"category"`
	Ending         string  `json:"ending"`
	PuzzleID       string  `json:"puzzle_id,omitempty"`
}

// Progress returns the level and meters carried by the snapshot.
func (s Snapshot) Progress() state.Progress {
	return state.Progress{
		Level:          s.Level,
		Destruction:    s.Destruction,
		ZorpRespect:    s.ZorpRespect,
		XylarCuriosity: s.XylarCuriosity,
	}
}

// #endregion snapshot
