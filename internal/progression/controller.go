// Package progression owns a session's level index and meters, resolves puzzle
// outcomes, decides endings and drives the timed transition to the next puzzle.
package progression

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/flavour"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/schedule"
	"github.com/danielpatrickdp/alien-probe/internal/state"
	"github.com/danielpatrickdp/alien-probe/internal/update"
)

// #region controller-struct
// Controller is the sole mutator of a session's progress. It is safe for
// concurrent use; notifications are delivered outside its lock.
type Controller struct {
	catalog   *puzzle.Catalog
	presenter Presenter
	loader    Loader
	persister Persister
	recorder  Recorder
	scheduler schedule.Scheduler
	log       *slog.Logger
	evaluator *ending.Evaluator
	delay     time.Duration

	mu       sync.Mutex
	progress state.Progress
	phase    Phase
	ending   ending.Kind
	category flavour.Category
	pending  schedule.Timer
	gen      uint64 // bumped whenever a pending transition is invalidated
}

// #endregion controller-struct

// #region constructor
// New builds a controller at default progress. Call Start to load saved progress.
func New(catalog *puzzle.Catalog, opts Options) *Controller {
	opts = opts.withDefaults()
	p := state.DefaultProgress()
	return &Controller{
		catalog:   catalog,
		presenter: opts.Presenter,
		loader:    opts.Loader,
		persister: opts.Persister,
		recorder:  opts.Recorder,
		scheduler: opts.Scheduler,
		log:       opts.Logger,
		evaluator: ending.NewEvaluator(*opts.Ending),
		delay:     opts.TransitionDelay,
		progress:  p,
		category:  flavour.CategoryFor(p.Level),
	}
}

// #endregion constructor

// #region notify
// batch queues collaborator calls made while the lock is held.
type batch []func()

func (b *batch) add(fn func()) {
	*b = append(*b, fn)
}

func (b batch) run() {
	for _, fn := range b {
		fn()
	}
}

func (c *Controller) meterChanges(b *batch, changes []update.MeterChange) {
	for _, ch := range changes {
		ch := ch
		b.add(func() { c.presenter.MeterChanged(ch) })
	}
}

// #endregion notify

// #region start
// Start loads persisted progress (defaults when nothing is saved), announces the
// level category and loads the current puzzle.
func (c *Controller) Start() error {
	var b batch
	defer func() { b.run() }()

	c.mu.Lock()
	defer c.mu.Unlock()

	p, found, err := c.persister.Load()
	if err != nil {
		c.log.Warn("load progress failed, using defaults", "err", err)
		p, found = state.DefaultProgress(), false
	}
	p = clampProgress(p)
	c.progress = p
	c.phase = Idle
	c.ending = ending.None
	c.category = flavour.CategoryFor(p.Level)
	category := c.category
	b.add(func() { c.presenter.LevelCategoryChanged(category) })

	if c.catalog.Len() == 0 {
		c.log.Warn("catalog is empty, nothing to play")
		return nil
	}
	def, ok := c.catalog.At(p.Level)
	if !ok {
		c.log.Warn("saved level outside catalog", "level", p.Level, "total", c.catalog.Len())
		return nil
	}
	c.log.Info("session started",
		"level", p.Level,
		"resumed", found,
		"destruction", p.Destruction,
		"zorp", p.ZorpRespect,
		"xylar", p.XylarCuriosity,
		"category", category.String(),
	)
	b.add(func() { c.loader.LoadPuzzle(def) })
	return nil
}

func clampProgress(p state.Progress) state.Progress {
	for _, m := range state.Meters {
		p = p.With(m, update.Clamp(p.Get(m)))
	}
	if p.Level < 0 {
		p.Level = 0
	}
	return p
}

// #endregion start

// #region report-outcome
// ReportOutcome resolves the current puzzle. Calls while a transition is pending
// or after the game ended are ignored and return nil.
func (c *Controller) ReportOutcome(correct bool) error {
	_, err := c.Resolve(correct)
	return err
}

// Resolve is ReportOutcome that also reports whether the outcome was applied.
// It is false when the call arrived outside the Idle phase.
func (c *Controller) Resolve(correct bool) (bool, error) {
	_, applied, err := c.resolve(func(puzzle.Definition) bool { return correct })
	return applied, err
}

// SubmitAnswer checks answer against the current puzzle and resolves it under
// one lock, so the verdict always belongs to the puzzle it was applied to.
func (c *Controller) SubmitAnswer(answer string) (correct, applied bool, err error) {
	return c.resolve(func(def puzzle.Definition) bool { return puzzle.CheckAnswer(def, answer) })
}

func (c *Controller) resolve(judge func(puzzle.Definition) bool) (bool, bool, error) {
	var b batch
	defer func() { b.run() }()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Idle {
		c.log.Debug("outcome ignored", "phase", c.phase.String())
		return false, false, nil
	}

	level := c.progress.Level
	def, ok := c.catalog.At(level)
	if !ok {
		err := fmt.Errorf("level %d of %d: %w", level, c.catalog.Len(), ErrInvalidState)
		c.log.Error("outcome rejected", "err", err)
		return false, false, err
	}
	correct := judge(def)

	c.phase = Resolving
	before := c.progress
	res := update.Apply(before, def, correct)
	c.progress = res.NewState
	c.meterChanges(&b, res.Changes)

	decision := c.evaluator.Evaluate(c.progress, c.catalog.Len())
	outcome := Outcome{
		Level:    level,
		Puzzle:   def,
		Correct:  correct,
		Deltas:   res.Deltas,
		Before:   before,
		After:    c.progress,
		Feedback: def.Feedback(correct),
		Ending:   decision,
	}
	b.add(func() { c.presenter.OutcomeResolved(outcome) })

	c.log.Info("outcome resolved",
		"puzzle", def.ID,
		"level", level,
		"correct", correct,
		"destruction", c.progress.Destruction,
		"zorp", c.progress.ZorpRespect,
		"xylar", c.progress.XylarCuriosity,
		"ending", decision.Kind.String(),
	)
	c.record(outcome)
	c.save()

	if decision.Ended() {
		c.phase = GameOver
		c.ending = decision.Kind
		kind := decision.Kind
		c.log.Info("ending determined", "ending", kind.String(), "reason", decision.Reason)
		b.add(func() { c.presenter.EndingDetermined(kind) })
		return correct, true, nil
	}

	c.phase = Transitioning
	c.gen++
	gen := c.gen
	c.pending = c.scheduler.AfterFunc(c.delay, func() { c.finishTransition(gen) })
	delay := c.delay
	c.log.Debug("transition started", "level", level, "delay", delay)
	b.add(func() { c.presenter.TransitionStarted(level, delay) })
	return correct, true, nil
}

func (c *Controller) record(o Outcome) {
	if c.recorder == nil {
		return
	}
	rec := logging.OutcomeRecord{
		PuzzleID: o.Puzzle.ID,
		Level:    o.Level,
		Correct:  o.Correct,
		Before:   o.Before,
		After:    o.After,
		Ending:   o.Ending.Kind.String(),
		Reason:   o.Ending.Reason,
	}
	if err := c.recorder.RecordOutcome(rec); err != nil {
		c.log.Warn("record outcome failed", "puzzle", o.Puzzle.ID, "err", err)
	}
}

// save persists progress. Caller holds mu.
func (c *Controller) save() {
	if err := c.persister.Save(c.progress); err != nil {
		c.log.Warn("persist progress failed", "level", c.progress.Level, "err", err)
	}
}

// #endregion report-outcome

// #region transition
// finishTransition runs when the transition delay elapses.
func (c *Controller) finishTransition(gen uint64) {
	var b batch
	defer func() { b.run() }()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Transitioning || gen != c.gen {
		c.log.Debug("stale transition dropped", "phase", c.phase.String())
		return
	}
	c.pending = nil
	c.progress.Level++
	c.save()
	c.phase = Idle

	if cat := flavour.CategoryFor(c.progress.Level); cat != c.category {
		c.category = cat
		c.log.Info("category changed", "level", c.progress.Level, "category", cat.String())
		b.add(func() { c.presenter.LevelCategoryChanged(cat) })
	}

	def, ok := c.catalog.At(c.progress.Level)
	if !ok {
		c.log.Warn("no more puzzles", "level", c.progress.Level, "total", c.catalog.Len())
		return
	}
	c.log.Info("level loaded", "level", c.progress.Level, "puzzle", def.ID)
	b.add(func() { c.loader.LoadPuzzle(def) })
}

// cancelPending stops a scheduled transition. Caller holds mu.
func (c *Controller) cancelPending() bool {
	c.gen++
	if c.pending == nil {
		return false
	}
	c.pending.Stop()
	c.pending = nil
	return true
}

// #endregion transition

// #region reset
// ResetProgress returns to level 0 with default meters and clears the ending.
// A pending transition is cancelled. The caller loads the first puzzle.
func (c *Controller) ResetProgress() {
	var b batch
	defer func() { b.run() }()

	c.mu.Lock()
	defer c.mu.Unlock()

	cancelled := c.cancelPending()
	old := c.progress
	c.progress = state.DefaultProgress()
	c.phase = Idle
	c.ending = ending.None
	c.save()

	for _, m := range state.Meters {
		if o, n := old.Get(m), c.progress.Get(m); o != n {
			ch := update.MeterChange{Meter: m, Old: o, New: n}
			b.add(func() { c.presenter.MeterChanged(ch) })
		}
	}
	if cat := flavour.CategoryFor(0); cat != c.category {
		c.category = cat
		b.add(func() { c.presenter.LevelCategoryChanged(cat) })
	}
	c.log.Info("progress reset", "from_level", old.Level, "cancelled_transition", cancelled)
}

// #endregion reset

// #region adjust
// AdjustMeter nudges one meter with clamping. Endings are not evaluated and
// nothing is persisted.
func (c *Controller) AdjustMeter(m state.Meter, delta float32) error {
	if !m.Valid() {
		return fmt.Errorf("%s: %w", m, ErrUnknownMeter)
	}
	if d := float64(delta); math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("%s delta %v: %w", m, delta, ErrInvalidDelta)
	}
	var b batch
	defer func() { b.run() }()

	c.mu.Lock()
	defer c.mu.Unlock()

	var ch *update.MeterChange
	c.progress, ch = update.Adjust(c.progress, m, delta)
	if ch != nil {
		c.meterChanges(&b, []update.MeterChange{*ch})
	}
	c.log.Debug("meter adjusted", "meter", m.String(), "delta", delta, "value", c.progress.Get(m))
	return nil
}

// #endregion adjust

// #region lifecycle
// Pause persists the current progress.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.save()
	c.log.Debug("session paused", "level", c.progress.Level)
}

// Close stops any pending transition. The controller stays readable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPending()
}

// #endregion lifecycle

// #region accessors
// Level returns the zero-based index of the current puzzle.
func (c *Controller) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress.Level
}

// Meter returns the current value of m.
func (c *Controller) Meter(m state.Meter) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress.Get(m)
}

// Progress returns a snapshot of the level and meters.
func (c *Controller) Progress() state.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Phase returns the state machine position.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// IsGameOver reports whether an ending has been reached.
func (c *Controller) IsGameOver() bool {
	return c.Phase() == GameOver
}

// IsTransitioning reports whether the next puzzle is pending.
func (c *Controller) IsTransitioning() bool {
	return c.Phase() == Transitioning
}

// Category returns the flavour bucket of the current level.
func (c *Controller) Category() flavour.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// Ending is None until the game is over.
func (c *Controller) Ending() ending.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ending
}

// ProgressPercentage is Level/total*100, or 0 for an empty catalog.
func (c *Controller) ProgressPercentage() float32 {
	total := c.catalog.Len()
	if total == 0 {
		return 0
	}
	return float32(c.Level()) / float32(total) * 100
}

// CurrentPuzzle returns the puzzle at the current level, if any.
func (c *Controller) CurrentPuzzle() (puzzle.Definition, bool) {
	return c.catalog.At(c.Level())
}

// TotalPuzzles returns the catalog length.
func (c *Controller) TotalPuzzles() int {
	return c.catalog.Len()
}

// #endregion accessors

// #region snapshot
// Snapshot reads every accessor under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.catalog.Len()
	s := Snapshot{
		Level:          c.progress.Level,
		Total:          total,
		Destruction:    c.progress.Destruction,
		ZorpRespect:    c.progress.ZorpRespect,
		XylarCuriosity: c.progress.XylarCuriosity,
		Phase:          c.phase.String(),
		Category:       c.category.String(),
		Ending:         c.ending.String(),
	}
	if total > 0 {
		s.Percentage = float32(c.progress.Level) / float32(total) * 100
	}
	if def, ok := c.catalog.At(c.progress.Level); ok {
		s.PuzzleID = def.ID
	}
	return s
}

// #endregion snapshot
