package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/danielpatrickdp/alien-probe/internal/config"
	"github.com/danielpatrickdp/alien-probe/internal/dialogue"
	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/flavour"
	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/progression"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/schedule"
	"github.com/danielpatrickdp/alien-probe/internal/state"
	"github.com/danielpatrickdp/alien-probe/internal/update"
)

var (
	styleXylar    = color.Style{color.FgCyan, color.OpBold}
	styleZorp     = color.Style{color.FgRed, color.OpBold}
	styleNarrator = color.Style{color.FgGray}
	styleHuman    = color.Style{color.FgYellow}
	styleMeter    = color.Style{color.FgMagenta}
	styleTile     = color.Style{color.FgGreen, color.OpBold}
	styleUsed     = color.Style{color.FgGray}
	styleEnding   = color.Style{color.FgWhite, color.BgBlue, color.OpBold}
)

// #region main
func main() {
	settings := config.FromEnv()
	logger := settings.Logger()

	// Scripted sessions (stdin piped, stdout redirected) get plain output.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.Enable = false
	}

	game, err := config.LoadOrDefault(settings.GamePath)
	if err != nil {
		log.Fatalf("failed to load game: %v", err)
	}
	for _, m := range game.MissingDialogue() {
		logger.Warn("dialogue key has no line", "ref", m)
	}

	store, err := state.NewStore(settings.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	recorder, err := logging.NewDBRecorder(store.DB())
	if err != nil {
		log.Fatalf("failed to open outcome log: %v", err)
	}

	ui := &console{book: game.Book}
	cfg := game.Tuning.Ending
	ctrl := progression.New(game.Catalog, progression.Options{
		Presenter:       ui,
		Loader:          ui,
		Persister:       store,
		Recorder:        recorder,
		Scheduler:       schedule.Real{},
		Logger:          logger,
		Ending:          &cfg,
		TransitionDelay: game.Tuning.TransitionDelay,
	})
	defer ctrl.Close()

	fmt.Println("Alien Probe ready.")
	fmt.Printf("  DB: %s | Session: %s | Puzzles: %d\n", settings.DBPath, recorder.SessionID(), game.Catalog.Len())
	fmt.Println("Spell the answer with the letter tiles. Commands: status, clear, reset, meter <name> <delta>, quit")
	ui.play([]string{"XYLAR_INTRO", "ZORP_INTRO"})

	if err := ctrl.Start(); err != nil {
		log.Fatalf("failed to start session: %v", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		fields := strings.Fields(input)
		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			ctrl.Pause()
			return
		case "status":
			ui.status(ctrl.Snapshot())
		case "clear":
			ui.clearBoard()
		case "reset":
			ctrl.ResetProgress()
			if def, ok := ctrl.CurrentPuzzle(); ok {
				ui.LoadPuzzle(def)
			}
		case "meter":
			adjust(ctrl, fields[1:])
		default:
			answer(ctrl, ui, input)
		}
	}
	ctrl.Pause()
}

// #endregion main

// #region commands
func answer(ctrl *progression.Controller, ui *console, word string) {
	if ctrl.IsGameOver() {
		fmt.Println("The encounter is over. Type 'reset' to try again.")
		return
	}
	if ctrl.IsTransitioning() {
		fmt.Println("Hold on, the next puzzle is loading.")
		return
	}
	correct, err := ui.spell(word)
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	applied, err := ctrl.Resolve(correct)
	if err != nil {
		log.Printf("report outcome: %v", err)
		return
	}
	if !applied {
		fmt.Println("Too late, that puzzle is already resolved.")
	}
}

func adjust(ctrl *progression.Controller, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: meter <destruction|zorp|xylar> <delta>")
		return
	}
	m, err := state.ParseMeter(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	delta, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		fmt.Printf("bad delta %q\n", args[1])
		return
	}
	if err := ctrl.AdjustMeter(m, float32(delta)); err != nil {
		fmt.Println(err)
	}
}

// #endregion commands

// #region console
// console prints controller notifications and owns the current answer board.
// Timer callbacks arrive on another goroutine, so output is serialized.
type console struct {
	mu    sync.Mutex
	book  *dialogue.Book
	board *puzzle.Board
}

func (c *console) LoadPuzzle(def puzzle.Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.board = puzzle.NewBoard(def)
	fmt.Printf("\nPuzzle %s: %d letters\n", def.ID, c.board.Slots())
	c.printBoard()
}

func (c *console) clearBoard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return
	}
	c.board.Clear()
	c.printBoard()
}

// spell places each letter of word on a fresh board and submits it.
func (c *console) spell(word string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return false, fmt.Errorf("no puzzle loaded")
	}
	c.board.Clear()
	for _, r := range word {
		if err := c.board.PlaceLetter(r); err != nil {
			c.board.Clear()
			if err == puzzle.ErrBoardFull {
				return false, fmt.Errorf("too many letters, the answer has %d", c.board.Slots())
			}
			return false, fmt.Errorf("no %q tile left", r)
		}
	}
	correct, err := c.board.Submit()
	if err != nil {
		c.board.Clear()
		return false, fmt.Errorf("the answer has %d letters", c.board.Slots())
	}
	return correct, nil
}

// printBoard writes the tiles and slots. Caller holds mu.
func (c *console) printBoard() {
	var sb strings.Builder
	for i, t := range c.board.Tiles() {
		if c.board.Available(i) {
			sb.WriteString(styleTile.Sprintf(" %c ", t))
		} else {
			sb.WriteString(styleUsed.Sprint(" _ "))
		}
	}
	fmt.Println("  tiles:", sb.String())
	answer := []rune(c.board.Answer())
	slots := make([]string, c.board.Slots())
	for i := range slots {
		slots[i] = "_"
		if i < len(answer) {
			slots[i] = string(answer[i])
		}
	}
	fmt.Println("  slots:", strings.Join(slots, " "))
}

func (c *console) play(keys []string) {
	lines, missing := c.book.Sequence(keys)
	for _, l := range lines {
		style := speakerStyle(l.Speaker)
		if name := l.Speaker.Name(); name != "" {
			style.Printf("%s: ", name)
			fmt.Println(l.Text)
			continue
		}
		style.Println(l.Text)
	}
	for _, k := range missing {
		styleNarrator.Printf("[%s]\n", k)
	}
}

func speakerStyle(s dialogue.Speaker) color.Style {
	switch s {
	case dialogue.Xylar:
		return styleXylar
	case dialogue.Zorp:
		return styleZorp
	case dialogue.HumanInternalMonologue:
		return styleHuman
	default:
		return styleNarrator
	}
}

func (c *console) status(s progression.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Printf("Level %d/%d (%.0f%%) %s\n", s.Level+1, s.Total, s.Percentage, s.Phase)
	fmt.Printf("  %s\n", flavour.CategoryDescription(flavour.CategoryFor(s.Level)))
	styleMeter.Printf("  destruction %5.1f  %s\n", s.Destruction, flavour.ThreatBand(s.Destruction))
	styleMeter.Printf("  zorp        %5.1f  %s\n", s.ZorpRespect, flavour.ZorpStanding(s.ZorpRespect))
	styleMeter.Printf("  xylar       %5.1f  %s\n", s.XylarCuriosity, flavour.XylarStanding(s.XylarCuriosity))
	if c.board != nil {
		c.printBoard()
	}
}

// #endregion console

// #region presenter
func (c *console) MeterChanged(ch update.MeterChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	styleMeter.Printf("  %s %.1f -> %.1f\n", ch.Meter, ch.Old, ch.New)
}

func (c *console) OutcomeResolved(o progression.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o.Correct {
		styleTile.Println("Correct!")
	} else {
		styleZorp.Println("Wrong.")
	}
	c.play(o.Feedback)
}

func (c *console) TransitionStarted(level int, delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	styleNarrator.Printf("(next puzzle in %s)\n", delay)
}

func (c *console) LevelCategoryChanged(cat flavour.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	styleNarrator.Println(flavour.CategoryDescription(cat))
}

func (c *console) EndingDetermined(k ending.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Println()
	styleEnding.Printf(" %s ", strings.ToUpper(k.String()))
	fmt.Println()
	fmt.Println(flavour.EndingNarration(k))
	fmt.Println("Type 'reset' to play again or 'quit' to leave.")
}

// #endregion presenter
