// Package dialogue holds the spoken lines the aliens (and the narrator) deliver
// around each puzzle, and a cursor for stepping through a conversation.
package dialogue

import (
	"errors"
	"fmt"
	"strings"
)

// #region speaker
// Speaker identifies who delivers a line. The zero value is Narrator, so a line
// with no speaker is narration.
type Speaker int

const (
	Narrator Speaker = iota
	Xylar
	Zorp
	HumanInternalMonologue
)

func (s Speaker) String() string {
	switch s {
	case Xylar:
		return "xylar"
	case Zorp:
		return "zorp"
	case Narrator:
		return "narrator"
	case HumanInternalMonologue:
		return "human"
	default:
		return fmt.Sprintf("speaker(%d)", int(s))
	}
}

// Name is the label shown next to the line.
func (s Speaker) Name() string {
	switch s {
	case Xylar:
		return "Xylar"
	case Zorp:
		return "Zorp"
	case HumanInternalMonologue:
		return "You"
	default:
		return ""
	}
}

// ParseSpeaker accepts the String form case-insensitively.
func ParseSpeaker(s string) (Speaker, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xylar":
		return Xylar, nil
	case "zorp":
		return Zorp, nil
	case "narrator", "":
		return Narrator, nil
	case "human", "human_internal_monologue":
		return HumanInternalMonologue, nil
	}
	return Narrator, fmt.Errorf("unknown speaker %q", s)
}

func (s Speaker) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Speaker) UnmarshalText(b []byte) error {
	v, err := ParseSpeaker(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// #endregion speaker

// #region book
// Line is a single piece of dialogue.
type Line struct {
	Key              string  `yaml:"key" json:"key"`
	Speaker          Speaker `yaml:"speaker" json:"speaker"`
	Text             string  `yaml:"text" json:"text"`
	AnimationTrigger string  `yaml:"animation,omitempty" json:"animation,omitempty"`
}

var (
	ErrEmptyKey     = errors.New("dialogue key is empty")
	ErrDuplicateKey = errors.New("duplicate dialogue key")
)

// Book indexes lines by key.
type Book struct {
	lines map[string]Line
}

// NewBook validates keys and indexes lines.
func NewBook(lines []Line) (*Book, error) {
	b := &Book{lines: make(map[string]Line, len(lines))}
	for i, l := range lines {
		if strings.TrimSpace(l.Key) == "" {
			return nil, fmt.Errorf("line %d: %w", i, ErrEmptyKey)
		}
		if _, dup := b.lines[l.Key]; dup {
			return nil, fmt.Errorf("line %s: %w", l.Key, ErrDuplicateKey)
		}
		b.lines[l.Key] = l
	}
	return b, nil
}

// Len returns the number of lines.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.lines)
}

// Line looks up a single key.
func (b *Book) Line(key string) (Line, bool) {
	if b == nil {
		return Line{}, false
	}
	l, ok := b.lines[key]
	return l, ok
}

// Sequence resolves keys in order. Keys with no line are skipped and returned
// in missing.
func (b *Book) Sequence(keys []string) (lines []Line, missing []string) {
	for _, k := range keys {
		if l, ok := b.Line(k); ok {
			lines = append(lines, l)
			continue
		}
		missing = append(missing, k)
	}
	return lines, missing
}

// #endregion book

// #region conversation
// Conversation steps through a fixed list of lines.
type Conversation struct {
	lines []Line
	index int
}

// NewConversation starts at the first line. An empty conversation is done
// immediately.
func NewConversation(lines []Line) *Conversation {
	return &Conversation{lines: append([]Line(nil), lines...)}
}

// Current returns the line being shown.
func (c *Conversation) Current() (Line, bool) {
	if c.Done() {
		return Line{}, false
	}
	return c.lines[c.index], true
}

// Advance moves to the next line and reports whether one is showing.
func (c *Conversation) Advance() bool {
	if c.Done() {
		return false
	}
	c.index++
	return !c.Done()
}

// Done reports whether every line has been shown.
func (c *Conversation) Done() bool {
	return c.index >= len(c.lines)
}

// Len returns the number of lines in the conversation.
func (c *Conversation) Len() int {
	return len(c.lines)
}

// #endregion conversation
