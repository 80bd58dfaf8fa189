package dialogue

import (
	"errors"
	"testing"
)

func sampleLines() []Line {
	return []Line{
		{Key: "XYLAR_HELLO", Speaker: Xylar, Text: "Greetings, specimen.", AnimationTrigger: "face01"},
		{Key: "ZORP_SCOFF", Speaker: Zorp, Text: "It drools.", AnimationTrigger: "face02"},
		{Key: "NARRATOR_BEAT", Speaker: Narrator, Text: "A long silence."},
	}
}

func TestBookSequenceSkipsMissing(t *testing.T) {
	b, err := NewBook(sampleLines())
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}
	lines, missing := b.Sequence([]string{"ZORP_SCOFF", "NOPE", "XYLAR_HELLO"})
	if len(lines) != 2 || lines[0].Speaker != Zorp || lines[1].Key != "XYLAR_HELLO" {
		t.Fatalf("unexpected lines %+v", lines)
	}
	if len(missing) != 1 || missing[0] != "NOPE" {
		t.Fatalf("unexpected missing %v", missing)
	}
}

func TestNewBookRejectsBadKeys(t *testing.T) {
	if _, err := NewBook([]Line{{Key: ""}}); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	lines := append(sampleLines(), Line{Key: "ZORP_SCOFF"})
	if _, err := NewBook(lines); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestConversationCursor(t *testing.T) {
	c := NewConversation(sampleLines())
	l, ok := c.Current()
	if !ok || l.Key != "XYLAR_HELLO" {
		t.Fatalf("expected first line, got %+v", l)
	}
	if !c.Advance() || !c.Advance() {
		t.Fatal("expected two more lines")
	}
	l, _ = c.Current()
	if l.Speaker != Narrator {
		t.Fatalf("expected narrator, got %s", l.Speaker)
	}
	if c.Advance() {
		t.Fatal("expected conversation to end")
	}
	if !c.Done() || c.Advance() {
		t.Fatal("done conversation should stay done")
	}
}

func TestEmptyConversationIsDone(t *testing.T) {
	c := NewConversation(nil)
	if !c.Done() {
		t.Fatal("empty conversation should be done")
	}
	if _, ok := c.Current(); ok {
		t.Fatal("empty conversation has no current line")
	}
}

func TestSpeakerText(t *testing.T) {
	var s Speaker
	if s != Narrator || s.Name() != "" {
		t.Fatalf("zero speaker should be an unnamed narrator, got %s", s)
	}
	if err := s.UnmarshalText([]byte("Zorp")); err != nil || s != Zorp {
		t.Fatalf("UnmarshalText = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("robot")); err == nil {
		t.Fatal("expected error for unknown speaker")
	}
	b, _ := HumanInternalMonologue.MarshalText()
	if string(b) != "human" {
		t.Fatalf("unexpected text %q", b)
	}
}
