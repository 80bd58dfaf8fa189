package flavour

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/alien-probe/internal/ending"
)

func TestCategoryForBuckets(t *testing.T) {
	cases := []struct {
		level int
		want  Category
	}{
		{-3, BasicCognition},
		{0, BasicCognition},
		{4, BasicCognition},
		{5, EmotionalIntelligence},
		{9, EmotionalIntelligence},
		{10, CulturalBehaviors},
		{14, CulturalBehaviors},
		{15, LogicParadoxes},
		{19, LogicParadoxes},
		{20, AdvancedConcepts},
		{100, AdvancedConcepts},
	}
	for _, c := range cases {
		if got := CategoryFor(c.level); got != c.want {
			t.Errorf("CategoryFor(%d) = %s, want %s", c.level, got, c.want)
		}
	}
}

func TestCategoryDescriptionsResolve(t *testing.T) {
	for _, c := range Categories {
		d := CategoryDescription(c)
		if strings.HasPrefix(d, "CATEGORY_") {
			t.Errorf("%s description not translated: %q", c, d)
		}
	}
	if !strings.Contains(CategoryDescription(LogicParadoxes), "Logic Paradoxes") {
		t.Fatalf("unexpected text %q", CategoryDescription(LogicParadoxes))
	}
}

func TestEndingNarration(t *testing.T) {
	if EndingNarration(ending.None) != "" {
		t.Fatal("None should have no narration")
	}
	if !strings.Contains(EndingNarration(ending.Destruction), "disassembly") {
		t.Fatalf("unexpected destruction narration %q", EndingNarration(ending.Destruction))
	}
}

func TestStandings(t *testing.T) {
	if ZorpStanding(0) != "Hostile" || ZorpStanding(25) != "Skeptical" || ZorpStanding(74.9) != "Impressed" || ZorpStanding(100) != "Protective" {
		t.Fatal("zorp standings out of band")
	}
	if XylarStanding(24) != "Detached" || XylarStanding(50) != "Fascinated" || XylarStanding(80) != "Invested" {
		t.Fatal("xylar standings out of band")
	}
	if ThreatBand(32.9) != "safe" || ThreatBand(33) != "warning" || ThreatBand(66) != "danger" {
		t.Fatal("threat bands out of range")
	}
}

func TestTextFallsBackToKey(t *testing.T) {
	if Text("NO_SUCH_KEY") != "NO_SUCH_KEY" {
		t.Fatal("missing keys should echo")
	}
}
