package flavour

import "fmt"

// Category groups levels into themed bands of five.
type Category int

const (
	BasicCognition Category = iota
	EmotionalIntelligence
	CulturalBehaviors
	LogicParadoxes
	AdvancedConcepts
)

// levelsPerCategory is the width of each band; the last band is open-ended.
const levelsPerCategory = 5

// Categories lists every category in level order.
var Categories = []Category{BasicCognition, EmotionalIntelligence, CulturalBehaviors, LogicParadoxes, AdvancedConcepts}

// CategoryFor derives the category of a zero-based level index.
func CategoryFor(level int) Category {
	if level < 0 {
		return BasicCognition
	}
	c := level / levelsPerCategory
	if c >= len(Categories) {
		return AdvancedConcepts
	}
	return Categories[c]
}

func (c Category) String() string {
	switch c {
	case BasicCognition:
		return "basic_cognition"
	case EmotionalIntelligence:
		return "emotional_intelligence"
	case CulturalBehaviors:
		return "cultural_behaviors"
	case LogicParadoxes:
		return "logic_paradoxes"
	case AdvancedConcepts:
		return "advanced_concepts"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// key is the message id used for the category's description.
func (c Category) key() string {
	switch c {
	case EmotionalIntelligence:
		return "CATEGORY_EMOTIONAL_INTELLIGENCE"
	case CulturalBehaviors:
		return "CATEGORY_CULTURAL_BEHAVIORS"
	case LogicParadoxes:
		return "CATEGORY_LOGIC_PARADOXES"
	case AdvancedConcepts:
		return "CATEGORY_ADVANCED_CONCEPTS"
	default:
		return "CATEGORY_BASIC_COGNITION"
	}
}
