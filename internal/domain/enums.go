package domain

type PersonaType string

const (
	PersonaBeginner   PersonaType = "beginner"
	PersonaApplied    PersonaType = "applied"
	PersonaTechnical  PersonaType = "technical"
	PersonaLeadership PersonaType = "leadership"
)

// AllPersonaTypes lists the personas in presentation order.
var AllPersonaTypes = []PersonaType{
	PersonaBeginner,
	PersonaApplied,
	PersonaTechnical,
	PersonaLeadership,
}

// ValidPersonaTypes is the canonical set of accepted persona strings.
var ValidPersonaTypes = map[string]bool{
	"beginner": true, "applied": true, "technical": true, "leadership": true,
}

type LearningStyle string

const (
	StyleVisual  LearningStyle = "visual"
	StyleText    LearningStyle = "text"
	StyleHandsOn LearningStyle = "hands-on"
	StyleMixed   LearningStyle = "mixed"
)

type AIMindset string

const (
	MindsetFixed     AIMindset = "fixed"
	MindsetExploring AIMindset = "exploring"
	MindsetGrowth    AIMindset = "growth"
)

// TechTier is the technical depth band derived from an AI fluency score.
// Higher tiers are strictly more technical.
type TechTier int

const (
	TierFoundational TechTier = iota
	TierIntroductory
	TierIntermediate
	TierAdvanced
)

// Score thresholds separating the four tiers.
const (
	introductoryMinScore = 30
	intermediateMinScore = 50
	advancedMinScore     = 75
)

// TierForScore maps an AI fluency score onto its tier. Scores below 30 are
// foundational, below 50 introductory, below 75 intermediate, and the rest
// advanced.
func TierForScore(score int) TechTier {
	switch {
	case score < introductoryMinScore:
		return TierFoundational
	case score < intermediateMinScore:
		return TierIntroductory
	case score < advancedMinScore:
		return TierIntermediate
	default:
		return TierAdvanced
	}
}

func (t TechTier) String() string {
	switch t {
	case TierFoundational:
		return "foundational"
	case TierIntroductory:
		return "introductory"
	case TierIntermediate:
		return "intermediate"
	case TierAdvanced:
		return "advanced"
	default:
		return "unknown"
	}
}

type KnowledgeLevel string

const (
	LevelBeginner     KnowledgeLevel = "beginner"
	LevelIntermediate KnowledgeLevel = "intermediate"
	LevelAdvanced     KnowledgeLevel = "advanced"
	LevelExpert       KnowledgeLevel = "expert"
)

// ValidKnowledgeLevels is the canonical set of accepted lesson levels.
var ValidKnowledgeLevels = map[string]bool{
	"beginner": true, "intermediate": true, "advanced": true, "expert": true,
}

// Label returns the display label for a knowledge level, or the raw value
// when the level is not recognised.
func (l KnowledgeLevel) Label() string {
	switch l {
	case LevelBeginner:
		return "Beginner"
	case LevelIntermediate:
		return "Intermediate"
	case LevelAdvanced:
		return "Advanced"
	case LevelExpert:
		return "Expert"
	default:
		return string(l)
	}
}
