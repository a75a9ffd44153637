package profile

import (
	"fmt"
	"math"

	"github.com/alexanderramin/pathway/internal/domain"
)

// ScoreBand is the display band for an AI fluency score.
type ScoreBand struct {
	Level       string `json:"level"`
	Description string `json:"description"`
}

// ScoreLevel names the fluency band for an AI score.
func ScoreLevel(score int) ScoreBand {
	switch {
	case score < 20:
		return ScoreBand{"Beginner", "Just starting your AI journey"}
	case score < 40:
		return ScoreBand{"Novice", "Building foundational knowledge"}
	case score < 60:
		return ScoreBand{"Intermediate", "Comfortable with AI concepts"}
	case score < 80:
		return ScoreBand{"Advanced", "Strong AI understanding"}
	default:
		return ScoreBand{"Expert", "AI professional"}
	}
}

// PersonaDescription is the one-line summary shown next to a profile.
func PersonaDescription(t domain.PersonaType) string {
	switch t {
	case domain.PersonaBeginner:
		return "🌱 Beginner Explorer - Building foundational knowledge"
	case domain.PersonaApplied:
		return "🎯 Applied Learner - Focusing on practical applications"
	case domain.PersonaTechnical:
		return "🔧 Technical Builder - Learning implementation skills"
	case domain.PersonaLeadership:
		return "👔 Leadership Learner - Strategic AI understanding"
	default:
		return "AI Learner"
	}
}

// StyleInfo returns the icon and description for a learning style.
func StyleInfo(s domain.LearningStyle) (icon, description string) {
	switch s {
	case domain.StyleVisual:
		return "🎨", "Visual learner - diagrams and infographics"
	case domain.StyleText:
		return "📖", "Text-based learner - detailed written content"
	case domain.StyleHandsOn:
		return "🛠️", "Hands-on learner - practical exercises and coding"
	case domain.StyleMixed:
		return "🌈", "Mixed approach - combines multiple learning styles"
	default:
		return "📚", "Adaptive learner"
	}
}

var hoursPerWeek = map[string]float64{
	"1-2 hours per week":  1.5,
	"3-5 hours per week":  4,
	"6-10 hours per week": 8,
	"10+ hours per week":  12,
}

const hoursPerChapter = 1.5

// EstimateCompletionTime renders how long a course of the given size takes
// at the stated weekly commitment.
func EstimateCompletionTime(chapters int, timeCommitment string) string {
	perWeek, ok := hoursPerWeek[timeCommitment]
	if !ok {
		perWeek = 4
	}
	weeks := int(math.Ceil(float64(chapters) * hoursPerChapter / perWeek))
	if weeks <= 1 {
		return "1 week"
	}
	if weeks < 4 {
		return fmt.Sprintf("%d weeks", weeks)
	}
	months := int(math.Round(float64(weeks) / 4))
	if months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", months)
}
