package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
)

// UserProfile describes a learner. It is built once, from quiz answers or a
// persona preset, and copied into every course generated for it.
type UserProfile struct {
	AIScore          int           `json:"aiScore" validate:"gte=0,lte=100"`
	PersonaType      PersonaType   `json:"personaType" validate:"required,oneof=beginner applied technical leadership"`
	LearningFocus    []string      `json:"learningFocus"`
	LearningStyle    LearningStyle `json:"learningStyle" validate:"required,oneof=visual text hands-on mixed"`
	TimeCommitment   string        `json:"timeCommitment" validate:"required"`
	Goals            []string      `json:"goals" validate:"dive,required"`
	CodingExperience string        `json:"codingExperience"`
	AIToolsUsed      []string      `json:"aiToolsUsed"`
	Industry         string        `json:"industry,omitempty"`
	AIMindset        AIMindset     `json:"aiMindset,omitempty" validate:"omitempty,oneof=fixed growth exploring"`
}

// Tier returns the technical tier for the profile's score.
func (p UserProfile) Tier() TechTier {
	return TierForScore(p.AIScore)
}

// Mindset returns the declared mindset, defaulting to exploring.
func (p UserProfile) Mindset() AIMindset {
	if p.AIMindset == "" {
		return MindsetExploring
	}
	return p.AIMindset
}

// Clone returns a deep copy so slices are never shared between courses.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.LearningFocus = slices.Clone(p.LearningFocus)
	out.Goals = slices.Clone(p.Goals)
	out.AIToolsUsed = slices.Clone(p.AIToolsUsed)
	return out
}

// Fingerprint returns a stable hash of every profile field. Goals, focus
// areas and tools are sets, so their order does not change the hash.
func (p UserProfile) Fingerprint() string {
	c := p.Clone()
	slices.Sort(c.LearningFocus)
	slices.Sort(c.Goals)
	slices.Sort(c.AIToolsUsed)
	data, _ := json.Marshal(c)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
