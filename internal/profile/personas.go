package profile

import "github.com/alexanderramin/pathway/internal/domain"

// Preset is a ready-made learner archetype that skips the quiz.
type Preset struct {
	Type        domain.PersonaType `json:"id"`
	Icon        string             `json:"icon"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Profile     domain.UserProfile `json:"profile"`
}

var presets = []Preset{
	{
		Type:        domain.PersonaBeginner,
		Icon:        "🌱",
		Title:       "Beginner Explorer",
		Description: "New to AI, want structured foundations",
		Profile: domain.UserProfile{
			AIScore:          15,
			PersonaType:      domain.PersonaBeginner,
			LearningFocus:    []string{"Understand AI concepts and terminology", "Use AI tools for productivity"},
			LearningStyle:    domain.StyleVisual,
			TimeCommitment:   "3-5 hours per week",
			Goals:            []string{"Understand AI concepts and terminology"},
			CodingExperience: "no-code",
			AIToolsUsed:      []string{"None of the above"},
		},
	},
	{
		Type:        domain.PersonaApplied,
		Icon:        "🎯",
		Title:       "Applied Learner",
		Description: "Know basics, want practical applications",
		Profile: domain.UserProfile{
			AIScore:          45,
			PersonaType:      domain.PersonaApplied,
			LearningFocus:    []string{"Use AI tools for productivity", "Apply AI to specific industry (healthcare, finance, etc.)"},
			LearningStyle:    domain.StyleMixed,
			TimeCommitment:   "3-5 hours per week",
			Goals:            []string{"Use AI tools for productivity"},
			CodingExperience: "basic",
			AIToolsUsed:      []string{"ChatGPT / Claude / Gemini"},
		},
	},
	{
		Type:        domain.PersonaTechnical,
		Icon:        "🔧",
		Title:       "Technical Builder",
		Description: "Developer ready to build AI systems",
		Profile: domain.UserProfile{
			AIScore:          70,
			PersonaType:      domain.PersonaTechnical,
			LearningFocus:    []string{"Build AI applications and products", "Research and experiment with cutting-edge AI"},
			LearningStyle:    domain.StyleHandsOn,
			TimeCommitment:   "6-10 hours per week",
			Goals:            []string{"Build AI applications and products"},
			CodingExperience: "proficient",
			AIToolsUsed:      []string{"ChatGPT / Claude / Gemini", "GitHub Copilot", "OpenAI API / Anthropic API"},
		},
	},
	{
		Type:        domain.PersonaLeadership,
		Icon:        "👔",
		Title:       "Leadership Learner",
		Description: "Executive seeking strategic AI fluency",
		Profile: domain.UserProfile{
			AIScore:          40,
			PersonaType:      domain.PersonaLeadership,
			LearningFocus:    []string{"Lead AI initiatives at work", "Understand AI concepts and terminology"},
			LearningStyle:    domain.StyleText,
			TimeCommitment:   "1-2 hours per week",
			Goals:            []string{"Lead AI initiatives at work"},
			CodingExperience: "basic",
			AIToolsUsed:      []string{"ChatGPT / Claude / Gemini"},
		},
	},
}

// Presets returns copies of all persona presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		out[i] = p
		out[i].Profile = p.Profile.Clone()
	}
	return out
}

// FromPersona returns the preset profile for a persona.
func FromPersona(t domain.PersonaType) (domain.UserProfile, bool) {
	for _, p := range presets {
		if p.Type == t {
			return p.Profile.Clone(), true
		}
	}
	return domain.UserProfile{}, false
}
