package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/alexanderramin/pathway/internal/domain"
)

type QuestionKind string

const (
	KindSingle   QuestionKind = "single"
	KindMultiple QuestionKind = "multiple"
	KindScale    QuestionKind = "scale"
)

// Question IDs.
const (
	QKnowledgeLevel   = "knowledge_level"
	QCodingExperience = "coding_experience"
	QAITools          = "ai_tools"
	QLearningGoals    = "learning_goals"
	QLearningStyle    = "learning_style"
	QTimeCommitment   = "time_commitment"
	QTechnicalDepth   = "technical_depth"
	QApplicationFocus = "application_focus"
	QIndustry         = "industry"
	QAIMindset        = "ai_mindset"
)

type ScaleRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	MinLabel string `json:"minLabel"`
	MaxLabel string `json:"maxLabel"`
}

type Question struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"question"`
	Kind    QuestionKind `json:"type"`
	Options []string     `json:"options,omitempty"`
	Scale   *ScaleRange  `json:"scaleRange,omitempty"`
}

// Questions is the quiz, in the order it is asked.
var Questions = []Question{
	{
		ID:     QKnowledgeLevel,
		Prompt: "How would you describe your current understanding of AI?",
		Kind:   KindSingle,
		Options: []string{
			"Complete beginner - I know very little about AI",
			"Basic awareness - I have heard of AI but havent used it much",
			"Intermediate - I use AI tools regularly",
			"Advanced - I understand ML concepts and have built AI solutions",
			"Expert - I work professionally with AI/ML technologies",
		},
	},
	{
		ID:     QCodingExperience,
		Prompt: "What is your coding/programming experience?",
		Kind:   KindSingle,
		Options: []string{
			"No coding experience",
			"Basic scripting (Excel, simple automation)",
			"Some programming knowledge (Python, JavaScript basics)",
			"Proficient programmer (can build applications)",
			"Expert developer (professional software engineering)",
		},
	},
	{
		ID:     QAITools,
		Prompt: "Which AI tools have you used? (Select all that apply)",
		Kind:   KindMultiple,
		Options: []string{
			"ChatGPT / Claude / Gemini",
			"GitHub Copilot",
			"Midjourney / DALL-E / Stable Diffusion",
			"LangChain / LlamaIndex",
			"Hugging Face models",
			"OpenAI API / Anthropic API",
			"None of the above",
		},
	},
	{
		ID:     QLearningGoals,
		Prompt: "What are your primary learning goals? (Select all that apply)",
		Kind:   KindMultiple,
		Options: []string{
			"Understand AI concepts and terminology",
			"Use AI tools for productivity",
			"Build AI applications and products",
			"Lead AI initiatives at work",
			"Research and experiment with cutting-edge AI",
			"Apply AI to specific industry (healthcare, finance, etc.)",
		},
	},
	{
		ID:     QLearningStyle,
		Prompt: "How do you learn best?",
		Kind:   KindSingle,
		Options: []string{
			"Visual (diagrams, videos, infographics)",
			"Reading (articles, documentation)",
			"Hands-on (coding, experiments, projects)",
			"Mixed approach",
		},
	},
	{
		ID:     QTimeCommitment,
		Prompt: "How much time can you dedicate to learning?",
		Kind:   KindSingle,
		Options: []string{
			"1-2 hours per week",
			"3-5 hours per week",
			"6-10 hours per week",
			"10+ hours per week",
		},
	},
	{
		ID:     QTechnicalDepth,
		Prompt: "How technical do you want your learning to be?",
		Kind:   KindScale,
		Scale:  &ScaleRange{Min: 1, Max: 5, MinLabel: "Conceptual only", MaxLabel: "Deep technical"},
	},
	{
		ID:     QApplicationFocus,
		Prompt: "What interests you most?",
		Kind:   KindSingle,
		Options: []string{
			"Understanding how AI works",
			"Using AI for personal productivity",
			"Building AI products",
			"AI strategy and leadership",
			"Research and innovation",
		},
	},
	{
		ID:     QIndustry,
		Prompt: "Which industry do you work in or want to apply AI to?",
		Kind:   KindSingle,
		Options: []string{
			"Healthcare & Life Sciences",
			"Finance & Banking",
			"Technology & Software",
			"Marketing & Media",
			"Education & Training",
			"Retail & E-commerce",
			"Manufacturing & Supply Chain",
			"Legal & Professional Services",
			"Real Estate & Construction",
			"Other / General Business",
		},
	},
	{
		ID:     QAIMindset,
		Prompt: "Which statement resonates most with you?",
		Kind:   KindSingle,
		Options: []string{
			"AI is replacing jobs - I need to protect my current skills",
			"AI is a tool - I want to learn how to use it effectively",
			"AI is transformative - I want to reimagine how I work",
			"AI is an opportunity - I want to create new value with it",
		},
	},
}

// QuestionByID returns the question with the given ID.
func QuestionByID(id string) (Question, bool) {
	for _, q := range Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Answer is the response to one question. Exactly one field is meaningful,
// depending on the question kind.
type Answer struct {
	Choice  string
	Choices []string
	Scale   int
}

// UnmarshalJSON accepts a string, an array of strings or a number.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &a.Choice)
	case '[':
		return json.Unmarshal(data, &a.Choices)
	case 'n':
		return nil
	default:
		if err := json.Unmarshal(data, &a.Scale); err != nil {
			return fmt.Errorf("answer must be a string, list or number: %w", err)
		}
		return nil
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Choices != nil:
		return json.Marshal(a.Choices)
	case a.Choice != "":
		return json.Marshal(a.Choice)
	default:
		return json.Marshal(a.Scale)
	}
}

// Answers maps question IDs to answers.
type Answers map[string]Answer

var (
	knowledgeScores = map[string]int{
		"Complete beginner - I know very little about AI":                 10,
		"Basic awareness - I have heard of AI but havent used it much":    30,
		"Intermediate - I use AI tools regularly":                         50,
		"Advanced - I understand ML concepts and have built AI solutions": 75,
		"Expert - I work professionally with AI/ML technologies":          95,
	}

	codingLevels = map[string]string{
		"No coding experience":                                   "no-code",
		"Basic scripting (Excel, simple automation)":             "basic",
		"Some programming knowledge (Python, JavaScript basics)": "intermediate",
		"Proficient programmer (can build applications)":         "proficient",
		"Expert developer (professional software engineering)":   "expert",
	}

	focusPersonas = map[string]domain.PersonaType{
		"Understanding how AI works":         domain.PersonaBeginner,
		"Using AI for personal productivity": domain.PersonaApplied,
		"Building AI products":               domain.PersonaTechnical,
		"AI strategy and leadership":         domain.PersonaLeadership,
		"Research and innovation":            domain.PersonaTechnical,
	}

	styleChoices = map[string]domain.LearningStyle{
		"Visual (diagrams, videos, infographics)":  domain.StyleVisual,
		"Reading (articles, documentation)":        domain.StyleText,
		"Hands-on (coding, experiments, projects)": domain.StyleHandsOn,
		"Mixed approach":                           domain.StyleMixed,
	}

	mindsetChoices = map[string]domain.AIMindset{
		"AI is replacing jobs - I need to protect my current skills": domain.MindsetFixed,
		"AI is a tool - I want to learn how to use it effectively":   domain.MindsetExploring,
		"AI is transformative - I want to reimagine how I work":      domain.MindsetGrowth,
		"AI is an opportunity - I want to create new value with it":  domain.MindsetGrowth,
	}
)

const (
	defaultScore          = 30
	defaultCoding         = "basic"
	defaultTimeCommitment = "3-5 hours per week"
	defaultIndustry       = "General Business"
)

// FromAnswers builds a validated profile from quiz answers. Missing or
// unrecognised answers fall back to the applied-learner defaults.
func FromAnswers(a Answers) (domain.UserProfile, error) {
	score, ok := knowledgeScores[a[QKnowledgeLevel].Choice]
	if !ok {
		score = defaultScore
	}
	coding, ok := codingLevels[a[QCodingExperience].Choice]
	if !ok {
		coding = defaultCoding
	}
	persona, ok := focusPersonas[a[QApplicationFocus].Choice]
	if !ok {
		persona = domain.PersonaApplied
	}
	style, ok := styleChoices[a[QLearningStyle].Choice]
	if !ok {
		style = domain.StyleMixed
	}
	mindset, ok := mindsetChoices[a[QAIMindset].Choice]
	if !ok {
		mindset = domain.MindsetExploring
	}
	timeCommitment := a[QTimeCommitment].Choice
	if timeCommitment == "" {
		timeCommitment = defaultTimeCommitment
	}
	industry := a[QIndustry].Choice
	if industry == "" {
		industry = defaultIndustry
	}

	goals := dedupe(a[QLearningGoals].Choices)
	p := domain.UserProfile{
		AIScore:          score,
		PersonaType:      persona,
		LearningFocus:    slices.Clone(goals),
		LearningStyle:    style,
		TimeCommitment:   timeCommitment,
		Goals:            goals,
		CodingExperience: coding,
		AIToolsUsed:      dedupe(a[QAITools].Choices),
		Industry:         industry,
		AIMindset:        mindset,
	}
	if err := Validate(p); err != nil {
		return domain.UserProfile{}, err
	}
	return p, nil
}

// dedupe drops repeated entries while keeping first-seen order.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
