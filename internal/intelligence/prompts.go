package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pathway/internal/domain"
)

// Prompt is a compiled system/user message pair.
type Prompt struct {
	System string
	User   string
}

// Stage selects stage-specific wording where the outline and chapter
// templates differ.
type Stage int

const (
	StageOutline Stage = iota
	StageChapter
)

// focusLine pins every course to generative AI.
const focusLine = "Generative AI (LLMs, ChatGPT, Claude, prompt engineering, AI agents)"

// TechLevel is the technical-level wording for a tier. The foundational
// chapter wording asks for jargon-free prose.
func TechLevel(tier domain.TechTier, stage Stage) string {
	switch tier {
	case domain.TierFoundational:
		if stage == StageChapter {
			return "very beginner-friendly, avoiding jargon"
		}
		return "beginner-friendly"
	case domain.TierIntroductory:
		return "introductory to intermediate"
	case domain.TierIntermediate:
		return "intermediate to advanced"
	default:
		return "advanced and technical"
	}
}

var personaDescriptions = map[domain.PersonaType]string{
	domain.PersonaBeginner:   "a complete beginner who wants structured foundational knowledge of AI concepts",
	domain.PersonaApplied:    "someone with basic AI exposure who wants to apply AI to business workflows",
	domain.PersonaTechnical:  "a technical learner who understands coding and wants to learn implementation",
	domain.PersonaLeadership: "a leader/executive aiming to gain strategic understanding of AI",
}

var styleDirectives = map[domain.LearningStyle]string{
	domain.StyleVisual:  "Include visual analogies and describe concepts in visual terms",
	domain.StyleText:    "Provide detailed written explanations with clear structure",
	domain.StyleHandsOn: "Focus on practical exercises and code examples",
	domain.StyleMixed:   "Combine explanations, analogies, and practical examples",
}

var mindsetGuidance = map[domain.AIMindset]string{
	domain.MindsetFixed:     "This learner is concerned about AI disruption. Help them see AI as an amplifier of human skills, not a replacement. Include reassurance and practical skill-building approaches.",
	domain.MindsetExploring: "This learner sees AI as a practical tool. Focus on hands-on application and immediate productivity gains. Show them how AI enhances their current capabilities.",
	domain.MindsetGrowth:    "This learner embraces transformation. Challenge them with innovative use cases and encourage them to reimagine workflows and create new value with AI.",
}

// PersonaDescription describes the learner archetype to the model.
func PersonaDescription(t domain.PersonaType) string {
	if d, ok := personaDescriptions[t]; ok {
		return d
	}
	return "a learner who wants to understand and apply AI"
}

// StyleDirective tells the model how to shape content for a learning style.
func StyleDirective(s domain.LearningStyle) string {
	if d, ok := styleDirectives[s]; ok {
		return d
	}
	return styleDirectives[domain.StyleMixed]
}

func industryOrGeneral(p domain.UserProfile) string {
	if strings.TrimSpace(p.Industry) == "" {
		return "General"
	}
	return p.Industry
}

func toolsOrNone(p domain.UserProfile) string {
	if len(p.AIToolsUsed) == 0 {
		return "None yet"
	}
	return strings.Join(p.AIToolsUsed, ", ")
}

// OutlinePrompt compiles the outline request for n chapters.
func OutlinePrompt(p domain.UserProfile, n int) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-chapter AI learning curriculum outline for %s.\n\n", n, PersonaDescription(p.PersonaType))
	b.WriteString("**Learner Profile:**\n")
	fmt.Fprintf(&b, "- AI Fluency Score: %d/100\n", p.AIScore)
	fmt.Fprintf(&b, "- Technical level: %s\n", TechLevel(p.Tier(), StageOutline))
	fmt.Fprintf(&b, "- Goals: %s\n", strings.Join(p.Goals, ", "))
	fmt.Fprintf(&b, "- Industry: %s\n", industryOrGeneral(p))
	fmt.Fprintf(&b, "- Learning Style: %s - %s\n", p.LearningStyle, StyleDirective(p.LearningStyle))
	fmt.Fprintf(&b, "- Tools Used: %s\n", toolsOrNone(p))
	fmt.Fprintf(&b, "- AI Mindset: %s - %s\n", p.Mindset(), mindsetGuidance[p.Mindset()])
	fmt.Fprintf(&b, "- Focus: %s\n\n", focusLine)
	b.WriteString("**Requirements:**\n")
	fmt.Fprintf(&b, "1. Generate exactly %d chapter titles that build progressively\n", n)
	b.WriteString("2. Each chapter needs a clear, specific learning objective\n")
	b.WriteString("3. Focus on practical GenAI applications and tools\n")
	b.WriteString("4. Make it relevant to their goals and industry\n")
	b.WriteString("5. Start with fundamentals, progress to advanced applications\n\n")
	fmt.Fprintf(&b, "Return ONLY the JSON outline with title, subtitle, description, and %d chapters (number, title, objective).", n)

	return Prompt{
		System: fmt.Sprintf("You are an expert AI curriculum designer. Generate a course outline with %d chapter titles and objectives. Respond with ONLY valid JSON.", n),
		User:   b.String(),
	}
}

const chapterSystemPrompt = "You are an expert AI educator. Create detailed, engaging chapter content with examples and exercises. Respond with ONLY valid JSON."

// walkthroughCutoff is the last chapter number that requires a tool walkthrough.
const walkthroughCutoff = 5

// ChapterPrompt compiles the content request for one outline stub.
func ChapterPrompt(stub domain.ChapterStub, p domain.UserProfile, courseTitle string) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "You are creating Chapter %d for the course %q.\n\n", stub.ChapterNumber, courseTitle)
	b.WriteString("**Chapter Details:**\n")
	fmt.Fprintf(&b, "- Chapter Number: %d\n", stub.ChapterNumber)
	fmt.Fprintf(&b, "- Title: %s\n", stub.Title)
	fmt.Fprintf(&b, "- Learning Objective: %s\n\n", stub.LearningObjective)
	b.WriteString("**Learner Context:**\n")
	fmt.Fprintf(&b, "- Technical Level: %s\n", TechLevel(p.Tier(), StageChapter))
	fmt.Fprintf(&b, "- Industry: %s\n", industryOrGeneral(p))
	fmt.Fprintf(&b, "- Goals: %s\n", strings.Join(p.Goals, ", "))
	fmt.Fprintf(&b, "- Learning Style: %s - %s\n\n", p.LearningStyle, StyleDirective(p.LearningStyle))

	b.WriteString("**Content Requirements:**\n")
	b.WriteString("1. **Content**: Write 600-800 words of detailed, engaging content in markdown format\n")
	b.WriteString("   - Use headers (##), lists, **bold**, *italic*, code blocks where appropriate\n")
	b.WriteString("   - Make it practical and immediately useful\n")
	b.WriteString("   - Focus on Generative AI tools and applications\n")
	b.WriteString("   - Include real-world context and scenarios\n\n")
	b.WriteString("2. **Key Terms**: Provide 3-5 important terms with clear definitions\n\n")
	b.WriteString("3. **Examples**: Give 2-3 real-world examples")
	if strings.TrimSpace(p.Industry) != "" {
		fmt.Fprintf(&b, " relevant to %s", p.Industry)
	}
	b.WriteString("\n\n")
	b.WriteString("4. **Try It Yourself**: Create 2-3 hands-on exercises using free GenAI tools (ChatGPT, Claude, etc.)\n")
	b.WriteString("   - Format prompt exercises using GCSE template when relevant:\n")
	b.WriteString("     **Goal**: What you want | **Context**: Why/who | **Source**: What info | **Expectations**: How to respond\n\n")
	b.WriteString("5. **Tool Walkthrough**: ")
	if stub.ChapterNumber <= walkthroughCutoff {
		b.WriteString("Include a practical tool walkthrough (ChatGPT, Claude, Perplexity, etc.) with step-by-step instructions")
	} else {
		b.WriteString("Optional - include if relevant to the chapter")
	}
	b.WriteString("\n\nMake the content conversational, professional, and actionable. Return ONLY valid JSON matching the schema.")

	return Prompt{System: chapterSystemPrompt, User: b.String()}
}

var levelDescriptions = map[domain.KnowledgeLevel]string{
	domain.LevelBeginner:     "absolute beginner with no prior knowledge - explain everything from scratch",
	domain.LevelIntermediate: "someone with basic understanding - build on foundational knowledge",
	domain.LevelAdvanced:     "experienced practitioner - focus on advanced concepts and latest developments",
	domain.LevelExpert:       "deep expert - provide cutting-edge insights and technical depth",
}

// NormalizeLevel maps unknown lesson levels to intermediate.
func NormalizeLevel(level domain.KnowledgeLevel) domain.KnowledgeLevel {
	if _, ok := levelDescriptions[level]; ok {
		return level
	}
	return domain.LevelIntermediate
}

const lessonSystemPrompt = "You are an expert AI educator. Create detailed, engaging lessons with real educational content. Generate comprehensive explanations, not placeholder text. Respond with ONLY valid JSON."

// LessonPrompt compiles a one-off lesson request.
func LessonPrompt(topic string, level domain.KnowledgeLevel) Prompt {
	level = NormalizeLevel(level)
	var b strings.Builder
	fmt.Fprintf(&b, "Create a comprehensive lesson on %q for %s.\n\n", topic, levelDescriptions[level])
	b.WriteString("**YOU MUST GENERATE REAL CONTENT, NOT PLACEHOLDER TEXT.**\n\n")
	b.WriteString("**Requirements:**\n")
	fmt.Fprintf(&b, "1. Write a detailed 400-600 word explanation of %q in markdown format\n", topic)
	b.WriteString("   - Use ## headers, **bold**, *italic*, `code`, bullet points\n")
	b.WriteString("   - Make it engaging and educational\n\n")
	fmt.Fprintf(&b, "2. Define 3-5 key terms related to %s\n", topic)
	b.WriteString("   - Each term should have a clear, specific definition\n")
	b.WriteString("   - Not generic placeholders like \"string\"\n\n")
	fmt.Fprintf(&b, "3. Provide 2-3 real-world examples of %s in action\n", topic)
	b.WriteString("   - Specific, concrete examples from industry\n\n")
	b.WriteString("4. Create 2-3 practical exercises the learner can try\n")
	b.WriteString("   - Actionable, hands-on activities\n\n")
	fmt.Fprintf(&b, "**CRITICAL**: Generate REAL educational content about %q, not placeholder values. The user is learning about %s at a %s level.\n\n", topic, topic, level)
	b.WriteString("Return ONLY valid JSON with these exact fields:\n")
	fmt.Fprintf(&b, "{\n  \"topic\": %q,\n  \"knowledgeLevel\": %q,\n", topic, string(level))
	b.WriteString("  \"content\": \"markdown text here\",\n")
	b.WriteString("  \"keyTerms\": [{\"term\": \"term name\", \"definition\": \"definition text\"}],\n")
	b.WriteString("  \"examples\": [\"example 1\", \"example 2\"],\n")
	b.WriteString("  \"practicalExercises\": [\"exercise 1\", \"exercise 2\"]\n}")

	return Prompt{System: lessonSystemPrompt, User: b.String()}
}

// UpdatesPrompt asks a web-search-capable model for recent news on a topic.
func UpdatesPrompt(topic string) Prompt {
	user := fmt.Sprintf(`Search the web for the latest news and developments about %q. Find 3-5 recent articles.

For each article, provide:
{
  "newsItems": [
    {
      "headline": "Article title here",
      "summary": "2-3 sentence summary of the key points",
      "source": "Publication or website name",
      "date": "Approximate date (e.g., 'January 2025' or '2025-01-15')",
      "url": "Direct URL to the article"
    }
  ]
}

Return ONLY valid JSON. Use real URLs from your web search results.`, topic)
	return Prompt{
		System: "You are a helpful news aggregator. Search the web for latest news and return results in JSON format.",
		User:   user,
	}
}

// DefaultSimplifyLevel is used when the caller does not name a level.
const DefaultSimplifyLevel = "simpler and easier to understand for a complete beginner"

// SimplifyPrompt asks for a plainer rewrite of chapter content.
func SimplifyPrompt(content, level string) Prompt {
	if strings.TrimSpace(level) == "" {
		level = DefaultSimplifyLevel
	}
	user := fmt.Sprintf("Take the following chapter content and rewrite it to be %s.\n\nOriginal content:\n%s\n\n"+
		"Rewrite this content to be clearer and %s. Keep the same structure (sections, key terms, examples) "+
		"but make the explanations simpler and more accessible. Return ONLY the rewritten content in markdown format.",
		level, content, level)
	return Prompt{
		System: "You are an expert educator who excels at explaining complex topics in simple, accessible ways.",
		User:   user,
	}
}
