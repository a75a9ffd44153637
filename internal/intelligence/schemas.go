package intelligence

import "github.com/alexanderramin/pathway/internal/llm"

func stringProp() map[string]any { return map[string]any{"type": "string"} }

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": stringProp()}
}

func keyTermsProp() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"term":       stringProp(),
				"definition": stringProp(),
			},
			"required":             []string{"term", "definition"},
			"additionalProperties": false,
		},
	}
}

// OutlineSchema constrains the outline to exactly n chapter stubs.
func OutlineSchema(n int) *llm.JSONSchema {
	return &llm.JSONSchema{
		Name:   "course_outline",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":              stringProp(),
				"subtitle":           stringProp(),
				"overallDescription": stringProp(),
				"chapters": map[string]any{
					"type":     "array",
					"minItems": n,
					"maxItems": n,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"chapterNumber":     map[string]any{"type": "number"},
							"title":             stringProp(),
							"learningObjective": stringProp(),
						},
						"required":             []string{"chapterNumber", "title", "learningObjective"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"title", "subtitle", "overallDescription", "chapters"},
			"additionalProperties": false,
		},
	}
}

// ChapterSchema describes generated chapter content. The tool walkthrough
// may be null.
func ChapterSchema() *llm.JSONSchema {
	return &llm.JSONSchema{
		Name:   "chapter_content",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chapterNumber":     map[string]any{"type": "number"},
				"title":             stringProp(),
				"learningObjective": stringProp(),
				"content":           stringProp(),
				"keyTerms":          keyTermsProp(),
				"examples":          stringArray(),
				"tryItYourself":     stringArray(),
				"toolWalkthrough": map[string]any{
					"type": []string{"object", "null"},
					"properties": map[string]any{
						"toolName":    stringProp(),
						"description": stringProp(),
						"steps":       stringArray(),
					},
					"required":             []string{"toolName", "description", "steps"},
					"additionalProperties": false,
				},
			},
			"required":             []string{"chapterNumber", "title", "learningObjective", "content", "keyTerms", "examples", "tryItYourself"},
			"additionalProperties": false,
		},
	}
}

func LessonSchema() *llm.JSONSchema {
	return &llm.JSONSchema{
		Name:   "lesson_content",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic":              stringProp(),
				"knowledgeLevel":     stringProp(),
				"content":            stringProp(),
				"keyTerms":           keyTermsProp(),
				"examples":           stringArray(),
				"practicalExercises": stringArray(),
			},
			"required":             []string{"topic", "knowledgeLevel", "content", "keyTerms", "examples", "practicalExercises"},
			"additionalProperties": false,
		},
	}
}
