package domain

import "time"

// Lesson is a standalone single-topic lesson. Lessons are not persisted.
type Lesson struct {
	Topic              string         `json:"topic"`
	KnowledgeLevel     KnowledgeLevel `json:"knowledgeLevel"`
	Content            string         `json:"content"`
	KeyTerms           []KeyTerm      `json:"keyTerms"`
	Examples           []string       `json:"examples"`
	PracticalExercises []string       `json:"practicalExercises"`
	LatestNews         []LatestUpdate `json:"latestNews"`
	GeneratedAt        time.Time      `json:"generatedAt"`
}
