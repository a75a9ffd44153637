package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/pathway/internal/profile"
)

func TestQuizForm_BindsEveryQuestion(t *testing.T) {
	q := newQuizForm()
	require.Len(t, q.ordered, len(profile.Questions))
	assert.Equal(t, len(profile.Questions), len(q.single)+len(q.multi)+len(q.scale))
	assert.Contains(t, q.multi, profile.QLearningGoals)
	assert.Contains(t, q.scale, profile.QTechnicalDepth)
	assert.Contains(t, q.single, profile.QKnowledgeLevel)
}

func TestQuizForm_AnswersMapBoundValues(t *testing.T) {
	q := newQuizForm()
	for _, v := range q.single {
		*v = ""
	}
	for _, v := range q.scale {
		*v = 0
	}
	*q.single[profile.QKnowledgeLevel] = "Intermediate - I use AI tools regularly"
	*q.multi[profile.QLearningGoals] = []string{"Use AI tools for productivity"}
	*q.scale[profile.QTechnicalDepth] = 4

	a := q.answers()
	assert.Len(t, a, 3)
	assert.Equal(t, "Intermediate - I use AI tools regularly", a[profile.QKnowledgeLevel].Choice)
	assert.Equal(t, []string{"Use AI tools for productivity"}, a[profile.QLearningGoals].Choices)
	assert.Equal(t, 4, a[profile.QTechnicalDepth].Scale)
	require.NoError(t, profile.ValidateAnswers(a))

	p, err := profile.FromAnswers(a)
	require.NoError(t, err)
	assert.Equal(t, 50, p.AIScore)
}

func TestScaleOptions_LabelsEnds(t *testing.T) {
	opts := scaleOptions(&profile.ScaleRange{Min: 1, Max: 3, MinLabel: "Low", MaxLabel: "High"})
	require.Len(t, opts, 3)
	assert.Equal(t, "1 - Low", opts[0].Key)
	assert.Equal(t, "2", opts[1].Key)
	assert.Equal(t, "3 - High", opts[2].Key)
	assert.Equal(t, 3, opts[2].Value)

	assert.Len(t, scaleOptions(nil), 5)
}
