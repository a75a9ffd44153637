package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Title    string   `json:"title"`
	Chapters []string `json:"chapters"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"title":"AI Basics","chapters":["one","two"]}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "AI Basics", result.Title)
	assert.Equal(t, []string{"one", "two"}, result.Chapters)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"title\":\"Fenced\",\"chapters\":[]}\n```"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Fenced", result.Title)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Here is your outline:\n{\"title\":\"Wrapped\",\"chapters\":[\"a\"]}\nEnjoy!"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", result.Title)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := "note: {\"title\":\"Use {braces} and \\\"quotes\\\"\",\"chapters\":[]} trailing }"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `Use {braces} and "quotes"`, result.Title)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload]("I cannot help with that.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Empty(t *testing.T) {
	_, err := ExtractJSON[testPayload]("   \n", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload](`{"title":"x", broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidatorRejects(t *testing.T) {
	validator := func(p testPayload) error {
		if len(p.Chapters) == 0 {
			return fmt.Errorf("chapters required")
		}
		return nil
	}
	_, err := ExtractJSON[testPayload](`{"title":"x","chapters":[]}`, validator)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "chapters required")
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"json fence no newline", "```json{\"a\":1}```", `{"a":1}`},
		{"trailing newline after fence", "```json\n{\"a\":1}\n```\n", `{"a":1}`},
		{"no fence", "  {\"a\":1}  ", `{"a":1}`},
		{"plain fence opening kept", "```\n{\"a\":1}\n```", "```\n{\"a\":1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}
