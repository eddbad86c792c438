package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-ensemble/pkg/models"
)

func ptr(s string) *string { return &s }

func TestConversation_Prompt(t *testing.T) {
	conv, err := conversation(models.GenerateRequest{Prompt: ptr("\n hello \t")})
	require.NoError(t, err)
	assert.Equal(t, []models.Message{{Role: models.User, Content: "hello"}}, conv)
}

func TestConversation_PromptLength(t *testing.T) {
	_, err := conversation(models.GenerateRequest{Prompt: ptr(strings.Repeat("あ", maxPromptChars))})
	assert.NoError(t, err, "limit counts characters, not bytes")

	_, err = conversation(models.GenerateRequest{Prompt: ptr(strings.Repeat("a", maxPromptChars+1))})
	assert.ErrorContains(t, err, "at most 10000")
	assert.True(t, isValidation(err))
}

func TestConversation_Messages(t *testing.T) {
	conv, err := conversation(models.GenerateRequest{Messages: []models.Message{
		{Role: models.System, Content: "be brief"},
		{Role: models.User, Content: " q1 "},
		{Role: models.Assistant, Content: "a1"},
		{Role: models.User, Content: "q2"},
	}})
	require.NoError(t, err)
	require.Len(t, conv, 4)
	assert.Equal(t, "q1", conv[1].Content)
}

func TestConversation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  models.GenerateRequest
		msg  string
	}{
		{"neither", models.GenerateRequest{}, "either prompt or messages is required"},
		{"empty message list", models.GenerateRequest{Messages: []models.Message{}}, "either prompt or messages is required"},
		{"empty content", models.GenerateRequest{Messages: []models.Message{{Role: models.User, Content: " "}}}, "messages[0].content must not be empty"},
		{"long content", models.GenerateRequest{Messages: []models.Message{{Role: models.User, Content: strings.Repeat("x", maxContentChars+1)}}}, "messages[0].content must be at most 20000"},
		{"unknown role", models.GenerateRequest{Messages: []models.Message{{Role: "bot", Content: "x"}}}, "messages[0].role"},
		{"ends with system", models.GenerateRequest{Messages: []models.Message{{Role: models.User, Content: "x"}, {Role: models.System, Content: "y"}}}, "the last message must have role user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := conversation(tt.req)
			assert.ErrorContains(t, err, tt.msg)
			assert.True(t, isValidation(err))
		})
	}
}

