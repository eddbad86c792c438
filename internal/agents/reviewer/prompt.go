package reviewer

import (
	"fmt"
	langChainPrompts "github.com/tmc/langchaingo/prompts"
	"go-ensemble/pkg/models"
	"go-ensemble/pkg/prompts"
)

var (
	ReviewPrompt = langChainPrompts.NewPromptTemplate(prompts.ReviewTemplate, []string{"Question", "History", "Workers"})
)

type historyEntry struct {
	Label   string
	Content string
}

type workerEntry struct {
	Name    string
	Success bool
	Text    string
	Error   string
}

func label(role models.Role) string {
	switch role {
	case models.User:
		return "User"
	case models.Assistant:
		return "Final answer"
	case models.System:
		return "System"
	}
	return string(role)
}

// BuildPrompt renders the reviewer prompt. It has no side effects, so equal
// inputs always give byte-identical output.
func BuildPrompt(question string, history []models.Message, results []models.AgentResult) (string, error) {
	h := make([]historyEntry, 0, len(history))
	for _, m := range history {
		h = append(h, historyEntry{Label: label(m.Role), Content: m.Content})
	}
	w := make([]workerEntry, 0, len(results))
	for _, r := range results {
		w = append(w, workerEntry{Name: r.Agent, Success: r.Success(), Text: r.Text, Error: r.Reason()})
	}

	prompt, err := ReviewPrompt.Format(map[string]any{
		"Question": question,
		"History":  h,
		"Workers":  w,
	})
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return prompt, nil
}
