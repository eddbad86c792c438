package api

import (
	"errors"
	"fmt"
	"go-ensemble/pkg/models"
	"strings"
	"unicode/utf8"
)

const (
	maxPromptChars  = 10000
	maxContentChars = 20000
)

// validationError is a request that decoded fine but breaks a constraint.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func isValidation(err error) bool {
	var v *validationError
	return errors.As(err, &v)
}

// conversation validates a generate request and normalizes it into the
// message list the orchestrator expects. It reports the first violation.
func conversation(req models.GenerateRequest) ([]models.Message, error) {
	hasPrompt := req.Prompt != nil
	hasMessages := len(req.Messages) > 0
	switch {
	case hasPrompt && hasMessages:
		return nil, invalid("specify either prompt or messages, not both")
	case !hasPrompt && !hasMessages:
		return nil, invalid("either prompt or messages is required")
	}

	if hasPrompt {
		prompt := strings.TrimSpace(*req.Prompt)
		if prompt == "" {
			return nil, invalid("prompt must not be empty")
		}
		if utf8.RuneCountInString(prompt) > maxPromptChars {
			return nil, invalid("prompt must be at most %d characters", maxPromptChars)
		}
		return []models.Message{{Role: models.User, Content: prompt}}, nil
	}

	out := make([]models.Message, 0, len(req.Messages))
	for i, m := range req.Messages {
		if !m.Role.Valid() {
			return nil, invalid("messages[%d].role must be one of system, user, assistant", i)
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return nil, invalid("messages[%d].content must not be empty", i)
		}
		if utf8.RuneCountInString(content) > maxContentChars {
			return nil, invalid("messages[%d].content must be at most %d characters", i, maxContentChars)
		}
		out = append(out, models.Message{Role: m.Role, Content: content})
	}
	if out[len(out)-1].Role != models.User {
		return nil, invalid("the last message must have role user")
	}
	return out, nil
}
