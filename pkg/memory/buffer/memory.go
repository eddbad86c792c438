package buffer

import "go-ensemble/pkg/models"

// Conversation is the chat history a client keeps between generate calls.
// Only user turns and final answers are stored.
type Conversation struct {
	Items []models.Message `json:"messages"`
}

func (c *Conversation) Add(role models.Role, content string) {
	c.Items = append(c.Items, models.Message{Role: role, Content: content})
}

// DropLastUser removes a trailing user turn whose request failed.
func (c *Conversation) DropLastUser() {
	if n := len(c.Items); n > 0 && c.Items[n-1].Role == models.User {
		c.Items = c.Items[:n-1]
	}
}

func (c *Conversation) Reset() {
	c.Items = nil
}

func (c *Conversation) Len() int {
	return len(c.Items)
}

// Messages returns a copy safe to hand to a request.
func (c *Conversation) Messages() []models.Message {
	out := make([]models.Message, len(c.Items))
	copy(out, c.Items)
	return out
}
