package messages

import (
	"github.com/google/uuid"
	"go-ensemble/pkg/models"
)

// Invoke asks a worker actor to run one backend call. The actor responds
// with a models.AgentResult.
type Invoke struct {
	RequestID    uuid.UUID
	Agent        models.AgentConfig
	Conversation []models.Message
}
