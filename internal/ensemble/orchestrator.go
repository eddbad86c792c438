// Package ensemble runs the worker fan-out, reviewer synthesis pipeline for a
// single request.
package ensemble

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go-ensemble/internal/agents/handler"
	"go-ensemble/internal/agents/reviewer"
	"go-ensemble/pkg/logger"
	"go-ensemble/pkg/models"
	"time"
)

// Dispatcher runs every worker concurrently and returns results in worker
// order once all of them are done.
type Dispatcher interface {
	Dispatch(requestID uuid.UUID, workers []models.AgentConfig, conversation []models.Message) []models.AgentResult
}

type Orchestrator struct {
	reviewer   models.AgentConfig
	workers    []models.AgentConfig
	dispatcher Dispatcher
	caller     handler.Caller
}

func New(reviewer models.AgentConfig, workers []models.AgentConfig, dispatcher Dispatcher, caller handler.Caller) (*Orchestrator, error) {
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}
	ws := make([]models.AgentConfig, len(workers))
	copy(ws, workers)
	return &Orchestrator{
		reviewer:   reviewer,
		workers:    ws,
		dispatcher: dispatcher,
		caller:     caller,
	}, nil
}

// Run answers the last (user) message of conversation. Earlier messages are
// history. Errors are ErrInvalidConversation, ErrAllWorkersFailed,
// ErrReviewerFailed or ErrInternal.
func (o *Orchestrator) Run(ctx context.Context, conversation []models.Message) (result *models.Result, err error) {
	if len(conversation) == 0 || conversation[len(conversation)-1].Role != models.User {
		return nil, fmt.Errorf("%w: last message must come from the user", ErrInvalidConversation)
	}

	id := uuid.New()
	l := log.With().Str(logger.RequestIDField, id.String()).Logger()
	defer func() {
		if r := recover(); r != nil {
			l.Error().Msgf("recovered from panic: %v", r)
			result, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	question := conversation[len(conversation)-1].Content
	l.Info().Int("conversation", len(conversation)).Int("prompt_chars", len(question)).Msg("request received")
	start := time.Now()

	results := o.dispatcher.Dispatch(id, o.workers, conversation)
	meta := models.RequestMetadata{Total: len(results)}
	for _, r := range results {
		if r.Success() {
			meta.Successful++
		}
	}
	meta.Failed = meta.Total - meta.Successful
	l.Info().Int("succeeded", meta.Successful).Int("failed", meta.Failed).Msg("workers finished")

	if meta.Successful == 0 {
		l.Error().Msg("all workers failed")
		return nil, ErrAllWorkersFailed
	}

	prompt, err := reviewer.BuildPrompt(question, history(conversation), results)
	if err != nil {
		l.Error().Err(err).Msg("unable to build review prompt")
		return nil, fmt.Errorf("%w: review prompt: %v", ErrInternal, err)
	}

	l.Info().Str(logger.AgentNameField, o.reviewer.Name).Int("prompt_chars", len(prompt)).Msg("asking reviewer...")
	review := o.caller.Call(ctx, o.reviewer, []models.Message{{Role: models.User, Content: prompt}})
	if !review.Success() {
		l.Error().Str("reason", review.Reason()).Msg("reviewer failed")
		return nil, fmt.Errorf("%w: %s", ErrReviewerFailed, review.Reason())
	}

	outcome := reviewer.Parse(review.Text)
	meta.Elapsed = time.Since(start)
	l.Info().Int64(logger.DurationField, meta.Elapsed.Milliseconds()).Msg("request complete")

	return &models.Result{
		FinalAnswer: outcome.FinalAnswer,
		Evaluation:  outcome.Evaluation,
		Workers:     results,
		Metadata:    meta,
	}, nil
}

// history keeps the user and assistant turns before the live question.
func history(conversation []models.Message) []models.Message {
	prior := conversation[:len(conversation)-1]
	out := make([]models.Message, 0, len(prior))
	for _, m := range prior {
		if m.Role == models.User || m.Role == models.Assistant {
			out = append(out, m)
		}
	}
	return out
}
