package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"go-ensemble/pkg/logger"
	"go-ensemble/pkg/models"
	"io"
	"net"
	"net/http"
	"time"
)

// answerPath is where an Ollama /api/chat response carries the reply text.
const answerPath = "message.content"

// Caller performs one backend exchange. Implementations never return an
// error: every failure is folded into the result.
type Caller interface {
	Call(ctx context.Context, agent models.AgentConfig, conversation []models.Message) models.AgentResult
}

type Handler struct {
	client *http.Client
}

func New(client *http.Client) *Handler {
	if client == nil {
		client = &http.Client{}
	}
	return &Handler{
		client: client,
	}
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []models.Message `json:"messages"`
	Stream   bool             `json:"stream"`
}

func (h *Handler) Call(ctx context.Context, agent models.AgentConfig, conversation []models.Message) (res models.AgentResult) {
	start := time.Now()
	l := log.With().Str(logger.AgentNameField, agent.Name).Str(logger.ModelField, agent.Model).Logger()
	defer func() {
		if r := recover(); r != nil {
			res = models.Failed(agent.Name, models.UnexpectedError, fmt.Sprintf("unexpected error: %v", r), time.Since(start))
		}
		ev := l.Info()
		if !res.Success() {
			ev = l.Warn().Str("failure", string(res.Failure.Kind)).Str("reason", res.Failure.Reason)
		}
		ev.Int64(logger.DurationField, res.Elapsed.Milliseconds()).Bool("success", res.Success()).Msg("agent call finished")
	}()

	l.Debug().Msg("sending request")
	text, failure := h.exchange(ctx, agent, conversation)
	if failure != nil {
		return models.Failed(agent.Name, failure.Kind, failure.Reason, time.Since(start))
	}
	return models.Succeeded(agent.Name, text, time.Since(start))
}

func (h *Handler) exchange(ctx context.Context, agent models.AgentConfig, conversation []models.Message) (string, *models.Failure) {
	if agent.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, agent.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatRequest{Model: agent.Model, Messages: conversation, Stream: false})
	if err != nil {
		return "", &models.Failure{Kind: models.UnexpectedError, Reason: fmt.Sprintf("unexpected error: marshal: %v", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, agent.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &models.Failure{Kind: models.UnexpectedError, Reason: fmt.Sprintf("unexpected error: request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", classify(ctx, agent, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &models.Failure{Kind: models.HTTPStatus, Reason: fmt.Sprintf("HTTP error %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(ctx, agent, err)
	}

	if !gjson.ValidBytes(raw) {
		return "", &models.Failure{Kind: models.MalformedResponse, Reason: "malformed response: body is not valid JSON"}
	}
	answer := gjson.GetBytes(raw, answerPath)
	if !answer.Exists() || answer.Type != gjson.String {
		return "", &models.Failure{Kind: models.MalformedResponse, Reason: "malformed response: missing " + answerPath}
	}
	return answer.String(), nil
}

func classify(ctx context.Context, agent models.AgentConfig, err error) *models.Failure {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &models.Failure{Kind: models.Timeout, Reason: fmt.Sprintf("timeout (%s)", agent.Timeout)}
	}
	return &models.Failure{Kind: models.NetworkError, Reason: fmt.Sprintf("connection error: %v", unwrapURL(err))}
}

// unwrapURL drops the "Post \"http://...\":" prefix net/http adds.
func unwrapURL(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
