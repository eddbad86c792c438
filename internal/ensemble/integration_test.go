package ensemble_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-ensemble/internal/agents/dispatcher"
	"go-ensemble/internal/agents/handler"
	"go-ensemble/internal/ensemble"
	"go-ensemble/pkg/models"
)

// ollama serves a fixed reply on /api/chat after delay, and records the last
// user message it received.
type ollama struct {
	mu    sync.Mutex
	reply string
	delay time.Duration
	last  string
}

func (o *ollama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []models.Message `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	o.mu.Lock()
	if n := len(req.Messages); n > 0 {
		o.last = req.Messages[n-1].Content
	}
	o.mu.Unlock()

	select {
	case <-time.After(o.delay):
	case <-r.Context().Done():
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model":   "m",
		"message": map[string]string{"role": "assistant", "content": o.reply},
		"done":    true,
	})
}

func (o *ollama) lastPrompt() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

func backend(t *testing.T, o *ollama) string {
	t.Helper()
	srv := httptest.NewServer(o)
	t.Cleanup(srv.Close)
	return srv.URL + "/api/chat"
}

func TestEnsemble_OneWorkerTimesOut(t *testing.T) {
	review := &ollama{reply: "## Evaluation\nA and B agree; C gave nothing.\n\n## Final Answer\nGo is a compiled language."}
	workers := []models.AgentConfig{
		{Name: "Worker A", Model: "llama3:8b", Endpoint: backend(t, &ollama{reply: "Go is compiled."}), Timeout: 2 * time.Second},
		{Name: "Worker B", Model: "mistral", Endpoint: backend(t, &ollama{reply: "Go compiles to machine code."}), Timeout: 2 * time.Second},
		{Name: "Worker C", Model: "gemma", Endpoint: backend(t, &ollama{reply: "late", delay: 3 * time.Second}), Timeout: 200 * time.Millisecond},
	}
	reviewer := models.AgentConfig{Name: "Reviewer", Model: "llama3:70b", Endpoint: backend(t, review), Timeout: 2 * time.Second}

	h := handler.New(nil)
	d := dispatcher.New(actor.NewActorSystem().Root, h)
	orch, err := ensemble.New(reviewer, workers, d, h)
	require.NoError(t, err)

	res, err := orch.Run(context.Background(), []models.Message{{Role: models.User, Content: "What is Go?"}})
	require.NoError(t, err)

	assert.Equal(t, "Go is a compiled language.", res.FinalAnswer)
	assert.Equal(t, "A and B agree; C gave nothing.", res.Evaluation)
	assert.Equal(t, models.RequestMetadata{Total: 3, Successful: 2, Failed: 1, Elapsed: res.Metadata.Elapsed}, res.Metadata)

	require.Len(t, res.Workers, 3)
	assert.Equal(t, "Worker A", res.Workers[0].Agent)
	assert.Equal(t, "Go is compiled.", res.Workers[0].Text)
	assert.Equal(t, "Worker B", res.Workers[1].Agent)
	assert.Equal(t, "Worker C", res.Workers[2].Agent)
	require.NotNil(t, res.Workers[2].Failure)
	assert.Equal(t, models.Timeout, res.Workers[2].Failure.Kind)

	prompt := review.lastPrompt()
	assert.Contains(t, prompt, "What is Go?")
	assert.Contains(t, prompt, "Go compiles to machine code.")
	assert.Contains(t, prompt, res.Workers[2].Reason())
	assert.Less(t, strings.Index(prompt, "Worker A"), strings.Index(prompt, "Worker C"))

	summary := res.Response().WorkerResponses[2]
	assert.False(t, summary.IsSuccess)
	assert.Equal(t, fmt.Sprintf("error: %s", res.Workers[2].Reason()), summary.Response)
}

func TestEnsemble_AllWorkersDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()
	review := &ollama{reply: "unused"}

	workers := []models.AgentConfig{
		{Name: "A", Model: "m", Endpoint: down.URL + "/api/chat", Timeout: time.Second},
		{Name: "B", Model: "m", Endpoint: down.URL + "/api/chat", Timeout: time.Second},
	}
	h := handler.New(nil)
	orch, err := ensemble.New(models.AgentConfig{Name: "R", Model: "m", Endpoint: backend(t, review), Timeout: time.Second},
		workers, dispatcher.New(actor.NewActorSystem().Root, h), h)
	require.NoError(t, err)

	_, err = orch.Run(context.Background(), []models.Message{{Role: models.User, Content: "q"}})
	assert.ErrorIs(t, err, ensemble.ErrAllWorkersFailed)
	assert.True(t, ensemble.Unavailable(err))
	assert.Empty(t, review.lastPrompt(), "reviewer must not be called")
}
