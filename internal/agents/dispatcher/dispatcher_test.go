package dispatcher

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-ensemble/pkg/models"
)

// fakeCaller answers with "<name>-answer" after a per-agent delay and fails
// agents listed in fail.
type fakeCaller struct {
	delays  map[string]time.Duration
	fail    map[string]bool
	barrier *sync.WaitGroup // every call waits here until all calls have started
	calls   atomic.Int32
}

func (f *fakeCaller) Call(_ context.Context, agent models.AgentConfig, conversation []models.Message) models.AgentResult {
	f.calls.Add(1)
	if f.barrier != nil {
		f.barrier.Done()
		f.barrier.Wait()
	}
	time.Sleep(f.delays[agent.Name])
	if f.fail[agent.Name] {
		return models.Failed(agent.Name, models.HTTPStatus, "HTTP error 500", f.delays[agent.Name])
	}
	return models.Succeeded(agent.Name, agent.Name+"-answer:"+conversation[len(conversation)-1].Content, f.delays[agent.Name])
}

func workers(names ...string) []models.AgentConfig {
	out := make([]models.AgentConfig, 0, len(names))
	for _, n := range names {
		out = append(out, models.AgentConfig{Name: n, Model: "m", Endpoint: "http://" + n, Timeout: 2 * time.Second})
	}
	return out
}

func conversation() []models.Message {
	return []models.Message{{Role: models.User, Content: "q"}}
}

func TestDispatch_PreservesInputOrder(t *testing.T) {
	caller := &fakeCaller{delays: map[string]time.Duration{
		"a": 150 * time.Millisecond,
		"b": 10 * time.Millisecond,
		"c": 80 * time.Millisecond,
	}}
	d := New(actor.NewActorSystem().Root, caller)

	results := d.Dispatch(uuid.New(), workers("a", "b", "c"), conversation())

	require.Len(t, results, 3)
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, results[i].Agent)
		assert.True(t, results[i].Success())
		assert.Equal(t, name+"-answer:q", results[i].Text)
	}
}

func TestDispatch_StartsAllBeforeAwaiting(t *testing.T) {
	barrier := &sync.WaitGroup{}
	barrier.Add(4)
	caller := &fakeCaller{barrier: barrier}
	d := New(actor.NewActorSystem().Root, caller)

	done := make(chan []models.AgentResult)
	go func() { done <- d.Dispatch(uuid.New(), workers("a", "b", "c", "d"), conversation()) }()

	select {
	case results := <-done:
		require.Len(t, results, 4)
		for _, r := range results {
			assert.True(t, r.Success())
		}
	case <-time.After(3 * time.Second):
		t.Fatal("workers did not run concurrently")
	}
}

func TestDispatch_FailureDoesNotCancelSiblings(t *testing.T) {
	caller := &fakeCaller{
		delays: map[string]time.Duration{"slow": 200 * time.Millisecond},
		fail:   map[string]bool{"broken": true},
	}
	d := New(actor.NewActorSystem().Root, caller)

	results := d.Dispatch(uuid.New(), workers("broken", "slow"), conversation())

	require.Len(t, results, 2)
	assert.False(t, results[0].Success())
	assert.Equal(t, models.HTTPStatus, results[0].Failure.Kind)
	assert.True(t, results[1].Success())
	assert.Equal(t, "slow-answer:q", results[1].Text)
	assert.EqualValues(t, 2, caller.calls.Load())
}

func TestDispatch_FutureDeadlineBecomesTimeout(t *testing.T) {
	caller := &fakeCaller{delays: map[string]time.Duration{"stuck": 500 * time.Millisecond}}
	d := New(actor.NewActorSystem().Root, caller)
	d.grace = 0

	ws := workers("stuck", "fine")
	ws[0].Timeout = 50 * time.Millisecond

	results := d.Dispatch(uuid.New(), ws, conversation())

	require.Len(t, results, 2)
	require.False(t, results[0].Success())
	assert.Equal(t, models.Timeout, results[0].Failure.Kind)
	assert.Equal(t, "stuck", results[0].Agent)
	assert.True(t, results[1].Success())
}

func TestDispatch_Empty(t *testing.T) {
	d := New(actor.NewActorSystem().Root, &fakeCaller{})
	assert.Empty(t, d.Dispatch(uuid.New(), nil, conversation()))
}
