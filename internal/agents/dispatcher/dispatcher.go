package dispatcher

import (
	"fmt"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go-ensemble/internal/agents/handler"
	workerActor "go-ensemble/internal/agents/worker/actor"
	"go-ensemble/pkg/logger"
	"go-ensemble/pkg/messages"
	"go-ensemble/pkg/models"
	"time"
)

// DefaultGrace is added to an agent's own timeout to get the deadline of the
// future waiting on its worker actor.
const DefaultGrace = 5 * time.Second

// Dispatcher fans a conversation out to worker actors, one per agent config.
type Dispatcher struct {
	ac    *actor.RootContext
	props *actor.Props
	grace time.Duration
}

func New(ac *actor.RootContext, caller handler.Caller) *Dispatcher {
	return &Dispatcher{
		ac:    ac,
		props: actor.PropsFromProducer(workerActor.Producer(caller)),
		grace: DefaultGrace,
	}
}

// Dispatch starts every worker before awaiting any of them and returns once
// all have finished. Result i belongs to workers[i]. A failing worker never
// cancels its siblings.
func (d *Dispatcher) Dispatch(requestID uuid.UUID, workers []models.AgentConfig, conversation []models.Message) []models.AgentResult {
	l := log.With().Str(logger.RequestIDField, requestID.String()).Logger()
	l.Info().Int(logger.WorkersField, len(workers)).Msg("dispatching to workers...")
	start := time.Now()

	pids := make([]*actor.PID, len(workers))
	futures := make([]*actor.Future, len(workers))
	for i, w := range workers {
		pids[i] = d.ac.Spawn(d.props)
		futures[i] = d.ac.RequestFuture(pids[i], messages.Invoke{
			RequestID:    requestID,
			Agent:        w,
			Conversation: conversation,
		}, w.Timeout+d.grace)
	}

	results := make([]models.AgentResult, len(workers))
	succeeded := 0
	for i, f := range futures {
		results[i] = d.collect(workers[i], f, start)
		d.ac.Stop(pids[i])
		if results[i].Success() {
			succeeded++
		}
	}

	l.Info().
		Int(logger.WorkersField, len(workers)).
		Int("succeeded", succeeded).
		Int64(logger.DurationField, time.Since(start).Milliseconds()).
		Msg("all workers finished")
	return results
}

func (d *Dispatcher) collect(agent models.AgentConfig, f *actor.Future, start time.Time) models.AgentResult {
	res, err := f.Result()
	if err != nil {
		// the actor never replied within timeout+grace
		return models.Failed(agent.Name, models.Timeout, fmt.Sprintf("timeout (%s)", agent.Timeout), time.Since(start))
	}
	result, ok := res.(models.AgentResult)
	if !ok {
		return models.Failed(agent.Name, models.UnexpectedError, fmt.Sprintf("unexpected error: worker replied with %T", res), time.Since(start))
	}
	return result
}
