package actor

import (
	"context"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	"go-ensemble/internal/agents/handler"
	"go-ensemble/pkg/logger"
	"go-ensemble/pkg/messages"
	"time"
)

// Worker runs a single backend call per Invoke and replies to the sender
// with the models.AgentResult.
type Worker struct {
	handler handler.Caller
}

func New(caller handler.Caller) actor.Actor {
	return &Worker{
		handler: caller,
	}
}

// Producer binds a caller so the dispatcher can spawn workers from props.
func Producer(caller handler.Caller) actor.Producer {
	return func() actor.Actor {
		return New(caller)
	}
}

func (agent *Worker) Receive(ac actor.Context) {
	l := log.With().Str(logger.ActorIDField, ac.Self().GetId()).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.Invoke:
		l.Debug().Str(logger.RequestIDField, msg.RequestID.String()).Str(logger.AgentNameField, msg.Agent.Name).Msg("Invoke received")
		start := time.Now()
		res := agent.handler.Call(context.Background(), msg.Agent, msg.Conversation)
		if res.Elapsed == 0 {
			res.Elapsed = time.Since(start)
		}
		ac.Respond(res)
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}
