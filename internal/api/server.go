package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/justinas/alice"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"go-ensemble/internal/ensemble"
	"go-ensemble/pkg/logger"
	"go-ensemble/pkg/models"
	"net/http"
	"time"
)

const (
	Version = "1.0.0"
	Prefix  = "/api/v1"
)

// Generator produces an ensemble answer for a validated conversation.
type Generator interface {
	Run(ctx context.Context, conversation []models.Message) (*models.Result, error)
}

type Server struct {
	server *http.Server
}

func New(addr string, gen Generator, roster models.AgentsResponse) *Server {
	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: Router(gen, roster),
		},
	}
}

// Router builds the HTTP routes. It is separate from New so tests can mount
// it on httptest.
func Router(gen Generator, roster models.AgentsResponse) http.Handler {
	r := chi.NewRouter()
	r.Use(logMiddleware())
	r.Use(middleware.Recoverer)
	requests := newRequestsCache()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"message":    "go-ensemble: multi-agent ensemble server",
			"version":    Version,
			"api_prefix": Prefix,
			"endpoints": map[string]string{
				"generate": Prefix + "/generate",
				"health":   Prefix + "/health",
				"agents":   Prefix + "/agents",
			},
		})
	})

	r.Route(Prefix, func(r chi.Router) {
		r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
			req := models.GenerateRequest{}
			if err := render.DecodeJSON(r.Body, &req); err != nil {
				log.Debug().Err(err).Msg("cannot parse body")
				writeError(w, r, http.StatusBadRequest, "unable to parse body")
				return
			}
			conv, err := conversation(req)
			if err != nil {
				log.Debug().Err(err).Msg("invalid generate request")
				writeError(w, r, http.StatusUnprocessableEntity, err.Error())
				return
			}

			id := uuid.New()
			requests.add(id)
			defer requests.remove(id)

			res, err := gen.Run(r.Context(), conv)
			if err != nil {
				status, msg := classify(err)
				log.Error().Str(logger.RequestIDField, id.String()).Err(err).Int("status", status).Msg("generate failed")
				writeError(w, r, status, msg)
				return
			}
			render.JSON(w, r, res.Response())
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, models.HealthResponse{
				Status:    "ok",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				InFlight:  requests.size(),
			})
		})

		r.Get("/agents", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, roster)
		})
	})

	return r
}

// classify maps orchestration errors to a status and a client-safe message.
func classify(err error) (int, string) {
	switch {
	case ensemble.Unavailable(err):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, ensemble.ErrInvalidConversation):
		return http.StatusUnprocessableEntity, err.Error()
	case isValidation(err):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, models.ErrorResponse{Error: msg})
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server starting")
	err := s.server.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("http server stopped")
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

func logMiddleware() func(http.Handler) http.Handler {
	c := alice.New()
	c = c.Append(hlog.NewHandler(log.Logger))
	c = c.Append(hlog.RemoteAddrHandler("ip"))
	c = c.Append(hlog.UserAgentHandler("agent"))
	c = c.Append(hlog.RefererHandler("referer"))
	c = c.Append(hlog.RequestIDHandler("req_id", "Request-Id"))
	c = c.Append(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("verb", r.Method).
			Stringer("url", r.URL).
			Int("size", size).
			Int("status", status).
			Int64("duration", duration.Milliseconds()).
			Msg("REQ")
	}))

	return c.Then
}
