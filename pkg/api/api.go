// Package api implements the REST API for evaluating expressions and
// browsing the evaluation history.
package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/lemonberrylabs/calc/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	app      *fiber.App
	store    *store.Store
	maxDepth int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxDepth sets the parenthesis nesting limit used for evaluations.
func WithMaxDepth(n int) Option {
	return func(s *Server) { s.maxDepth = n }
}

// WithAccessLog enables per-request access logging.
func WithAccessLog() Option {
	return func(s *Server) { s.app.Use(logger.New()) }
}

// New creates a new API server.
func New(s *store.Store, opts ...Option) *Server {
	srv := &Server{store: s}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             64 * 1024,
	})
	srv.app = app

	for _, opt := range opts {
		opt(srv)
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Evaluations API
	app.Post("/v1/evaluations", srv.createEvaluation)
	app.Get("/v1/evaluations", srv.listEvaluations)
	app.Get("/v1/evaluations/:id", srv.getEvaluation)
	app.Delete("/v1/evaluations/:id", srv.deleteEvaluation)

	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// Options returns the evaluation options for a request.
func (s *Server) Options(float bool) calc.Options {
	return calc.Options{Float: float, MaxDepth: s.maxDepth}
}

// --- Evaluation Handlers ---

type createEvaluationRequest struct {
	Expression string `json:"expression"`
	Float      bool   `json:"float"`
}

func (s *Server) createEvaluation(c *fiber.Ctx) error {
	var req createEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT",
			fmt.Sprintf("invalid request body: %v", err))
	}

	ev := s.store.Evaluate(req.Expression, s.Options(req.Float))
	if ev.State == store.EvaluationFailed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    fiber.StatusBadRequest,
				"message": ev.Error.Message,
				"status":  "INVALID_ARGUMENT",
				"kind":    ev.Error.Kind,
			},
			"evaluation": evaluationToJSON(ev),
		})
	}

	return c.Status(fiber.StatusOK).JSON(evaluationToJSON(ev))
}

func (s *Server) getEvaluation(c *fiber.Ctx) error {
	ev, err := s.store.Get(c.Params("id"))
	if err != nil {
		return notFoundOrInternal(c, err)
	}
	return c.JSON(evaluationToJSON(ev))
}

func (s *Server) listEvaluations(c *fiber.Ctx) error {
	evaluations := s.store.List()

	items := make([]fiber.Map, len(evaluations))
	for i, ev := range evaluations {
		items[i] = evaluationToJSON(ev)
	}

	return c.JSON(fiber.Map{
		"evaluations": items,
	})
}

func (s *Server) deleteEvaluation(c *fiber.Ctx) error {
	if err := s.store.Delete(c.Params("id")); err != nil {
		return notFoundOrInternal(c, err)
	}
	return c.JSON(fiber.Map{})
}

// --- Helpers ---

func errorResponse(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func notFoundOrInternal(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	}
	return errorResponse(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
}

func evaluationToJSON(ev *store.Evaluation) fiber.Map {
	result := fiber.Map{
		"id":         ev.ID,
		"expression": ev.Expression,
		"mode":       ev.Mode,
		"state":      ev.State,
		"createTime": ev.CreateTime.Format(time.RFC3339),
	}

	if ev.State == store.EvaluationSucceeded {
		result["result"] = ev.Result
		result["value"] = ev.Value
	}
	if ev.Error != nil {
		result["error"] = fiber.Map{
			"kind":    ev.Error.Kind,
			"message": ev.Error.Message,
		}
	}

	return result
}
