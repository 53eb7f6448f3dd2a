package http

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/core/ports"
)

type SessionHandler struct {
	service ports.SessionService
	events  *Broadcaster
	runCtx  context.Context
	log     *slog.Logger

	mu       sync.Mutex
	draining bool
	runs     sync.WaitGroup
}

// NewSessionHandler creates the session handlers. Sequences started over
// HTTP run under runCtx, not the request context, so they outlive the
// request that triggered them.
func NewSessionHandler(runCtx context.Context, service ports.SessionService, events *Broadcaster, log *slog.Logger) *SessionHandler {
	return &SessionHandler{service: service, events: events, runCtx: runCtx, log: log}
}

type StartSessionRequest struct {
	LocalURL string `json:"local_url"`
}

func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.LocalURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "local_url is required",
		})
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draining {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Server is shutting down",
		})
	}

	sess, err := h.service.Begin(req.LocalURL)
	if errors.Is(err, domain.ErrSessionActive) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   err.Error(),
			"session": sess,
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.events.Reset()
	h.runs.Add(1)
	go func() {
		defer h.runs.Done()
		// The outcome is already on the event stream.
		if err := h.service.Run(h.runCtx); err != nil {
			h.log.Info("session halted", "session_id", sess.ID, "error", err)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(sess)
}

// Drain refuses new sessions and waits for a running sequence to return,
// so a final cleanup sees every resource it created.
func (h *SessionHandler) Drain() {
	h.mu.Lock()
	h.draining = true
	h.mu.Unlock()
	h.runs.Wait()
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sess, ok := h.service.Snapshot()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No session started",
		})
	}
	return c.JSON(sess)
}

func (h *SessionHandler) CleanupSession(c *fiber.Ctx) error {
	if err := h.service.Cleanup(c.Context()); err != nil {
		// Identifiers are cleared either way; report what failed.
		return c.JSON(fiber.Map{
			"status": "cleaned_with_errors",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "cleaned"})
}

func (h *SessionHandler) GetEvents(c *fiber.Ctx) error {
	return c.JSON(h.events.History())
}
