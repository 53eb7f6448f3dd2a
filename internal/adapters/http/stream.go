package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

const heartbeatEvery = 15 * time.Second

// StreamEvents sends the current session's events as Server-Sent Events,
// replaying what was already published and then following live.
func (h *SessionHandler) StreamEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	replay, live, cancel := h.events.Subscribe()
	done := h.events.Done()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		for _, event := range replay {
			if err := writeEvent(w, event); err != nil {
				return
			}
		}

		ticker := time.NewTicker(heartbeatEvery)
		defer ticker.Stop()
		for {
			select {
			case event := <-live:
				if err := writeEvent(w, event); err != nil {
					h.log.Debug("event stream closed", "error", err)
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event domain.StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
