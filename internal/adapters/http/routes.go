package http

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the session API under /api/v1.
func RegisterRoutes(app *fiber.App, h *SessionHandler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Routes for the single exposure session
	session := v1.Group("/session")
	session.Post("/", h.StartSession)
	session.Get("/", h.GetSession)
	session.Delete("/", h.CleanupSession)
	session.Get("/events", h.GetEvents)
	session.Get("/stream", h.StreamEvents)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
}
