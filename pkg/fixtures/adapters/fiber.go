package adapters

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/toyz/synth/pkg/fixtures"
)

// FiberAdapter implements fixtures.WebServer for Fiber
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter
func NewFiberAdapter(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a new Fiber adapter without the startup banner
func NewDefaultFiberAdapter() *FiberAdapter {
	return &FiberAdapter{app: fiber.New(fiber.Config{DisableStartupMessage: true})}
}

// Mount registers the fixture routes under prefix
func (fa *FiberAdapter) Mount(prefix string, s *fixtures.Server) {
	group := fa.app.Group(strings.TrimSuffix(prefix, "/"))
	group.Get("", func(c *fiber.Ctx) error {
		return c.JSON(s.Types())
	})
	group.Get("/:type", func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("type"))
		if err != nil {
			name = c.Params("type")
		}

		v, err := s.Render(name, queryValues(c))
		if err != nil {
			fe := fixtures.AsError(err)
			return c.Status(fe.Status).JSON(fe.Body())
		}
		return c.JSON(v)
	})
}

// queryValues copies the fasthttp query arguments into url.Values
func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}

// Start serves on addr until Stop is called
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop shuts the server down gracefully
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}
