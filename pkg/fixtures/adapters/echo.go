package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/toyz/synth/pkg/fixtures"
)

// EchoAdapter implements fixtures.WebServer for Echo
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with a quiet Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{engine: e}
}

// Mount registers the fixture routes under prefix
func (ea *EchoAdapter) Mount(prefix string, s *fixtures.Server) {
	group := ea.engine.Group(strings.TrimSuffix(prefix, "/"))
	group.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.Types())
	})
	group.GET("/:type", func(c echo.Context) error {
		name, err := url.PathUnescape(c.Param("type"))
		if err != nil {
			name = c.Param("type")
		}

		v, err := s.Render(name, c.QueryParams())
		if err != nil {
			fe := fixtures.AsError(err)
			return c.JSON(fe.Status, fe.Body())
		}
		return c.JSON(http.StatusOK, v)
	})
}

// Start serves on addr until Stop is called
func (ea *EchoAdapter) Start(addr string) error {
	if err := ea.engine.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}
