package adapters

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/toyz/synth/pkg/fixtures"
)

// GinAdapter implements fixtures.WebServer for Gin
type GinAdapter struct {
	engine *gin.Engine
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with a bare Gin engine
func NewDefaultGinAdapter() *GinAdapter {
	return &GinAdapter{engine: gin.New()}
}

// Mount registers the fixture routes under prefix
func (ga *GinAdapter) Mount(prefix string, s *fixtures.Server) {
	group := ga.engine.Group(strings.TrimSuffix(prefix, "/"))
	group.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Types())
	})
	group.GET("/:type", func(c *gin.Context) {
		v, err := s.Render(c.Param("type"), c.Request.URL.Query())
		if err != nil {
			fe := fixtures.AsError(err)
			c.JSON(fe.Status, fe.Body())
			return
		}
		c.JSON(http.StatusOK, v)
	})
}

// Start serves on addr until Stop is called
func (ga *GinAdapter) Start(addr string) error {
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	if err := ga.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (ga *GinAdapter) Stop(ctx context.Context) error {
	if ga.server == nil {
		return nil
	}
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}
