// README: API gateway; registers HTTP routes and delegates to the dialog
// machine.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"farelink/internal/dialog"
	"farelink/internal/http/handlers"
	"farelink/internal/http/middleware"
)

type ServerDeps struct {
	Dialog     *dialog.Machine
	APIKey     string
	RatePerSec float64
	Production bool
	Log        *zap.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	if s.deps.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(s.deps.Log))
	router.Use(middleware.Logging(s.deps.Log))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := router.Group("/api")
	api.Use(middleware.RateLimit(s.deps.RatePerSec))
	if s.deps.APIKey != "" {
		api.Use(middleware.RequireAPIKey(s.deps.APIKey))
	}

	messageHandler := handlers.NewMessageHandler(s.deps.Dialog)
	api.POST("/messages", messageHandler.Handle)

	return router
}
