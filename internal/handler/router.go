package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskmatrix/facade/internal/config"
	"github.com/taskmatrix/facade/internal/handler/message"
	"github.com/taskmatrix/facade/internal/handler/meta"
	middlewarePkg "github.com/taskmatrix/facade/internal/middleware"
	"github.com/taskmatrix/facade/internal/service/probe"
)

// NewRouter wires HTTP routes to the facade's handlers.
func NewRouter(cfg *config.Config, prober *probe.Prober) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	metaHandler := meta.New(cfg)
	metaHandler.RegisterRoutes(r)

	messageHandler := message.New(prober, cfg.Upstream.BaseURL())
	r.Route("/api", func(api chi.Router) {
		messageHandler.RegisterRoutes(api)
	})

	return r
}
