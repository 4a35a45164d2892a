package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/connect-four-server/internal/lobby"
	"github.com/DoyleJ11/connect-four-server/internal/ws"
)

func SetupRoutes(l *lobby.Lobby, wsOpts ws.Options, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", Healthz(l))
	r.Get("/state", State(l))
	r.Get("/geometry", Geometry)
	r.Get("/ws", ws.Handler(l, wsOpts, log.Named("ws")))
	return r
}
