package api

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/mcoot/duckrace/internal/api/apierr"
	"github.com/mcoot/duckrace/internal/api/handler"
	apimiddleware "github.com/mcoot/duckrace/internal/api/middleware"
	"github.com/mcoot/duckrace/internal/middleware"
	"github.com/mcoot/duckrace/internal/realtime/ws"
	"github.com/mcoot/duckrace/internal/services/room"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger     *slog.Logger
	RoomStore  *room.Store
	Hub        *ws.Hub
	Dispatcher ws.Dispatcher
	// StaticDir is served at / when it exists
	StaticDir string
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	statsHandler := handler.NewStatsHandler(cfg.RoomStore, cfg.Hub)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// Websocket endpoint; the upgrade hijacks the connection
	r.Handle("/ws", middleware.Recovery(cfg.Logger, middleware.PlainPanicHandler)(
		loggingMiddleware(ws.ServeWS(cfg.Hub, cfg.Dispatcher, cfg.Logger)),
	)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.HandleFunc("/stats", statsHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/health", statsHandler.Health).Methods(http.MethodGet)
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods(http.MethodGet, http.MethodHead)
		} else {
			cfg.Logger.Warn("static directory not found, not serving assets",
				slog.String("dir", cfg.StaticDir))
		}
	}

	return r
}
