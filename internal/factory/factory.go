package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/duckrace/internal/api"
	"github.com/mcoot/duckrace/internal/dependencies/clock"
	"github.com/mcoot/duckrace/internal/dependencies/random"
	"github.com/mcoot/duckrace/internal/realtime/ws"
	"github.com/mcoot/duckrace/internal/services/room"
	"github.com/mcoot/duckrace/internal/services/session"
	"github.com/mcoot/duckrace/internal/storage"
	"github.com/mcoot/duckrace/internal/storage/memory"
	redisstorage "github.com/mcoot/duckrace/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RoomStore      *room.Store
	Sweeper        *room.Sweeper
	Index          *session.Index
	SessionHandler *session.Handler

	// Transport
	Hub         *ws.Hub
	Broadcaster *ws.Broadcaster

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RoomConfig holds lifecycle timings (optional)
	// If zero value, defaults to room.DefaultConfig()
	RoomConfig room.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	roomCfg := withRoomDefaults(cfg.RoomConfig)

	return newWithDependencies(store, clock.New(), random.New(), roomCfg, logger), nil
}

func withRoomDefaults(cfg room.Config) room.Config {
	def := room.DefaultConfig()
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = def.ResetDelay
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	return cfg
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, roomCfg room.Config, logger *slog.Logger) *App {
	roomStore := room.NewStore(store, clk, rnd, roomCfg, logger)
	sweeper := room.NewSweeper(roomStore, roomCfg.SweepInterval, logger)
	hub := ws.NewHub(logger)
	broadcaster := ws.NewBroadcaster(hub, logger)
	index := session.NewIndex()
	handler := session.NewHandler(roomStore, index, broadcaster, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		RoomStore:      roomStore,
		Sweeper:        sweeper,
		Index:          index,
		SessionHandler: handler,
		Hub:            hub,
		Broadcaster:    broadcaster,
		Logger:         logger,
	}
}

// Router builds the HTTP handler serving the websocket endpoint, the
// JSON API and, if it exists, staticDir
func (a *App) Router(staticDir string) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:     a.Logger,
		RoomStore:  a.RoomStore,
		Hub:        a.Hub,
		Dispatcher: a.SessionHandler,
		StaticDir:  staticDir,
	})
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
