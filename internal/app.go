package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"pawmatch/auth"
	"pawmatch/infrastructure/http/server"
	"pawmatch/infrastructure/ws"
	"pawmatch/quota"
	"pawmatch/repositories"
	"pawmatch/repositories/postgres"
	"pawmatch/runtime"
	"pawmatch/runtime/workers"
	"pawmatch/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

type stores struct {
	pets     repositories.IPetRepository
	likes    repositories.ILikeStore
	matches  repositories.IMatchRepository
	messages repositories.IMessageRepository
	users    repositories.IUserRepository
	health   func(ctx context.Context) error
}

// App is the assembled server: storage, quota, realtime router and HTTP surface.
type App struct {
	Handler http.Handler
	Router  *runtime.Router
	// Badger is nil with the postgres driver.
	Badger *badger.DB

	log     *slog.Logger
	closers []func()
}

func New(ctx context.Context, cfg Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{log: log}

	st, err := app.openStores(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var limiter quota.Limiter = quota.NewMemoryLimiter()
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		options, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(options)
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
		if err = redisClient.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		limiter = quota.NewRedisLimiter(redisClient, log)
	}
	quotas := quota.NewService(st.users, limiter, log)

	charReplacement, _ := CharacterRune(cfg.CharReplacement)
	moderator, err := runtime.LoadModerator(log, charReplacement)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("load moderator: %w", err)
	}

	supervisor := workers.NewSupervisor(log)
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, supervisor, registry, st.matches, st.messages, moderator, runtime.RouterConfig{
		BufferSize:       cfg.BufferSize,
		SinkTimeout:      cfg.SinkTimeout,
		MaxContentLength: cfg.MaxContentLength,
		LimitMessages:    cfg.LimitMessages,
	})
	router.AddWorkers(workers.NewHeartbeatWorker(log, registry, cfg.HeartbeatInterval, supervisor.Restarts))
	if redisClient != nil {
		instanceID := lo.Ternary(cfg.InstanceID != "", cfg.InstanceID, uuid.NewString())
		relay := workers.NewRedisRelay(redisClient, instanceID, router.Remote(), log)
		router.Add(relay)
		router.AddWorkers(relay)
		log.Info("Cross-instance relay enabled", "instance_id", instanceID)
	}
	app.Router = router

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AuthTokenDuration)
	chat := services.NewChatService(router)
	origins := cfg.Origins()
	socket := ws.NewHandler(log, chat, cfg.ConnectionBufferSize, cfg.RequestTimeout, func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || lo.Contains(origins, "*") || lo.Contains(origins, origin)
	})
	app.Handler = server.NewServer(log,
		server.Config{AllowedOrigins: origins, LimitMessages: cfg.LimitMessages, LimitPets: cfg.LimitPets},
		tokens,
		services.NewAuthService(st.users, tokens),
		services.NewPetService(log, st.pets, quotas),
		services.NewMatchService(log, st.pets, st.likes, st.matches, quotas, router),
		chat, socket, st.health,
	).Handler()

	return app, nil
}

func (a *App) openStores(ctx context.Context, cfg Config) (stores, error) {
	switch cfg.StorageDriver {
	case DriverPostgres:
		db, err := postgres.New(ctx, cfg.PostgresURL, postgres.PoolConfig{MaxConns: cfg.PostgresMaxConns}, a.log)
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, db.Close)
		if err = db.Migrate(ctx); err != nil {
			return stores{}, err
		}
		likes := postgres.NewLikeRepository(db)
		return stores{
			pets:     postgres.NewPetRepository(db),
			likes:    likes,
			matches:  likes,
			messages: postgres.NewMessageRepository(db),
			users:    postgres.NewUserRepository(db),
			health:   db.Health,
		}, nil
	default:
		options := badger.DefaultOptions(cfg.BadgerFilepath).WithLoggingLevel(badger.WARNING)
		if cfg.BadgerInMemory {
			options = badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.WARNING)
		}
		db, err := badger.Open(options)
		if err != nil {
			return stores{}, fmt.Errorf("database opening failed: %w", err)
		}
		a.Badger = db
		a.closers = append(a.closers, func() {
			a.log.Info("Closing BadgerDB...")
			_ = db.Close()
		})
		likes := repositories.NewLikeRepository(db)
		return stores{
			pets:     repositories.NewPetRepository(db),
			likes:    likes,
			matches:  likes,
			messages: repositories.NewMessageRepository(db, a.log),
			users:    repositories.NewUserRepository(db),
			health: func(context.Context) error {
				if db.IsClosed() {
					return badger.ErrDBClosed
				}
				return nil
			},
		}, nil
	}
}

// Start launches the router and its supervised workers.
func (a *App) Start(ctx context.Context) {
	a.Router.Start(ctx)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	if a.Router != nil {
		a.Router.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
