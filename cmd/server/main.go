package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/boardsync/backend/api/handler"
	"github.com/boardsync/backend/internal/config"
	"github.com/boardsync/backend/internal/hub"
	"github.com/boardsync/backend/internal/infrastructure/archive"
	"github.com/boardsync/backend/internal/infrastructure/monitor"
	pgInfra "github.com/boardsync/backend/internal/infrastructure/postgres"
	redisInfra "github.com/boardsync/backend/internal/infrastructure/redis"
	"github.com/boardsync/backend/internal/middleware"
	"github.com/boardsync/backend/internal/router"
	"github.com/boardsync/backend/internal/services"
	"github.com/boardsync/backend/internal/services/lifecycle"
	"github.com/boardsync/backend/pkg/httpcontext"
	"github.com/boardsync/backend/pkg/logger"
	"github.com/boardsync/backend/repository"
	memRepo "github.com/boardsync/backend/repository/memory"
	pgRepo "github.com/boardsync/backend/repository/postgres"
	redisRepo "github.com/boardsync/backend/repository/redis"
	"github.com/boardsync/backend/usecase/activity"
	authUC "github.com/boardsync/backend/usecase/auth"
	"github.com/boardsync/backend/usecase/board"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	// User directory: in-memory by default, Postgres when configured.
	var directory repository.UserDirectory
	var pgPool *pgxpool.Pool
	if cfg.Directory.Backend == config.BackendPostgres {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pgPool, err = pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pgPool.Close()
			return nil
		})
		directory = pgRepo.NewUserDirectory(pgPool)
	} else {
		directory = memRepo.NewUserDirectory()
	}

	// Sessions: in-memory by default, Redis when configured.
	var sessions repository.SessionRepository
	var redisClient *redislib.Client
	if cfg.Sessions.Backend == config.BackendRedis {
		redisClient, err = redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.RegisterCloser("redis", redisClient)
		sessions = redisRepo.NewSessionRepository(redisClient, cfg.Sessions.TTL)
	} else {
		sessions = memRepo.NewSessionRepository()
	}

	// Durable activity archive, off unless a path is enabled.
	var archiveStore *archive.Store
	var archiver *services.Archiver
	if cfg.Archive.Enabled {
		archiveStore, err = archive.Open(cfg.Archive.Path)
		if err != nil {
			zapLogger.Fatal("failed to open activity archive", zap.Error(err))
		}
		manager.RegisterCloser("archive", archiveStore)

		archiver = services.NewArchiver(archiveStore, services.ArchiverConfig{
			QueueSize:       cfg.Archive.QueueSize,
			Retention:       cfg.Archive.Retention,
			CleanupInterval: cfg.Archive.CleanupInterval,
		}, zapLogger)
		archiver.Start()
		manager.Register("archiver", func(ctx context.Context) error {
			archiver.Stop(ctx)
			return nil
		})
	}

	authUseCase := authUC.New(directory, sessions, authUC.Config{
		Secret:   cfg.JWT.Secret,
		TokenTTL: cfg.JWT.TokenTTL,
	}, zapLogger)

	if cfg.SeedDemoUsers {
		if err := authUseCase.SeedDemoUsers(appCtx); err != nil {
			zapLogger.Warn("demo user seeding failed", zap.Error(err))
		}
	}

	broadcastHub := hub.New(authUseCase, cfg.Board.EventBuffer, zapLogger)
	manager.Register("hub", func(ctx context.Context) error {
		broadcastHub.Close()
		return nil
	})

	var sink activity.Sink
	if archiver != nil {
		sink = archiver
	}
	activityLog := activity.New(cfg.Board.ActivityCapacity, sink, zapLogger)

	boardStore := board.NewStore(directory, broadcastHub, activityLog, zapLogger, board.Options{
		Columns:        cfg.Board.Columns,
		ConflictWindow: cfg.Board.ConflictWindow,
	})

	mon := monitor.New(pgPool, redisClient, archiveStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(boardStore, ctxAdapter, zapLogger),
		User:     apiHandler.NewUserHandler(directory, ctxAdapter, zapLogger),
		Activity: apiHandler.NewActivityHandler(activityLog, archiveStore, ctxAdapter, zapLogger),
		Events:   apiHandler.NewEventsHandler(broadcastHub, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Auth(authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
