package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"google.golang.org/grpc"

	"tutor-scheduling-api/internal/config"
	"tutor-scheduling-api/internal/datasync"
	"tutor-scheduling-api/internal/directory"
	gweb "tutor-scheduling-api/internal/grpcweb"
	"tutor-scheduling-api/internal/handler"
	"tutor-scheduling-api/internal/middleware"
	"tutor-scheduling-api/internal/rpc"
	"tutor-scheduling-api/internal/scheduling"
	"tutor-scheduling-api/internal/store"
	"tutor-scheduling-api/internal/web"
)

const migrationFile = "db/migrations/001_init.sql"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, debug := cfg.Logger()
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// storage
	var st store.Store
	if cfg.DatabaseURL == "" {
		logger.Println("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	} else {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatalf("db ping: %v", err)
		}
		logger.Println("connected to postgres")

		pg := store.NewPostgres(pool)
		if migration, err := os.ReadFile(migrationFile); err != nil {
			logger.Printf("migration file not found, skipping: %v", err)
		} else if err := pg.Migrate(ctx, string(migration)); err != nil {
			logger.Printf("migration warning: %v", err)
		} else {
			logger.Println("migration applied")
		}
		st = pg
	}

	// tutor names, optionally cached in redis
	var users scheduling.UserDirectory = directory.New(st)
	var names *directory.Cached
	if cfg.RedisAddr != "" {
		rdb, err := directory.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		names = directory.NewCached(users, rdb, cfg.RedisTTL, debug)
		users = names
		logger.Printf("name cache on %s (ttl %s)", cfg.RedisAddr, cfg.RedisTTL)
	}

	engine := scheduling.New(st, users, scheduling.WithLogger(logger))
	opts := []handler.Option{handler.WithLogger(logger)}

	// data core sync
	var syncer *datasync.Service
	if cfg.DataCoreURL != "" {
		syncOpts := []datasync.Option{datasync.WithLogger(logger)}
		if names != nil {
			syncOpts = append(syncOpts, datasync.WithNameCache(names))
		}
		syncer = datasync.New(
			datasync.NewHTTPClient(cfg.DataCoreURL, datasync.DefaultHTTPClient()),
			st, syncOpts...,
		)
		opts = append(opts, handler.WithSyncer(syncer))

		c := cron.New()
		if _, err := datasync.Schedule(c, cfg.SyncCron, syncer); err != nil {
			logger.Fatalf("sync schedule %q: %v", cfg.SyncCron, err)
		}
		c.Start()
		defer c.Stop()
		logger.Printf("data sync scheduled (%s)", cfg.SyncCron)
	}

	h := handler.New(engine, st, cfg.JWTSecret, opts...)

	// grpc server
	rl := middleware.NewRateLimiter(ctx, cfg.RateRPS, cfg.RateBurst)
	srv := grpc.NewServer(
		grpc.ForceServerCodec(rpc.Codec{}),
		grpc.ChainUnaryInterceptor(
			middleware.RateLimit(rl),
			middleware.Auth(cfg.JWTSecret),
		),
	)
	rpc.RegisterSchedulingServiceServer(srv, h)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Fatalf("listen: %v", err)
	}
	go func() {
		logger.Printf("grpc on :%s", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			logger.Printf("grpc: %v", err)
		}
	}()

	// grpc-web bridge -> forwards browser requests to grpc on localhost
	bridge, err := gweb.New("localhost:"+cfg.GRPCPort, logger)
	if err != nil {
		logger.Fatalf("bridge: %v", err)
	}
	defer bridge.Close()

	front := &web.Server{
		Engine: engine,
		Users:  users,
		Secret: cfg.JWTSecret,
		Bridge: bridge.Handler(),
		Log:    logger,
	}
	if syncer != nil {
		front.Sync = syncer
	}
	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           front.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Printf("http on :%s", cfg.WebPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
	srv.GracefulStop()
}
