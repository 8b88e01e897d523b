package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/movieclub/internal/calibration"
	"github.com/iliyamo/movieclub/internal/catalog"
	"github.com/iliyamo/movieclub/internal/config"
	"github.com/iliyamo/movieclub/internal/handler"
	"github.com/iliyamo/movieclub/internal/logging"
	"github.com/iliyamo/movieclub/internal/middleware"
	"github.com/iliyamo/movieclub/internal/queue"
	"github.com/iliyamo/movieclub/internal/router"
	"github.com/iliyamo/movieclub/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(cfg.Redis, log)
	if rdb != nil && cfg.StorageDriver != config.StorageRedis {
		defer rdb.Close()
	}

	kv, err := openKV(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer kv.Close()

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = &service.AMQPPublisher{URL: cfg.RabbitURL, Log: log.With("component", "publisher")}
	}
	analyzer := calibration.NewAnalyzer(calibration.ParseMethod(cfg.PValueMethod))
	store := service.NewReviewStore(kv, analyzer, events, log)
	if err := store.Load(ctx); err != nil {
		return err
	}
	defer store.Wait()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover(), middleware.RequestLogger(log.With("component", "http")))

	router.RegisterRoutes(e, &handler.HealthHandler{Store: store, Redis: rdb})
	v1 := e.Group("/v1", middleware.NewTokenBucket(cfg.RateLimit, rdb, log))
	router.RegisterAuth(v1, &handler.AuthHandler{Cfg: cfg})
	router.RegisterReviews(v1, &handler.ReviewHandler{Store: store, SeedFile: cfg.SeedFile, Log: log}, cfg.JWTSecret)
	router.RegisterFilms(v1,
		&handler.FilmHandler{Catalog: catalog.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey), Log: log},
		middleware.NewRedisCache(cfg.Cache, rdb, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info("listening", "addr", addr, "env", cfg.Env, "storage", cfg.StorageDriver, "pvalue", analyzer.Method())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})
	if cfg.EventsEnabled {
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogDir: "logs", Log: log.With("component", "consumer")}
		g.Go(func() error { return consumer.Run(gctx) })
	}
	return g.Wait()
}
