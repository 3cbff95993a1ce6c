package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/vicinity-social/vicinity/internal/config"
	"github.com/vicinity-social/vicinity/internal/infra/database"
	"github.com/vicinity-social/vicinity/internal/infra/repository"
	"github.com/vicinity-social/vicinity/internal/infra/telemetry"
	"github.com/vicinity-social/vicinity/internal/present/rest"
	restmiddleware "github.com/vicinity-social/vicinity/internal/present/rest/middleware"
	"github.com/vicinity-social/vicinity/internal/service"
	"github.com/vicinity-social/vicinity/internal/usecase"
)

func main() {
	configPath := flag.String("c", "config.yaml", "path to the config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := telemetry.SetupTraceProvider(ctx, conf.Server.TraceEndpoint, "vicinity")
		if err != nil {
			slog.Error("failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigratePostgres(db)
	if err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	var mc *memcache.Client
	if conf.Server.MemcachedAddr != "" {
		mc = database.NewMemcached(conf.Server.MemcachedAddr)
	}

	profileRepo := repository.NewProfileRepository(db, mc)
	proximityRepo := repository.NewProximityRepository(rdb, profileRepo)
	notificationRepo := repository.NewNotificationRepository(db)

	registry := service.NewRegistry()
	signal := service.NewSignalService(rdb, uuid.NewString())
	go signal.Listen(ctx, registry)

	discoveryUC := usecase.NewDiscoveryUsecase(profileRepo, proximityRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, registry, signal)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("vicinity"))
	}
	e.Use(restmiddleware.IdentifyRequester)

	h := rest.NewHandler(discoveryUC, notificationUC, registry, conf.Discovery)
	h.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}
