package main

import (
	"context"
	"goods-tracker/internal/admin"
	"goods-tracker/internal/handler"
	"goods-tracker/internal/ledger"
	mid "goods-tracker/internal/middleware"
	"goods-tracker/internal/storage"
	"goods-tracker/internal/upload"
	"goods-tracker/pkg/config"
	"goods-tracker/pkg/database"
	"goods-tracker/pkg/jwtutil"
	"goods-tracker/pkg/logger"
	"goods-tracker/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting goods-tracker", appConfig.LogFields()...)

	jwtutil.Initialize(&appConfig.JWT)

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	store, err := openStore(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	log.Info("Goods document ready", zap.String("driver", store.Driver()))

	photos := upload.NewPhotoStore(appConfig.Upload.Dir, appConfig.Upload.URLPrefix, appConfig.Upload.MaxFiles)
	if err := photos.Init(); err != nil {
		log.Fatal("Failed to create upload directory", zap.Error(err))
	}

	goods := ledger.New(storage.WithMetrics(store), log.Named("ledger"))
	verifier := admin.NewStaticVerifier(appConfig.Admin.Username, appConfig.Admin.Password, appConfig.Admin.PasswordHash)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.HealthCheck)

	var guards []echo.MiddlewareFunc
	if appConfig.Admin.RequireToken {
		guards = append(guards, mid.AdminAuthMiddleware)
	}
	handler.NewProductHandler(goods, photos).Register(e.Group("/api/products"), guards...)
	e.POST("/api/admin/login", handler.NewAdminHandler(verifier).Login)

	// Public catalog, tracking and admin pages plus uploaded photos
	e.Static(appConfig.Upload.URLPrefix, appConfig.Upload.Dir)
	e.Static("/", appConfig.Server.PublicDir)

	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "postgres":
		db, err := database.Open(cfg)
		if err != nil {
			return nil, err
		}
		s := storage.NewPostgresStore(db, cfg.Storage.DocumentName)
		if err := s.Init(context.Background()); err != nil {
			return nil, err
		}
		return s, nil
	default:
		s := storage.NewFileStore(cfg.Storage.DataFile)
		if err := s.Init(); err != nil {
			return nil, err
		}
		return s, nil
	}
}
