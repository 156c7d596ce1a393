package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"dealdesk/internal/analytics"
	"dealdesk/internal/config"
	cronrunner "dealdesk/internal/cron"
	"dealdesk/internal/db"
	"dealdesk/internal/filter"
	"dealdesk/internal/handler"
	"dealdesk/internal/logger"
	gormrepository "dealdesk/internal/repository/gorm"
	"dealdesk/internal/service"
	"dealdesk/internal/ws"

	_ "dealdesk/docs"
)

func main() {
	cfgPath := os.Getenv("DD_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("DD_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	settingsSvc := &service.DashboardSettingsService{Repo: store, Logger: logger}

	analyticsEngine := &analytics.Engine{Logger: logger}
	analyticsSvc := &service.AnalyticsService{
		Repo:         store,
		Engine:       analyticsEngine,
		Logger:       logger,
		DefaultRange: cfg.Analytics.DefaultRange,
	}

	records, err := analyticsSvc.Records(context.Background())
	if err != nil {
		logger.Warn("initial deal load failed, filter store starts empty", zap.Error(err))
	}
	filterStore := filter.NewStore(records, settingsSvc, logger)

	hub := ws.NewHub(logger)
	defer hub.Close()

	dealSvc := &service.DealService{
		Repo:      store,
		Filters:   filterStore,
		Hub:       hub,
		Analytics: analyticsSvc,
		Logger:    logger,
	}
	snapshotSvc := &service.SnapshotService{
		Repo:      store,
		Analytics: analyticsSvc,
		Logger:    logger,
		Range:     cfg.Analytics.SnapshotRange,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	dealsHandler := &handler.DealsHandler{Service: dealSvc, Repo: store, Logger: logger}
	dealsHandler.Register(engine)
	analyticsHandler := &handler.AnalyticsHandler{Service: analyticsSvc, Repo: store, Hub: hub, Logger: logger}
	analyticsHandler.Register(engine)
	filtersHandler := &handler.FiltersHandler{Store: filterStore, Logger: logger}
	filtersHandler.Register(engine)
	exportsHandler := &handler.ExportsHandler{Analytics: analyticsSvc, Filters: filterStore, Logger: logger}
	exportsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err := cronRunner.Add(cfg.Cron.Snapshot, func(ctx context.Context) {
			if err := snapshotSvc.Capture(ctx); err != nil {
				logger.Warn("cron analytics snapshot failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register snapshot failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
