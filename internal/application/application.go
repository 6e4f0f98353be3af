package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clipops/clip-service/internal/config"
	"github.com/clipops/clip-service/internal/database"
	"github.com/clipops/clip-service/internal/geelark"
	"github.com/clipops/clip-service/internal/handler"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/observability/metrics"
	"github.com/clipops/clip-service/internal/router"
	"github.com/clipops/clip-service/internal/service"
	"github.com/clipops/clip-service/internal/storage"
	"github.com/clipops/clip-service/internal/tiktok"
)

// API is the HTTP + WebSocket API application.
type API struct {
	cfg  *config.Config
	srv  *http.Server
	db   *gorm.DB
	hub  *service.EventHub
	cron *cron.Cron
	log  *zap.Logger
}

// NewAPI creates the API application: validates config, runs migrations, opens
// the database, builds all services with whatever providers are configured,
// and mounts the router. Unconfigured providers degrade their endpoints to
// 503s instead of failing startup.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	logger, _ := zap.NewProduction()
	if cfg.AppEnv == "development" {
		logger, _ = zap.NewDevelopment()
	}
	metrics.MustRegister()

	var (
		publisher service.TaskPublisher
		devices   service.DeviceAPI
		proxyAPI  service.ProxyAPI
	)
	if cfg.GeelarkConfigured() {
		gee := geelark.NewClient(cfg.Geelark.BaseURL, cfg.Geelark.AppID, cfg.Geelark.APIKey, logger)
		publisher, devices, proxyAPI = gee, gee, gee
	} else {
		logger.Warn("geelark credentials absent, publish and device sync disabled")
	}

	var (
		oauthAPI   service.OAuthAPI
		contentAPI service.ContentAPI
		revoker    service.TokenRevoker
	)
	if cfg.TikTokConfigured() {
		tk := tiktok.NewClient(cfg.TikTok.ClientKey, cfg.TikTok.ClientSecret, logger)
		oauthAPI, contentAPI, revoker = tk, tk, tk
	} else {
		logger.Warn("tiktok credentials absent, oauth and video sync disabled")
	}

	var presigner service.Presigner
	if cfg.S3Configured() {
		store, err := storage.New(storage.Options{
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			UseSSL:        cfg.S3.UseSSL,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		presigner = store
	} else {
		logger.Warn("s3 credentials absent, presigned uploads disabled")
	}

	hub := service.NewEventHub(logger)
	accountSvc := service.NewAccountService(db, revoker, logger)
	clipSvc := service.NewClipService(db, hub)
	adminSvc := service.NewAdminService(db, publisher, hub, logger)
	syncSvc := service.NewSyncService(db, contentAPI, devices, hub, logger)
	oauthSvc := service.NewOAuthService(oauthAPI, accountSvc, cfg.TikTok.RedirectURI, logger)
	proxySvc := service.NewProxyService(db, proxyAPI, logger)
	campaignSvc := service.NewCampaignService(db)
	uploadSvc := service.NewUploadService(presigner, time.Duration(cfg.S3.UploadTTLSecs)*time.Second)
	userSvc := service.NewUserService(db)

	r := router.New(cfg.JWTSecret, cfg.CORSAllowedOrigins, router.Handlers{
		Clips:       handler.NewClipHandler(clipSvc),
		Admin:       handler.NewAdminHandler(adminSvc, syncSvc),
		Accounts:    handler.NewAccountHandler(accountSvc, syncSvc),
		OAuth:       handler.NewOAuthHandler(oauthSvc),
		Proxies:     handler.NewProxyHandler(proxySvc),
		Campaigns:   handler.NewCampaignHandler(campaignSvc),
		Uploads:     handler.NewUploadHandler(uploadSvc),
		Users:       handler.NewUserHandler(userSvc),
		CloudPhones: handler.NewCloudPhoneHandler(syncSvc),
		Events:      handler.NewEventsHandler(hub, logger),
		Health:      handler.NewHealthHandler(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	app := &API{cfg: cfg, srv: srv, db: db, hub: hub, log: logger}
	if cfg.StatsCron.Enabled {
		app.cron = buildStatsCron(cfg.StatsCron.Schedule, db, syncSvc, logger)
	}
	return app, nil
}

// buildStatsCron schedules the periodic stats pull. Clips created for unseen
// videos are owned by the oldest admin, same as a manually triggered sync.
func buildStatsCron(schedule string, db *gorm.DB, syncSvc *service.SyncService, log *zap.Logger) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		var admin model.User
		if err := db.Where("role = ?", model.RoleAdmin).Order("created_at ASC").First(&admin).Error; err != nil {
			log.Warn("stats cron: no admin user, skipping run", zap.Error(err))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		syncSvc.SyncAllAccounts(ctx, admin.ID)
		if _, err := syncSvc.SyncPublishingClips(ctx); err != nil {
			log.Warn("stats cron: publishing reconcile failed", zap.Error(err))
		}
	})
	if err != nil {
		log.Error("stats cron: bad schedule, cron disabled", zap.String("schedule", schedule), zap.Error(err))
		return nil
	}
	return c
}

// Run starts the HTTP server and blocks until ctx is cancelled; then shuts
// down gracefully.
func (a *API) Run(ctx context.Context) error {
	a.log.Info("http server listening",
		zap.String("addr", a.srv.Addr),
		zap.Bool("tiktok", a.cfg.TikTokConfigured()),
		zap.Bool("geelark", a.cfg.GeelarkConfigured()),
		zap.Bool("s3", a.cfg.S3Configured()))

	if a.cron != nil {
		a.cron.Start()
	}
	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	if a.cron != nil {
		a.cron.Stop()
	}
	a.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	_ = a.log.Sync()
	return nil
}
