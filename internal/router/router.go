package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clipops/clip-service/internal/handler"
	"github.com/clipops/clip-service/internal/middleware"
	"github.com/clipops/clip-service/internal/observability/metrics"
	"github.com/clipops/clip-service/pkg/constants"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Clips       *handler.ClipHandler
	Admin       *handler.AdminHandler
	Accounts    *handler.AccountHandler
	OAuth       *handler.OAuthHandler
	Proxies     *handler.ProxyHandler
	Campaigns   *handler.CampaignHandler
	Uploads     *handler.UploadHandler
	Users       *handler.UserHandler
	CloudPhones *handler.CloudPhoneHandler
	Events      *handler.EventsHandler
	Health      *handler.HealthHandler
}

// New builds the HTTP router.
func New(jwtSecret string, corsOrigins []string, h Handlers) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(corsOrigins))
	r.Use(metrics.GinMiddleware())

	r.GET(constants.PathHealth, h.Health.Health)
	r.GET(constants.PathReady, h.Health.Ready)
	r.GET(constants.PathMetrics, gin.WrapH(promhttp.Handler()))

	auth := r.Group("/", middleware.Auth(jwtSecret))

	auth.GET("/me", h.Users.Me)

	clips := auth.Group("/clips")
	{
		clips.POST("", h.Clips.Create)
		clips.GET("", h.Clips.List)
		clips.GET("/:id", h.Clips.Get)
		clips.PATCH("/:id", h.Clips.Update)
		clips.POST("/:id/submit", h.Clips.Submit)
		clips.POST("/:id/withdraw", h.Clips.Withdraw)
		clips.DELETE("/:id", h.Clips.Delete)
	}

	uploads := auth.Group("/uploads")
	{
		uploads.POST("/presign", h.Uploads.Presign)
	}

	accounts := auth.Group("/tiktok-accounts")
	{
		accounts.GET("", h.Accounts.List)
		accounts.GET("/:id", h.Accounts.Get)
		accounts.POST("/:id/link", h.Accounts.Link)
		accounts.DELETE("/:id/link", h.Accounts.Disconnect)

		accounts.POST("", middleware.RequireAdmin(), h.Accounts.Create)
		accounts.PATCH("/:id", middleware.RequireAdmin(), h.Accounts.Update)
		accounts.DELETE("/:id", middleware.RequireAdmin(), h.Accounts.Delete)
		accounts.POST("/:id/sync", middleware.RequireAdmin(), h.Accounts.Sync)
	}

	oauth := auth.Group("/tiktok-oauth")
	{
		oauth.GET("/status", h.OAuth.Status)
		oauth.GET("/authorize-url", h.OAuth.AuthorizeURL)
		oauth.POST("/exchange", h.OAuth.Exchange)
	}

	admin := auth.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/dashboard", h.Admin.Dashboard)
		admin.GET("/clips/pending", h.Admin.PendingClips)
		admin.POST("/clips/:id/approve", h.Admin.Approve)
		admin.POST("/clips/:id/reject", h.Admin.Reject)
		admin.GET("/top/clips", h.Admin.TopClips)
		admin.GET("/top/creators", h.Admin.TopCreators)
		admin.GET("/stats/latest", h.Admin.LatestStats)
		admin.POST("/sync/cloud-phones", h.Admin.SyncCloudPhones)
		admin.POST("/sync/publishing", h.Admin.SyncPublishing)
		admin.GET("/cloud-phones", h.CloudPhones.List)
		admin.GET("/users", h.Users.ListCreators)
	}

	proxies := auth.Group("/proxies", middleware.RequireAdmin())
	{
		proxies.GET("", h.Proxies.List)
		proxies.POST("", h.Proxies.Create)
		proxies.POST("/sync", h.Proxies.Sync)
		proxies.PATCH("/:id", h.Proxies.Update)
		proxies.DELETE("/:id", h.Proxies.Delete)
		proxies.PUT("/:id/assignments", h.Proxies.SetAssignments)
	}

	campaigns := auth.Group("/campaigns", middleware.RequireAdmin())
	{
		campaigns.GET("", h.Campaigns.List)
		campaigns.POST("", h.Campaigns.Create)
		campaigns.GET("/:id", h.Campaigns.Get)
		campaigns.PATCH("/:id", h.Campaigns.Update)
		campaigns.DELETE("/:id", h.Campaigns.Delete)
		campaigns.POST("/:id/clips", h.Campaigns.AddClips)
		campaigns.DELETE("/:id/clips/:clipId", h.Campaigns.RemoveClip)
		campaigns.GET("/:id/report", h.Campaigns.Report)
	}

	// WebSocket: /ws/admin/events
	auth.GET("/ws/admin/events", middleware.RequireAdmin(), h.Events.Stream)

	return r
}

// corsMiddleware allows everything when no origins are configured.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
