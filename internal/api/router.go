// Package api exposes the registry over HTTP with gin.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ehsas/internal/admin"
	"ehsas/internal/alumni"
	"ehsas/internal/auth"
	"ehsas/internal/cloudinary"
	"ehsas/internal/content"
	"ehsas/internal/httpmiddleware"
	"ehsas/internal/notify"
)

// Uploader stores images and returns their public location.
type Uploader interface {
	UploadDataURL(ctx context.Context, kind cloudinary.Kind, dataURL string) (*cloudinary.UploadResult, error)
	UploadFile(ctx context.Context, kind cloudinary.Kind, data []byte, filename string) (*cloudinary.UploadResult, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Options are the HTTP-level settings taken from config.App.
type Options struct {
	APIPrefix       string
	CORSOrigins     []string
	RateLimitPerMin int
	MetricsEnabled  bool
}

// Deps are the services the handlers call. Uploader and Health may be nil.
type Deps struct {
	Admins        *admin.Service
	Issuer        *auth.Issuer
	Alumni        *alumni.Service
	Notifications *notify.Recorder
	Content       *content.Service
	Uploader      Uploader
	Health        map[string]HealthCheck
	Log           zerolog.Logger
}

type server struct {
	Deps
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(opts Options, d Deps) *gin.Engine {
	s := &server{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.AccessLog(d.Log, "/healthz", "/metrics"))
	if opts.MetricsEnabled {
		r.Use(httpmiddleware.Metrics())
	}
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	r.Use(httpmiddleware.SecurityHeaders())

	if opts.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.GET("/healthz", s.health)

	limiter := httpmiddleware.NewRateLimiter(opts.RateLimitPerMin).GinMiddleware()
	requireAdmin := auth.RequireRole(d.Issuer, auth.RoleAdmin)

	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := r.Group(prefix)
	api.GET("/", s.root)
	api.POST("/auth/admin/login", limiter, s.login)

	api.POST("/alumni/register", limiter, s.register)
	api.GET("/alumni", s.listAlumni)
	api.GET("/alumni/pending", requireAdmin, s.listPending)
	api.GET("/alumni/all", requireAdmin, s.listAll)
	api.PUT("/alumni/:id/approve", requireAdmin, s.approve)
	api.PUT("/alumni/:id/reject", requireAdmin, s.reject)

	api.GET("/events", s.listEvents)
	api.POST("/events", requireAdmin, s.createEvent)
	api.PUT("/events/:id", requireAdmin, s.updateEvent)
	api.DELETE("/events/:id", requireAdmin, s.deleteEvent)

	api.GET("/spotlight", s.listFeaturedSpotlight)
	api.GET("/spotlight/all", requireAdmin, s.listAllSpotlight)
	api.POST("/spotlight", requireAdmin, s.createSpotlight)
	api.PUT("/spotlight/:id", requireAdmin, s.updateSpotlight)
	api.DELETE("/spotlight/:id", requireAdmin, s.deleteSpotlight)

	adm := api.Group("/admin", requireAdmin)
	adm.GET("/stats", s.stats)
	adm.GET("/notifications", s.listNotifications)
	adm.PUT("/notifications/:id/read", s.markNotificationRead)

	api.POST("/uploads", requireAdmin, s.upload)

	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Not Found")
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", httpmiddleware.RequestIDHeader},
		ExposeHeaders:    []string{httpmiddleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// credentials cannot be combined with a literal "*"
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "EHSAS API - Elden Heights School Alumni Society"})
}

func (s *server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{}
	status := http.StatusOK
	for name, check := range s.Health {
		ok := check(ctx)
		body[name] = ok
		if !ok {
			status = http.StatusServiceUnavailable
		}
	}
	if status == http.StatusOK {
		body["status"] = "ok"
	} else {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
