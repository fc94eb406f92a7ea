package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"github.com/IEC2025/UeabInnovationHub-sub000/cmd/middleware"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/auth"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/service"
)

type Routers struct {
	Service service.Service
	Auth    *auth.Authenticator
	Log     *zerolog.Logger
	// Health reports whether the store is reachable.
	Health func(ctx context.Context) error
	Mode   string
	// AllowOrigins lists the origins allowed by CORS. Empty allows any.
	AllowOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func NewRouters(r *Routers) *ginext.Engine {
	mode := r.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	app := ginext.New(mode)

	app.Use(gin.Recovery())
	app.Use(middleware.LoggingMiddleware(r.Log))
	app.Use(middleware.MetricsMiddleware())
	app.Use(cors.New(corsConfig(r.AllowOrigins)))

	h := &Handler{svc: r.Service, auth: r.Auth, log: r.Log}

	apiGroup := app.Group("/api")
	apiGroup.POST("/biew-registration", h.CreateRegistration)
	apiGroup.POST("/contact", h.SubmitContact)
	apiGroup.POST("/newsletter", h.Subscribe)
	apiGroup.POST("/admin/login", h.Login)

	admin := apiGroup.Group("/admin", middleware.AdminAuth(r.Auth))
	admin.GET("/biew-registrations", h.ListRegistrations)
	admin.GET("/biew-registrations/export", h.ExportRegistrations)
	admin.GET("/biew-registrations/:id", h.GetRegistration)
	admin.PATCH("/biew-registrations/:id/status", h.SetRegistrationStatus)
	admin.GET("/contacts", h.ListContacts)
	admin.PATCH("/contacts/:id/read", h.MarkContactRead)
	admin.GET("/newsletter", h.ListSubscribers)

	app.GET("/health", func(c *ginext.Context) {
		if r.Health != nil {
			if err := r.Health(c.Request.Context()); err != nil {
				c.JSON(503, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(200, gin.H{"status": "healthy"})
	})
	app.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return app
}
