package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Properties     PropertiesHTTP
	Bookings       BookingsHTTP
	Host           HostHTTP
	Reviews        ReviewsHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers, limiter *RateLimiter) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(obsMW, health, h, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the engine without touching the global gin mode.
func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers, limiter *RateLimiter) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxListingForm
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", idempotencyHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Location",
			obs.RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	if h.AuthMiddleware != nil {
		api.Use(h.AuthMiddleware)
	}

	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Properties != nil {
		api.GET("/properties", h.Properties.List)
		api.GET("/properties/top", h.Properties.Top)
		api.POST("/properties/search", h.Properties.Search)
		api.GET("/properties/:id", h.Properties.Get)
		api.GET("/properties/:id/availability", h.Properties.Availability)
		api.GET("/destinations", h.Properties.Destinations)
	}
	if h.Reviews != nil {
		api.GET("/properties/:id/reviews", h.Reviews.List)
		api.POST("/properties/:id/reviews", h.Reviews.Submit)
		api.GET("/properties/:id/reviews/eligibility", h.Reviews.Eligibility)
	}
	if h.Bookings != nil {
		api.POST("/bookings", h.Bookings.Create)
		api.POST("/bookings/:id/cancel", h.Bookings.Cancel)
	}
	if h.Host != nil {
		hostGroup := api.Group("/host")
		hostGroup.POST("/properties", h.Host.SubmitListing)
		hostGroup.POST("/bookings/:id/confirm", h.Host.ConfirmBooking)
	}

	meGroup := api.Group("/me")
	if h.Bookings != nil {
		meGroup.GET("/bookings", h.Bookings.ListMine)
	}
	if h.Me != nil {
		meGroup.GET("/profile", h.Me.Profile)
		meGroup.PUT("/profile", h.Me.UpdateProfile)
		meGroup.GET("/saved", h.Me.Saved)
		meGroup.PUT("/saved/:propertyId", h.Me.Save)
		meGroup.DELETE("/saved/:propertyId", h.Me.Unsave)
		meGroup.GET("/recommendations", h.Me.Recommendations)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev", "local":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
