package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	requestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Config holds router-level settings.
type Config struct {
	IsProduction   bool
	ProdOrigins    []string
	TrustedProxies []string
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsEnabled bool
}

// Services bundles the domain services the routes delegate to.
type Services struct {
	User    user.Service
	Item    item.Service
	Booking booking.Service
	Request itemrequest.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, logging, metrics, rate limiting) and registers routes for each module.
func NewRouter(cfg Config, logger zerolog.Logger, svc Services) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Forwarding headers are honoured only from these proxies; nil trusts none.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("invalid trusted proxies, forwarding headers ignored")
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware:
	// - RequestLogger: structured access log and request-scoped logger.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && len(cfg.ProdOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", auth.HeaderUserID, HeaderRequestID}
	r.Use(cors.New(corsConfig))

	if cfg.MetricsEnabled {
		metrics.Register()
		r.Use(Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if cfg.RateLimitRPS > 0 {
		r.Use(newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).middleware())
	}

	// userMiddleware: resolves the acting user from the X-Sharer-User-Id header.
	userMiddleware := auth.RequireUser()

	userHandler := userHttp.NewHandler(svc.User)
	itemHandler := itemHttp.NewHandler(svc.Item)
	bookingHandler := bookingHttp.NewHandler(svc.Booking)
	requestHandler := requestHttp.NewHandler(svc.Request)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, userMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, userMiddleware)
		requestHttp.RegisterRoutes(root, requestHandler, userMiddleware)
	}

	return r
}
