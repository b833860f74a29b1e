package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	TrustedProxies string
	DBPool         *pgxpool.Pool
	Logger         zerolog.Logger
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsEnabled bool
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Repositories
	userRepo := user.NewPgxRepository(cfg.DBPool)
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	requestRepo := itemrequest.NewPgxRepository(cfg.DBPool)

	// User Module
	userService := user.NewService(userRepo)

	// Item Module (reads bookings through the booking adapter)
	itemService := item.NewService(itemRepo, userService, booking.NewItemBookings(bookingRepo), requestRepo)

	// Booking Module
	bookingService := booking.NewService(bookingRepo, userService, itemService)

	// Request Module
	requestService := itemrequest.NewService(requestRepo, userService)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    splitList(cfg.ProdOrigins),
		TrustedProxies: splitList(cfg.TrustedProxies),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		MetricsEnabled: cfg.MetricsEnabled,
	}

	router := api.NewRouter(routerParams, cfg.Logger, api.Services{
		User:    userService,
		Item:    itemService,
		Booking: bookingService,
		Request: requestService,
	})

	return &Container{
		Router: router,
	}
}

func splitList(raw string) []string {
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
