package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/http/handlers"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/http/middleware"
)

type Deps struct {
	Logger         *slog.Logger
	Checkout       *handlers.CheckoutHandler
	Webhook        *handlers.WebhookHandler
	AllowedOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.ErrorHandler(d.Logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", handlers.Health)

	api := r.Group("/api/stripe")
	{
		api.POST("/create-checkout-session", d.Checkout.Create)
		api.POST("/webhook", d.Webhook.Handle)
	}

	return r
}
