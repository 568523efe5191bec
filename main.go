package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"gowa-bridge/config"
	"gowa-bridge/database"
	"gowa-bridge/internal/handler"
	"gowa-bridge/internal/helper"
	customMiddleware "gowa-bridge/internal/middleware"
	"gowa-bridge/internal/relay"
	"gowa-bridge/internal/transport"
	"gowa-bridge/internal/ws"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func main() {

	// Load .env (abaikan error kalau file tidak ada, misal di production)
	_ = godotenv.Load()

	cfg := config.Load()

	wsEnv := strings.ToLower(os.Getenv("BRIDGE_ENABLE_WEBSOCKET_EVENTS"))
	config.EnableWebsocketEvents = wsEnv == "" || wsEnv == "true"

	log.Printf("config -> orchestrator=%s transcribe=%s store=%s port=%s",
		cfg.OrchestratorURL, cfg.TranscribeURL, cfg.StoreDir, cfg.Port)

	// Credential store: satu-satunya failure fatal untuk proses ini.
	ctx := context.Background()
	if err := database.InitWhatsmeow(ctx, cfg.StoreDir, cfg.WhatsAppDBURL); err != nil {
		log.Fatal(err)
	}

	// Realtime hub untuk feed event operator
	var realtime ws.RealtimePublisher
	hub := ws.NewHub()
	go hub.Run()
	if config.EnableWebsocketEvents {
		realtime = hub
	}

	// Pipeline relay: transport -> router -> (transcriber) -> forwarder
	manager := transport.NewManager(database.Container, realtime)
	transcriber := relay.NewVoiceTranscriber(cfg.TranscribeURL)
	forwarder := relay.NewOrchestratorForwarder(cfg.OrchestratorURL)
	router := relay.NewRouter(manager, transcriber, forwarder, realtime)

	manager.OnMessageBatch(func(batch transport.MessageBatch) {
		router.HandleBatch(context.Background(), batch)
	})

	log.Println("Connecting to WhatsApp...")
	manager.Initialize(ctx)

	// Setup Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{
			echo.GET,
			echo.POST,
			echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))

	// Rate limiter configuration from env
	rateLimit := helper.GetEnvAsInt("RATE_LIMIT_PER_SECOND", 10)
	rateBurst := helper.GetEnvAsInt("RATE_LIMIT_BURST", 10)
	rateWindow := helper.GetEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 3)

	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(rateLimit),
				Burst:     rateBurst,
				ExpiresIn: time.Duration(rateWindow) * time.Minute,
			},
		),
	}))

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		message := "Internal Server Error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}
		_ = c.JSON(code, map[string]interface{}{
			"success": false,
			"error":   message,
		})
	}

	// Public routes
	e.GET("/health", handler.HealthCheck(manager))
	e.GET("/ws", handler.WebSocketHandler(hub))

	// Push-reply endpoint; JWT guard hanya aktif kalau JWT_SECRET diisi
	api := e.Group("/api")
	if cfg.JWTSecret != "" {
		api.Use(customMiddleware.JWTAuthMiddleware(cfg.JWTSecret))
	} else {
		log.Println("JWT_SECRET is not set, /api endpoints are unauthenticated")
	}
	api.POST("/send", handler.SendMessage(manager))

	log.Printf("Bridge listening on port %s", cfg.Port)
	log.Fatal(e.Start(":" + cfg.Port))
}
