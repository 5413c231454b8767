package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/muhzahjr07/lpl-auction-system/internal/api/handlers"
	"github.com/muhzahjr07/lpl-auction-system/internal/config"
	mysqlinfra "github.com/muhzahjr07/lpl-auction-system/internal/infrastructure/mysql"
	redisinfra "github.com/muhzahjr07/lpl-auction-system/internal/infrastructure/redis"
	wsinfra "github.com/muhzahjr07/lpl-auction-system/internal/infrastructure/websocket"
	"github.com/muhzahjr07/lpl-auction-system/internal/services"
	"github.com/muhzahjr07/lpl-auction-system/pkg/auth"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Log.Level)
	log.Info("Starting LPL auction service")

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("Failed to open MySQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping MySQL", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MySQL")

	// Repositories
	teamRepo := mysqlinfra.NewMySQLTeamRepository(db)
	playerRepo := mysqlinfra.NewMySQLPlayerRepository(db)
	bidRepo := mysqlinfra.NewMySQLBidRepository(db)
	settlementStore := mysqlinfra.NewMySQLSettlementStore(db)

	// Event bus
	eventPublisher := redisinfra.NewEventPublisher(rdb)
	eventSubscriber := redisinfra.NewRedisEventSubscriber(rdb, log)

	// Round state and services
	rounds := services.NewRoundState(cfg.Auction.RequireHigherBid)
	auctionManager := services.NewAuctionManager(rounds, playerRepo, eventPublisher, log)
	bidService := services.NewBidService(rounds, teamRepo, playerRepo, bidRepo, eventPublisher, log)
	settlement := services.NewSettlementEngine(rounds, teamRepo, playerRepo, settlementStore, eventPublisher, log)

	// Fan-out
	connManager := wsinfra.NewConnectionManager(log)
	notifier := wsinfra.NewWebSocketNotifier(connManager)
	eventListener := services.NewEventListener(notifier, log)

	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	go func() {
		if err := eventListener.Start(listenerCtx, eventSubscriber); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event listener stopped", "error", err)
		}
	}()

	heartbeat := services.NewHeartbeat(rounds, eventPublisher, cfg.Auction.HeartbeatInterval, log)
	if err := heartbeat.Start(); err != nil {
		log.Error("Failed to start heartbeat", "error", err)
		os.Exit(1)
	}

	// Auth
	signer := auth.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))

	auctionHandler := handlers.NewAuctionHandler(auctionManager, bidService, settlement, log)
	wsHandler := wsinfra.NewWebSocketHandler(bidService, auctionManager, connManager, log)

	api := e.Group("/api/auction", auth.Middleware(signer))
	api.GET("/state", auctionHandler.GetState)
	api.GET("/unsold", auctionHandler.GetUnsoldPlayers)
	api.POST("/bid", auctionHandler.PlaceBid)

	operator := api.Group("", auth.RequireRole(auth.RoleAuctioneer, auth.RoleAdmin))
	operator.POST("/start", auctionHandler.StartRound)
	operator.POST("/sold", auctionHandler.SellPlayer)
	operator.POST("/unsold", auctionHandler.MarkUnsold)
	operator.POST("/reset", auctionHandler.ResetState)

	e.GET("/ws/auction", wsHandler.HandleConnection)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "lpl-auction",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("Auction server started", "address", serverAddr)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auction service...")

	heartbeat.Stop()
	stopListener()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Auction service stopped")
}
