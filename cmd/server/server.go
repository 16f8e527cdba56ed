package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/roomboard/internal/config"
	"github.com/thereayou/roomboard/internal/database"
	"github.com/thereayou/roomboard/internal/handlers"
	"github.com/thereayou/roomboard/internal/rabbitmq"
	"github.com/thereayou/roomboard/internal/services"
	"github.com/thereayou/roomboard/pkg/auth"
)

type Server struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *database.Database
	Redis     *redis.Client
	Publisher rabbitmq.Publisher
}

func NewServer(cfg *config.Config) *Server {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	opts := []services.Option{
		services.WithNotifySelf(cfg.NotifySelf),
		services.WithSearchLimit(cfg.SearchLimit),
	}

	authService := services.NewAuthService(db, jwtMgr, auth.NewRedisBlacklist(rdb))
	membership := services.NewMembershipService(db, opts...)
	notifications := services.NewNotificationService(db, publisher, opts...)
	content := services.NewContentService(db, notifications)
	polls := services.NewPollService(db, opts...)
	events := services.NewEventService(db, opts...)

	router := NewRouter(Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Home:    handlers.NewHomeHandler(membership, notifications),
		Room:    handlers.NewRoomHandler(membership),
		Message: handlers.NewMessageHandler(content, membership),
		Poll:    handlers.NewPollHandler(polls, membership),
		Event:   handlers.NewEventHandler(events, membership),
		User:    handlers.NewUserHandler(membership),
	}, authService, RouterOptions{
		CORSOrigins:    cfg.CORSOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	return &Server{
		Config:    cfg,
		Router:    router,
		DB:        db,
		Redis:     rdb,
		Publisher: publisher,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) Close() {
	if err := s.Publisher.Close(); err != nil {
		log.Printf("publisher close: %v", err)
	}
	if err := s.Redis.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if err := s.DB.Close(); err != nil {
		log.Printf("database close: %v", err)
	}
}
