package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"files_manager/server/common/infra/cache"
	"files_manager/server/common/infra/db"
	"files_manager/server/common/infra/mq"
	"files_manager/server/files/api"
	"files_manager/server/files/repository"
	"files_manager/server/files/service"
)

type Server struct {
	HTTPServer *http.Server
	DB         *pgxpool.Pool
	Redis      *redis.Client
	MQConn     *amqp.Connection
	Publisher  *service.ThumbnailPublisher
}

func NewServer(cfg Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Migrate(cfg.PostgresDSN); err != nil {
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	dbPool, err := db.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres: %w", err)
	}

	redisClient := cache.NewClient(cfg.RedisAddr)
	if err := cache.Ping(ctx, redisClient); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	mqConn, err := mq.NewConnection(cfg.RabbitMQURL)
	if err != nil {
		dbPool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("initialize rabbitmq: %w", err)
	}
	publisher, err := service.NewThumbnailPublisher(mqConn, cfg.ThumbnailQueue)
	if err != nil {
		dbPool.Close()
		_ = redisClient.Close()
		_ = mqConn.Close()
		return nil, fmt.Errorf("initialize thumbnail publisher: %w", err)
	}

	userRepo := repository.NewUserRepository(dbPool)
	fileRepo := repository.NewFileRepository(dbPool)
	sessions := cache.NewSessionStore(redisClient)

	authSvc := service.NewAuthService(userRepo, sessions)
	userSvc := service.NewUserService(userRepo, fileRepo)
	fileSvc := service.NewFileService(fileRepo, publisher, cfg.FolderPath)

	redisPing := func(ctx context.Context) error { return cache.Ping(ctx, redisClient) }
	h := api.NewHandler(authSvc, userSvc, fileSvc, redisPing, dbPool.Ping)
	r := gin.Default()
	h.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		HTTPServer: httpServer,
		DB:         dbPool,
		Redis:      redisClient,
		MQConn:     mqConn,
		Publisher:  publisher,
	}, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.MQConn != nil {
		_ = s.MQConn.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
	return s.HTTPServer.Shutdown(ctx)
}
