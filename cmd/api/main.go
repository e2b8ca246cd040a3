package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/driftzo/echoroom-backend/internal/config"
	"github.com/driftzo/echoroom-backend/internal/handler"
	"github.com/driftzo/echoroom-backend/internal/middleware"
	"github.com/driftzo/echoroom-backend/internal/migration"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"github.com/driftzo/echoroom-backend/internal/routes"
	"github.com/driftzo/echoroom-backend/internal/service"
	"github.com/driftzo/echoroom-backend/internal/ws"
	"github.com/driftzo/echoroom-backend/pkg/email"
	"github.com/driftzo/echoroom-backend/pkg/jwt"
	"github.com/driftzo/echoroom-backend/pkg/logger"
	pkgredis "github.com/driftzo/echoroom-backend/pkg/redis"
	"github.com/driftzo/echoroom-backend/pkg/verify"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger.Init(cfg.Env)
	log := logger.GetLogger()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration)
	verifyStore := verify.NewStore(redisClient)

	var emailSender email.Sender
	if cfg.SMTP.Host != "" {
		emailSender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		emailSender = email.NewLogSender(log)
	}

	hub := ws.NewHub(redisClient, log)
	go hub.Run()

	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	roomRepo := repository.NewChatRoomRepository(db)
	forumRepo := repository.NewForumRepository(db)
	eventRepo := repository.NewEventRepository(db)

	authService := service.NewAuthService(userRepo, verifyStore, emailSender, jwtManager)
	userService := service.NewUserService(userRepo)
	convService := service.NewConversationService(convRepo, userRepo, hub)
	roomService := service.NewChatRoomService(roomRepo, userRepo, hub, nil)
	forumService := service.NewForumService(forumRepo)
	eventService := service.NewEventService(eventRepo, userRepo)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.Setup(r, &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Conversation: handler.NewConversationHandler(convService),
		ChatRoom:     handler.NewChatRoomHandler(roomService),
		Forum:        handler.NewForumHandler(forumService),
		Event:        handler.NewEventHandler(eventService),
		WS:           handler.NewWSHandler(hub, strings.Split(cfg.AllowedOrigins, ",")),
	}, jwtManager)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	hub.Stop()
	log.Info().Msg("server stopped")
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}
