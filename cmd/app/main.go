package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lastmile/cmd"
	httpin "lastmile/internal/adapters/in/http"
	"lastmile/internal/adapters/out/kafka/orderevents"
	"lastmile/internal/adapters/out/postgres/codrepo"
	"lastmile/internal/adapters/out/postgres/orderrepo"
	"lastmile/internal/adapters/out/postgres/riderrepo"
	"lastmile/internal/adapters/out/rabbit"
	"lastmile/internal/jobs"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := getConfig()

	gormDB, err := openDB(config)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
	defer func() {
		_ = redisClient.Close()
	}()

	kafkaWriter := orderevents.NewWriter([]string{config.KafkaHost}, config.KafkaTopic)
	defer func() {
		_ = kafkaWriter.Close()
	}()

	rabbitConn, err := amqp.Dial(config.RabbitURL)
	if err != nil {
		logger.Error("rabbitmq connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = rabbitConn.Close()
	}()

	rabbitChannel, err := rabbitConn.Channel()
	if err != nil {
		logger.Error("rabbitmq channel failed", "error", err)
		os.Exit(1)
	}
	if err = rabbit.DeclareExchange(rabbitChannel); err != nil {
		logger.Error("rabbitmq exchange declare failed", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(config, gormDB, redisClient, kafkaWriter, rabbitChannel)
	if err != nil {
		logger.Error("composition root failed", "error", err)
		os.Exit(1)
	}

	handlers, err := root.CreateHTTPHandlers()
	if err != nil {
		logger.Error("handler wiring failed", "error", err)
		os.Exit(1)
	}

	jobManager := jobs.NewJobManager(
		jobs.NewRiderAssignmentJob(root.CreateAssignRiderCommandHandler(), logger),
	)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := newEcho(handlers, []byte(config.JWTSecret))
	startWebServer(e, config.HTTPPort, logger)
}

func getConfig() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("no .env file, using process environment")
	}

	return cmd.Config{
		HTTPPort:   os.Getenv("HTTP_PORT"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  os.Getenv("DB_SSLMODE"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		KafkaHost:  os.Getenv("KAFKA_HOST"),
		KafkaTopic: os.Getenv("KAFKA_ORDER_TOPIC"),
		RabbitURL:  os.Getenv("RABBIT_URL"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		OtpTTL:     os.Getenv("OTP_TTL"),
	}
}

func openDB(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser,
		config.DBPassword, config.DBName, config.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &riderrepo.RiderDTO{}, &codrepo.CollectionDTO{})
	if err != nil {
		return nil, err
	}

	return gormDB, nil
}

func newEcho(handlers httpin.Handlers, jwtSecret []byte) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	server := httpin.NewServer(handlers)
	server.RegisterRoutes(e, jwtSecret)
	return e
}

func startWebServer(e *echo.Echo, port string, logger *slog.Logger) {
	go func() {
		if err := e.Start("0.0.0.0:" + port); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
