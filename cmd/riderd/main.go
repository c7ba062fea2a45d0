// riderd is the rider-side daemon. It polls the marketplace API for an
// active route, streams filtered GPS samples while one exists, and replays
// actions that were captured offline.
//
// The device layer feeds it over a local HTTP surface: POST /sample with a
// raw fix, POST /visibility when the observing surface enters or leaves the
// foreground, POST /connectivity when the network comes and goes, and
// POST /action to queue an operation while offline.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"lastmile/internal/adapters/out/apiclient"
	"lastmile/internal/adapters/out/redis/actionstore"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/pending"
	"lastmile/internal/jobs"
	"lastmile/internal/services/offline"
	"lastmile/internal/services/telemetry"
)

type config struct {
	LocalPort  string
	APIBaseURL string
	RiderToken string
	RedisAddr  string
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := getConfig()

	client, err := apiclient.NewClient(cfg.APIBaseURL, cfg.RiderToken, nil)
	if err != nil {
		logger.Error("api client setup failed", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		_ = redisClient.Close()
	}()

	store, err := actionstore.NewRedisActionStore(redisClient)
	if err != nil {
		logger.Error("action store setup failed", "error", err)
		os.Exit(1)
	}

	queue := offline.NewQueue(store, client, logger)
	pipeline := telemetry.NewPipeline(client, queue, logger)
	gate := telemetry.NewGate(client, pipeline, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go gate.Run(ctx)

	online := make(chan bool, 1)
	go queue.Run(ctx, online)

	jobManager := jobs.NewJobManager(jobs.NewQueueSyncJob(queue, logger))
	if err = jobManager.StartAll(); err != nil {
		logger.Error("job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := newLocalServer(ctx, pipeline, gate, queue, online)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	if err = e.Start("127.0.0.1:" + cfg.LocalPort); err != nil && err != http.ErrServerClosed {
		logger.Error("local server stopped", "error", err)
		os.Exit(1)
	}
}

func getConfig() config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("no .env file, using process environment")
	}

	return config{
		LocalPort:  os.Getenv("RIDERD_PORT"),
		APIBaseURL: os.Getenv("API_BASE_URL"),
		RiderToken: os.Getenv("RIDER_TOKEN"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
	}
}

type sampleRequest struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	AccuracyM  float64   `json:"accuracy_m"`
	SpeedKmh   float64   `json:"speed_kmh"`
	Heading    float64   `json:"heading"`
	RecordedAt time.Time `json:"recorded_at"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

type connectivityRequest struct {
	Online bool `json:"online"`
}

type actionRequest struct {
	OrderID string          `json:"order_id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newLocalServer(
	ctx context.Context,
	pipeline *telemetry.Pipeline,
	gate *telemetry.Gate,
	queue *offline.Queue,
	online chan<- bool,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/sample", func(c echo.Context) error {
		var req sampleRequest
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		decision := pipeline.Offer(c.Request().Context(), telemetry.RawSample{
			Lat:        req.Lat,
			Lng:        req.Lng,
			AccuracyM:  req.AccuracyM,
			SpeedKmh:   req.SpeedKmh,
			Heading:    req.Heading,
			RecordedAt: req.RecordedAt,
		})

		return c.JSON(http.StatusOK, map[string]string{"decision": string(decision)})
	})

	e.POST("/visibility", func(c echo.Context) error {
		var req visibilityRequest
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		gate.SetVisible(ctx, req.Visible)
		return c.NoContent(http.StatusNoContent)
	})

	e.POST("/connectivity", func(c echo.Context) error {
		var req connectivityRequest
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		select {
		case online <- req.Online:
		case <-ctx.Done():
		}
		return c.NoContent(http.StatusNoContent)
	})

	e.POST("/action", func(c echo.Context) error {
		var req actionRequest
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		orderID, err := kernel.UUIDFromString(req.OrderID)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		actionType, err := pending.ActionTypeFromString(req.Type)
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		action, err := pending.NewAction(orderID, actionType, req.Payload, time.Now().UTC())
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		if err = queue.Enqueue(c.Request().Context(), action); err != nil {
			return c.NoContent(http.StatusInternalServerError)
		}

		return c.NoContent(http.StatusAccepted)
	})

	return e
}
