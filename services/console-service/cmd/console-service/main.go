package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/apptdesk/libs/config"
	"github.com/md-rashed-zaman/apptdesk/libs/db"
	"github.com/md-rashed-zaman/apptdesk/libs/httpx"
	"github.com/md-rashed-zaman/apptdesk/libs/kafkax"
	otelx "github.com/md-rashed-zaman/apptdesk/libs/otel"
	"github.com/md-rashed-zaman/apptdesk/libs/runtime"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/audit"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/gateway"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/handlers"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/notify"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/store"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/view"
)

func main() {
	service := config.String("SERVICE_NAME", "console-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	bookingURL, err := config.RequiredString("BOOKING_API_URL")
	if err != nil {
		panic(err)
	}
	client := gateway.NewClient(gateway.Config{
		BaseURL:      bookingURL,
		StatusFilter: config.String("BOOKING_STATUS_FILTER", "completed"),
		Timeout:      config.Seconds("BOOKING_TIMEOUT_SECONDS", 10*time.Second),
	})

	feed := notify.NewFeed(config.Int("NOTIFY_FEED_SIZE", 50))
	notifiers := notify.Multi{notify.NewLogNotifier(logger), feed}

	var readyChecks []runtime.ReadyCheck
	if brokers := config.String("KAFKA_BROKERS", ""); brokers != "" {
		kafkaNotifier := notify.NewKafkaNotifier(brokers, config.String("NOTIFY_TOPIC", "console.toasts"), logger)
		defer func() { _ = kafkaNotifier.Close() }()
		notifiers = append(notifiers, kafkaNotifier)
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
		logger.Info("kafka notifications enabled", "brokers", brokers)
	}

	var auditRepo *audit.Repository
	var auditLog view.AuditLog
	if dbURL := config.String("DATABASE_URL", ""); dbURL != "" {
		pool, err := db.Open(ctx, dbURL)
		if err != nil {
			logger.Error("audit db unavailable", "err", err)
		} else {
			defer pool.Close()
			auditRepo = audit.NewRepository(pool)
			auditLog = auditRepo
			readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})
			logger.Info("delete audit trail enabled")
		}
	}

	col := store.NewCollection()
	fetcher := view.NewFetcher(client, col, notifiers, logger)
	deleter := view.NewDeleter(client, col, notifiers, auditLog, logger)
	navigator := view.TemplateNavigator{
		Template: config.String("DETAILS_URL_TEMPLATE", "/appointments/%s"),
	}

	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 60)
	var rateLimitMW httpx.Middleware
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: httpx.RedisReadyCheck(rdb)})
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	mux := runtime.NewBaseMux(readyChecks...)
	console := handlers.NewConsoleHandler(fetcher, deleter, col, feed, auditRepo, navigator, logger)
	console.Register(mux)

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods: config.List("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders: config.List("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-Id"),
			MaxAge:         config.Seconds("CORS_MAX_AGE_SECONDS", 600*time.Second),
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))),
		httpx.WithTimeout(config.Seconds("REQUEST_TIMEOUT_SECONDS", 30*time.Second)),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "console")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Initial load happens once at startup; after that, fetches are only
	// triggered by the operator through the refresh endpoint.
	go func() {
		if err := fetcher.Fetch(ctx); err != nil {
			logger.Warn("initial fetch failed; waiting for operator retry", "err", err)
		}
	}()

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
