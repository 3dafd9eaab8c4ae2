package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"blog-api/internal/auth"
	"blog-api/internal/config"
	apphttp "blog-api/internal/http"
	"blog-api/internal/logging"
	"blog-api/internal/mail"
	"blog-api/internal/metrics"
	"blog-api/internal/service"
	"blog-api/internal/storage"
)

func main() {
	bootLogger := logrus.New()
	bootLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		bootLogger.Fatalf("invalid config: %v", err)
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Dir:        cfg.Log.Dir,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		bootLogger.Fatalf("setup logging: %v", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.OptionsFromConfig(cfg), logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close(context.Background())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret)
	mailer := mail.New(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}, logger)
	if cfg.Mail.Host == "" {
		logger.Warn("mail.host not set; verification emails are written to the log")
	}

	authService := service.NewAuthService(store.Users, auth.NewPasswordHasher(auth.PasswordCost), tokens, mailer, logger)
	postService := service.NewPostService(store.Posts, logger)

	var limiter *apphttp.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = apphttp.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst, 5*time.Minute)
		defer limiter.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	handler := apphttp.NewHandler(
		authService,
		postService,
		auth.NewGate(tokens, store.Users, logger),
		logger,
		apphttp.Options{
			PublicURL:      cfg.Server.PublicURL,
			Metrics:        collector,
			Gatherer:       registry,
			Limiter:        limiter,
			TrustedProxies: cfg.Server.TrustedProxies,
		},
	)
	router, err := handler.Router()
	if err != nil {
		logger.Fatalf("build router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
