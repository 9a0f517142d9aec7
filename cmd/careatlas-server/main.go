package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/careatlas/careatlas/internal/config"
	"github.com/careatlas/careatlas/internal/domain/clinic"
	"github.com/careatlas/careatlas/internal/domain/content"
	"github.com/careatlas/careatlas/internal/domain/dashboard"
	"github.com/careatlas/careatlas/internal/domain/destination"
	"github.com/careatlas/careatlas/internal/domain/enquiry"
	"github.com/careatlas/careatlas/internal/domain/procedure"
	"github.com/careatlas/careatlas/internal/platform/auth"
	"github.com/careatlas/careatlas/internal/platform/cache"
	"github.com/careatlas/careatlas/internal/platform/db"
	"github.com/careatlas/careatlas/internal/platform/events"
	"github.com/careatlas/careatlas/internal/platform/metrics"
	"github.com/careatlas/careatlas/internal/platform/middleware"
	"github.com/careatlas/careatlas/internal/platform/notify"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "careatlas-server",
		Short: "CareAtlas medical tourism marketplace API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	redisCache, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisCache.Close()
	if redisCache.Enabled() {
		logger.Info().Msg("connected to redis")
	} else {
		logger.Warn().Msg("REDIS_URL not set, caching disabled")
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer publisher.Close()

	m := metrics.New()

	// Notification senders. Development logs instead of sending; production
	// requires configured providers unless explicitly disabled.
	var emailSender notify.EmailSender
	var smsSender notify.SMSSender
	if cfg.EmailEnabled {
		emailSender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
			FromName: cfg.EmailFromName,
		})
	} else {
		emailSender = &notify.ConsoleEmailSender{Logger: logger}
	}
	if cfg.SMSEnabled {
		smsSender = notify.NewTwilioSender(notify.TwilioConfig{
			AccountSID: cfg.TwilioSID,
			AuthToken:  cfg.TwilioAuth,
			From:       cfg.TwilioFrom,
		})
	} else {
		smsSender = &notify.ConsoleSMSSender{Logger: logger}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(m.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
			Optional:   true,
		}))
	}

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/metrics", m.Handler())

	// -- Register Domain Handlers --

	destRepo := destination.NewRepoPG(pool)
	destSvc := destination.NewService(destRepo)
	destination.NewHandler(destSvc).RegisterRoutes(apiV1)

	procRepo := procedure.NewRepoPG(pool)
	procSvc := procedure.NewService(procRepo)
	procedure.NewHandler(procSvc).RegisterRoutes(apiV1)

	clinicRepo := clinic.NewRepoPG(pool)
	clinicSvc := clinic.NewService(clinicRepo, redisCache, logger)
	clinic.NewHandler(clinicSvc).RegisterRoutes(apiV1)

	contentRepo := content.NewRepoPG(pool)
	contentSvc := content.NewService(contentRepo, redisCache, logger)
	content.NewHandler(contentSvc).RegisterRoutes(apiV1)

	writer := enquiry.NewAdaptiveWriter(pool, enquiry.PgMissingColumn)
	writer.OnRetry = func(col string) {
		m.InsertRetriesTotal.Inc()
		logger.Warn().Str("column", col).Msg("enquiry insert retrying without unknown column")
	}
	writer.OnLegacyFallback = func() {
		m.LegacyFallbacksTotal.Inc()
		logger.Warn().Msg("enquiry insert falling back to legacy column set")
	}
	enquiryRepo := enquiry.NewRepoPG(pool, writer)
	enquirySvc := enquiry.NewService(enquiryRepo, clinicSvc, emailSender, smsSender, publisher, m, enquiry.NotifyConfig{
		SiteBaseURL:   cfg.SiteBaseURL,
		CC:            cfg.LeadEmailCC,
		TestMode:      cfg.LeadEmailTestMode,
		TestRecipient: cfg.LeadEmailTestRcpt,
	}, logger)
	enquiry.NewHandler(enquirySvc).RegisterRoutes(apiV1)

	dashRepo := dashboard.NewRepoPG(pool)
	dashSvc := dashboard.NewService(dashRepo, clinicSvc, logger)
	dashboard.NewHandler(dashSvc).RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
