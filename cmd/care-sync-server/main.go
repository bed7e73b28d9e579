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

	"github.com/JassK0/care-sync/internal/config"
	"github.com/JassK0/care-sync/internal/domain/drift"
	"github.com/JassK0/care-sync/internal/domain/notes"
	"github.com/JassK0/care-sync/internal/domain/patients"
	"github.com/JassK0/care-sync/internal/domain/summaries"
	"github.com/JassK0/care-sync/internal/platform/db"
	"github.com/JassK0/care-sync/internal/platform/middleware"
	"github.com/JassK0/care-sync/internal/platform/oracle"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "care-sync-server",
		Short: "Clinical note review API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(checkConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the review API server",
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
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
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
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
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

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Print the effective configuration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Printf("port:               %s\n", cfg.Port)
			fmt.Printf("env:                %s\n", cfg.Env)
			if cfg.DatabaseURL != "" {
				fmt.Printf("note store:         postgres\n")
			} else {
				fmt.Printf("note store:         file (%s)\n", cfg.NotesFile)
			}
			fmt.Printf("oracle configured:  %t\n", cfg.OracleConfigured())
			fmt.Printf("oracle model:       %s\n", cfg.OpenAIModel)
			fmt.Printf("drift time window:  %s\n", cfg.TimeWindow())
			fmt.Printf("alert cache TTL:    %s\n", cfg.AlertCacheTTL())
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Note store: Postgres when DATABASE_URL is set, otherwise the bundled
	// JSON file.
	ctx := context.Background()
	var repo notes.Repository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
		repo = notes.NewPGRepo(pool)
	} else {
		logger.Info().Str("path", cfg.NotesFile).Msg("using file-backed note store")
		repo = notes.NewFileRepo(cfg.NotesFile)
	}

	// Oracle
	if !cfg.OracleConfigured() {
		logger.Warn().Msg("OPENAI_API_KEY not configured; drift detection and summaries run degraded")
	}
	oracleClient := oracle.NewClient(cfg.OracleAPIKey(), cfg.OpenAIModel, logger)

	// Domain services
	noteSvc := notes.NewService(repo)
	patientSvc := patients.NewService(repo)

	engine := drift.NewEngine(logger,
		drift.NewConflictRule(oracleClient, cfg.TimeWindow()),
		drift.NewUnackRule(oracleClient, cfg.TimeWindow()),
	)
	cache := drift.NewResultCache(cfg.AlertCacheTTL())
	driftSvc := drift.NewService(repo, oracleClient, engine, cache, cfg.OracleConfigured(), logger)
	summarySvc := summaries.NewService(repo, oracleClient, driftSvc, cfg.OracleConfigured(), logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout()))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "care-sync-backend",
		})
	})

	// API group. Alert and summary routes fan out to metered oracle calls,
	// so the whole group is rate limited.
	api := e.Group("/api")
	api.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	notes.NewHandler(noteSvc).RegisterRoutes(api)
	patients.NewHandler(patientSvc).RegisterRoutes(api)
	drift.NewHandler(driftSvc, logger).RegisterRoutes(api)
	summaries.NewHandler(summarySvc).RegisterRoutes(api)

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// errorHandler renders every HTTP error as {"error": message} so clients see
// one error shape across the API.
func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(code); err != nil {
				logger.Error().Err(err).Msg("failed to write error response")
			}
			return
		}
		if err := c.JSON(code, map[string]string{"error": message}); err != nil {
			logger.Error().Err(err).Msg("failed to write error response")
		}
	}
}
