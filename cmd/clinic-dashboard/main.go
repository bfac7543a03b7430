package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthcare/clinic-dashboard/internal/config"
	"github.com/healthcare/clinic-dashboard/internal/domain/clinic"
	"github.com/healthcare/clinic-dashboard/internal/domain/dashboard"
	"github.com/healthcare/clinic-dashboard/internal/platform/db"
	"github.com/healthcare/clinic-dashboard/internal/platform/middleware"
	"github.com/healthcare/clinic-dashboard/internal/platform/reporting"
	"github.com/healthcare/clinic-dashboard/internal/platform/websocket"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-dashboard",
		Short: "Clinic analytics dashboard",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(loadCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			return runServer(debug)
		},
	}
	cmd.Flags().Bool("debug", false, "Enable debug mode and debug logging")
	return cmd
}

// newLogger writes JSON to out, or console output in development and debug
// mode.
func newLogger(out io.Writer, env string, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if env == "development" || debug {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func dbOptions(cfg *config.Config) db.Options {
	return db.Options{
		Driver:    db.Driver(cfg.Driver),
		Server:    cfg.Server,
		Database:  cfg.Database,
		User:      cfg.DBUser,
		Password:  cfg.DBPassword,
		Encrypt:   cfg.DBEncrypt,
		TrustCert: cfg.DBTrustCert,
		MaxConns:  cfg.DBMaxConns,
		MinConns:  cfg.DBMinConns,
	}
}

func openDatabase(ctx context.Context) (*db.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.Open(ctx, dbOptions(cfg))
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			to, _ := cmd.Flags().GetInt("to")

			ctx := context.Background()
			database, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			migrator := db.NewMigrator(database, db.DialectDir(dir, database.Driver()))
			fmt.Printf("Running %s migrations from %s\n", database.Driver(), db.DialectDir(dir, database.Driver()))

			count, err := migrator.UpTo(ctx, to)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations root directory")
	upCmd.Flags().Int("to", 0, "Stop after this version (0 applies all)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			database, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			migrator := db.NewMigrator(database, db.DialectDir(dir, database.Driver()))
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for driver: %s\n", database.Driver())
			printStatuses(os.Stdout, statuses)
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations root directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func printStatuses(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil && !s.AppliedAt.IsZero() {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>...",
		Short: "Apply generated INSERT scripts, one transaction per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			database, err := openDatabase(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			for _, path := range args {
				n, err := loadFile(ctx, database, path)
				if err != nil {
					return err
				}
				fmt.Printf("Loaded %d statement(s) from %s\n", n, path)
			}
			return nil
		},
	}
}

func loadFile(ctx context.Context, database *db.Database, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	n, err := database.LoadScript(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return n, nil
}

func runServer(debug bool) error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Logger
	logger := newLogger(os.Stdout, cfg.Env, debug)

	// Database
	ctx := context.Background()
	database, err := db.Open(ctx, dbOptions(cfg))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()
	logger.Info().Str("driver", string(database.Driver())).Msg("connected to database")

	// Startup snapshot
	snap, err := clinic.NewService(clinic.NewRepository(database)).LoadSnapshot(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load dashboard data")
	}
	logger.Info().
		Int("categories", len(snap.Categories)).
		Int("patients", len(snap.Patients)).
		Int("appointments", len(snap.Appointments)).
		Int("revenue", len(snap.Revenue)).
		Msg("dashboard data loaded")

	state, err := dashboard.NewState(snap, time.Now())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build dashboard figures")
	}

	// Echo server
	hub := websocket.NewHub()
	e := newServer(cfg, database, state, hub, debug, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Int("websocket_sessions", hub.SessionCount()).Msg("shutting down server")
	hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer builds the echo instance with the global middleware and every
// route. WebSocket sessions are tracked in hub.
func newServer(cfg *config.Config, database *db.Database, state *dashboard.State, hub *websocket.Hub, debug bool, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = debug

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
			"driver": string(database.Driver()),
		})
	})
	e.GET("/health/db", db.HealthHandler(database))

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	dashHandler := dashboard.NewHandler(state)
	dashHandler.RegisterRoutes(e, apiV1)
	reporting.NewHandler(database).RegisterRoutes(apiV1)

	wsHandler := websocket.NewHandler(hub, dashHandler.Respond, logger)
	e.GET("/ws/dashboard", wsHandler.HandleConnect)

	return e
}
