package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medcore/medcore/internal/config"
	"github.com/medcore/medcore/internal/domain/notification"
	"github.com/medcore/medcore/internal/platform/db"
	"github.com/medcore/medcore/internal/platform/jobs"
	"github.com/medcore/medcore/internal/platform/loginguard"
	"github.com/medcore/medcore/migrations"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medcore-server",
		Short: "Medical management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(notificationsCmd())

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

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func poolConfig(cfg *config.Config) db.PoolConfig {
	return db.PoolConfig{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnIdleTime: cfg.DBIdleTimeout,
		ConnectTimeout:  cfg.DBConnectionTimeout,
		RequestTimeout:  cfg.DBRequestTimeout,
	}
}

// migrationsFS uses the embedded migrations unless dir points elsewhere.
func migrationsFS(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
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

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			m := db.NewManager(poolConfig(cfg))
			defer m.Close()

			migrator := db.NewMigrator(m, migrationsFS(dir))
			ctx := context.Background()

			var count int
			if to > 0 {
				count, err = migrator.UpTo(ctx, to)
			} else {
				count, err = migrator.Up(ctx)
			}
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to the embedded set)")
	upCmd.Flags().Int("to", 0, "Stop after this version")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			m := db.NewManager(poolConfig(cfg))
			defer m.Close()

			statuses, err := db.NewMigrator(m, migrationsFS(dir)).Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to the embedded set)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Maintain stored notifications",
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete seen notifications older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if days == 0 {
				days = cfg.NotificationRetentionDays
			}
			logger := newLogger(cfg.Env)

			m := db.NewManager(poolConfig(cfg))
			defer m.Close()

			svc := notification.NewService(notification.NewRepo(m), logger)
			n, err := svc.PurgeSeen(context.Background(), days)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d notification(s).\n", n)
			return nil
		},
	}
	purgeCmd.Flags().Int("days", 0, "Age in days (defaults to NOTIFICATION_RETENTION_DAYS)")
	cmd.AddCommand(purgeCmd)

	return cmd
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database. A failed first connection is logged, not fatal; the
	// manager retries on the next query and /health/db reports the state.
	m := db.NewManager(poolConfig(cfg))
	defer m.Close()
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.DBConnectionTimeout)
	if _, err := m.Acquire(connectCtx); err != nil {
		logger.Error().Err(err).Msg("database unavailable at startup")
	} else {
		logger.Info().Msg("connected to database")
	}
	cancelConnect()

	// Login attempt store
	var store loginguard.Store = loginguard.NewMemoryStore()
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rs, err := loginguard.NewRedisStoreFromURL(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, counting login attempts in memory")
		} else {
			defer rs.Close()
			store = rs
		}
	}

	srv := newServer(cfg, logger, m, store)
	defer srv.revocations.Close()

	// Background jobs
	scheduler := jobs.New(logger, time.Minute)
	if _, err := scheduler.Add("notification-purge", cfg.NotificationPurgeSchedule, func(ctx context.Context) error {
		_, err := srv.notifications.PurgeSeen(ctx, cfg.NotificationRetentionDays)
		return err
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule notification purge")
	}
	if next, ok := scheduler.Next("notification-purge"); ok {
		logger.Info().Time("next_run", next).Int("retention_days", cfg.NotificationRetentionDays).Msg("notification purge scheduled")
	}
	scheduler.Start()

	// Start server
	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := srv.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := scheduler.Stop(ctx); err != nil {
		logger.Warn().Err(err).Msg("background jobs did not stop in time")
	}
	if err := srv.echo.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
