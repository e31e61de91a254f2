package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/fatetable/internal/bootstrap"
	"anoa.com/fatetable/internal/middleware"
	userRepo "anoa.com/fatetable/internal/modules/user/repository"
	"anoa.com/fatetable/internal/server"
	"anoa.com/fatetable/pkg/database"
	"github.com/spf13/cobra"
)

var (
	port        string
	autoMigrate bool
	tokenTTL    time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connectDB(cfg)
		if err != nil {
			return err
		}
		if err := bootstrap.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the staff account and the global skill and trait catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := connectDB(cfg)
		if err != nil {
			return err
		}
		if err := bootstrap.SeedStaffUser(cmd.Context(), db, cfg.StaffUsername, cfg.StaffEmail); err != nil {
			return fmt.Errorf("failed to seed staff user: %w", err)
		}
		if err := bootstrap.SeedCatalog(cmd.Context(), db); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		if err := bootstrap.SeedKidou(cmd.Context(), db); err != nil {
			return fmt.Errorf("failed to seed kidou: %w", err)
		}
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Print a bearer token for a user (development only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.IsProduction() {
			return fmt.Errorf("token minting is disabled in production")
		}
		db, err := connectDB(cfg)
		if err != nil {
			return err
		}
		u, err := userRepo.NewUserRepository(db).FindByUsername(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tok, err := middleware.IssueToken(cfg.JWTSecret, u.ID, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run schema migration before serving")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := connectDB(cfg)
	if err != nil {
		return err
	}
	if autoMigrate || !cfg.IsProduction() {
		if err := bootstrap.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	rdb, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, db, rdb)
	if err != nil {
		return err
	}
	if port == "" {
		port = cfg.Port
	}
	return srv.Run(ctx, ":"+port)
}
