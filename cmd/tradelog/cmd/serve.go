package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/pkg/logger"
	"github.com/rustyeddy/tradelog/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the JSON API the browser front end talks to.

The JWT session secret is read from TRADELOG_JWT_SECRET (a .env file is
loaded if present), falling back to server.jwt_secret in the config.
When backup.cron_spec is set, compressed backups are written to
backup.dir on that schedule while serving.

Example:
  tradelog serve --config tradelog.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override the configured listen port")
}

func runServe(cmd *cobra.Command, args []string) error {
	godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	secret := os.Getenv("TRADELOG_JWT_SECRET")
	if secret == "" {
		secret = cfg.Server.JWTSecret
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore(store)

	if cfg.Backup.CronSpec != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.Backup.CronSpec, func() {
			dst := filepath.Join(cfg.Backup.Dir,
				fmt.Sprintf("tradelog-%s.xz", time.Now().Format("20060102-150405")))
			if err := os.MkdirAll(cfg.Backup.Dir, 0o755); err != nil {
				log.Error().Err(err).Msg("backup dir")
				return
			}
			if err := journal.Backup(cfg.Storage.Path, dst); err != nil {
				log.Error().Err(err).Str("dst", dst).Msg("scheduled backup failed")
				return
			}
			log.Info().Str("dst", dst).Msg("scheduled backup written")
		})
		if err != nil {
			return fmt.Errorf("backup schedule: %w", err)
		}
		c.Start()
		defer c.Stop()
	}

	srv := server.New(server.Config{
		Log:            log,
		Store:          store,
		Port:           cfg.Server.Port,
		JWTSecret:      secret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
