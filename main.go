package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"tidal-service/internal/config"
	"tidal-service/internal/handlers"
	"tidal-service/internal/logging"
	"tidal-service/internal/session"
	"tidal-service/internal/tidal"
)

const listenAddr = "0.0.0.0:5001"

func main() {
	app := &cli.Command{
		Name:  "tidal-service",
		Usage: "HTTP API for searching TIDAL and building playlists from tracks on other services",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML or YAML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides config and LOG_LEVEL)",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal("application error", "err", err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	if level := cmd.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	logger, closer, err := logging.New(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			logger.Error("TIDAL_EMAIL and TIDAL_PASSWORD environment variables must be set")
		}
		return err
	}

	provider := session.NewProvider(
		session.Credentials{Email: cfg.Tidal.Email, Password: cfg.Tidal.Password},
		session.TidalLogin(func() *tidal.Client { return tidal.NewClient(cfg.Tidal, nil) }),
		logger,
	)

	gin.SetMode(gin.ReleaseMode)
	r := handlers.NewRouter(provider, logger)

	logger.Info("Server starting", "addr", listenAddr, "country_code", cfg.Tidal.CountryCode)
	if err := r.Run(listenAddr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
