package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/reclutador/staffing-api/internal/database"
	"github.com/reclutador/staffing-api/internal/env"
	"github.com/reclutador/staffing-api/internal/storage"
	"github.com/reclutador/staffing-api/internal/uploader"
	"github.com/reclutador/staffing-api/internal/version"
)

var _cfgFile = flag.String("cfg", "", "path to config file")

func main() {
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost string
	httpPort int
	db       struct {
		dsn         string
		automigrate bool
	}
	cdn struct {
		uploadURL string
		publicURL string
		authToken string
		namespace string
	}
}

type application struct {
	config   config
	db       *database.DB
	uploader *uploader.Uploader
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func run(logger *slog.Logger) error {
	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.cdn.uploadURL = env.GetString("CDN_UPLOAD_URL", "http://localhost:8082/objects")
	cfg.cdn.publicURL = env.GetString("CDN_PUBLIC_URL", "http://localhost:8082/public")
	cfg.cdn.authToken = env.GetString("CDN_AUTH_TOKEN", "")
	cfg.cdn.namespace = env.GetString("CDN_NAMESPACE", "staffing")

	showVersion := flag.Bool("version", false, "display version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	db, err := database.New(cfg.db.dsn, cfg.db.automigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	cdn := storage.NewCDN(logger, cfg.cdn.uploadURL, cfg.cdn.publicURL, cfg.cdn.authToken)

	app := &application{
		config:   cfg,
		db:       db,
		uploader: uploader.New(logger, cdn, cfg.cdn.namespace),
		logger:   logger,
	}

	return app.serveHTTP()
}
