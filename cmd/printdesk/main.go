// Command printdesk runs the print-shop manager and clerk console.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/printdesk/internal/apiclient"
	"github.com/Simplici0/printdesk/internal/config"
	"github.com/Simplici0/printdesk/internal/console"
	"github.com/Simplici0/printdesk/internal/db"
	"github.com/Simplici0/printdesk/internal/drafts"
	"github.com/Simplici0/printdesk/internal/migrations"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/querycache"
	"github.com/Simplici0/printdesk/internal/session"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newApp(config.Load()).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the CLI. cfg supplies the flag defaults; flags and their
// environment variables override it before any command runs.
func newApp(cfg config.Config) *cli.App {
	// The backend expects JSON numbers for every money field.
	decimal.MarshalJSONWithoutQuotes = true

	return &cli.App{
		Name:    "printdesk",
		Usage:   "Manager and clerk console for the print-shop backend",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Value: cfg.Env, Usage: "Environment (development, production)", EnvVars: []string{"PRINTDESK_ENV"}},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "Log level (debug, info, warn, error)", EnvVars: []string{"PRINTDESK_LOG_LEVEL"}},
			&cli.StringFlag{Name: "backend-url", Value: cfg.BackendURL, Usage: "Base URL of the REST backend", EnvVars: []string{"PRINTDESK_BACKEND_URL"}},
			&cli.StringFlag{Name: "db-path", Value: cfg.DBPath, Usage: "SQLite file for pricing drafts", EnvVars: []string{"PRINTDESK_DB_PATH"}},
			&cli.DurationFlag{Name: "request-timeout", Value: cfg.RequestTimeout, Usage: "Timeout of one backend call", EnvVars: []string{"PRINTDESK_REQUEST_TIMEOUT"}},
		},
		Before: func(c *cli.Context) error {
			cfg.Env = c.String("env")
			cfg.LogLevel = c.String("log-level")
			cfg.BackendURL = c.String("backend-url")
			cfg.DBPath = c.String("db-path")
			cfg.RequestTimeout = c.Duration("request-timeout")
			if err := setupLogger(cfg); err != nil {
				return err
			}
			if !c.IsSet("backend-url") {
				log.Warn().Str("default", cfg.BackendURL).Msg("PRINTDESK_BACKEND_URL is not set")
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(&cfg),
			migrateCommand(&cfg),
			defaultsCommand(&cfg),
		},
	}
}

func setupLogger(cfg config.Config) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the console HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: cfg.Port, Usage: "Listen port", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "currency", Value: cfg.Currency, Usage: "Currency prefix for displayed prices", EnvVars: []string{"PRINTDESK_CURRENCY"}},
			&cli.DurationFlag{Name: "poll-dashboard", Value: cfg.DashboardPoll, EnvVars: []string{"PRINTDESK_POLL_DASHBOARD"}},
			&cli.DurationFlag{Name: "poll-orders", Value: cfg.OrdersPoll, EnvVars: []string{"PRINTDESK_POLL_ORDERS"}},
			&cli.DurationFlag{Name: "poll-calendar", Value: cfg.CalendarPoll, EnvVars: []string{"PRINTDESK_POLL_CALENDAR"}},
		},
		Action: func(c *cli.Context) error {
			cfg.Port = c.String("port")
			cfg.Currency = c.String("currency")
			cfg.DashboardPoll = c.Duration("poll-dashboard")
			cfg.OrdersPoll = c.Duration("poll-orders")
			cfg.CalendarPoll = c.Duration("poll-calendar")
			return runServe(c.Context, *cfg)
		},
	}
}

func runServe(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := migrations.Up(ctx, database); err != nil {
		return err
	}

	backend, err := apiclient.New(cfg.BackendURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	sessions := session.NewManager(backend)
	defer sessions.Close()

	srv := console.New(ctx, console.Deps{
		Backend:  backend,
		Sessions: sessions,
		Cache:    querycache.New(),
		Drafts:   drafts.NewStore(database),
		Currency: cfg.Currency,
		Polls: console.PollIntervals{
			Dashboard: cfg.DashboardPoll,
			Orders:    cfg.OrdersPoll,
			Calendar:  cfg.CalendarPoll,
		},
		Polling: true,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", httpServer.Addr).
			Str("backend", cfg.BackendURL).
			Str("version", version).
			Msg("console listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down console")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// =============================================================================
// MIGRATE COMMAND
// =============================================================================

func migrateCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending migrations to the drafts database",
		Action: func(c *cli.Context) error {
			database, err := db.Open(c.Context, cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := migrations.Up(c.Context, database); err != nil {
				return err
			}
			v, err := migrations.Version(c.Context, database)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "schema version %d\n", v)
			return nil
		},
	}
}

// =============================================================================
// DEFAULTS COMMAND
// =============================================================================

func defaultsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "defaults",
		Usage: "Print the default pricing config for a service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "service", Usage: "Agent service id to fetch from the backend"},
			&cli.StringFlag{Name: "token", Usage: "Backend bearer token used with --service", EnvVars: []string{"PRINTDESK_TOKEN"}},
			&cli.StringFlag{Name: "subcategory", Usage: "Subcategory name, e.g. \"Bond Paper\""},
			&cli.BoolFlag{Name: "color", Usage: "Service supports color"},
			&cli.BoolFlag{Name: "front-back", Usage: "Service supports front and back printing"},
			&cli.BoolFlag{Name: "print-cut", Usage: "Service supports print and cut"},
		},
		Action: func(c *cli.Context) error {
			svc := pricing.AgentService{
				SupportsColor:     c.Bool("color"),
				SupportsFrontBack: c.Bool("front-back"),
				SupportsPrintCut:  c.Bool("print-cut"),
			}
			if name := c.String("subcategory"); name != "" {
				svc.SubCategory = &pricing.SubCategory{Name: name}
			}

			if id := c.String("service"); id != "" {
				backend, err := apiclient.New(cfg.BackendURL, cfg.RequestTimeout)
				if err != nil {
					return err
				}
				svc, err = backend.WithToken(c.String("token"), nil).GetAgentService(c.Context, id)
				if err != nil {
					return fmt.Errorf("fetch agent service %s: %w", id, err)
				}
			}

			out, err := json.MarshalIndent(pricing.DefaultConfig(svc), "", "  ")
			if err != nil {
				return fmt.Errorf("encode pricing config: %w", err)
			}
			fmt.Fprintln(c.App.Writer, string(out))
			return nil
		},
	}
}
