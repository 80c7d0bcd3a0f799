package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/client"
	"github.com/JonMunkholm/contactdesk/internal/config"
	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/logging"
	"github.com/JonMunkholm/contactdesk/internal/store"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:3000/api"

// app holds the global flags and the data centre they select.
type app struct {
	apiURL   string
	apiKey   string
	timeout  time.Duration
	offline  bool
	redisURL string
	prefix   string
	jsonOut  bool
	verbose  bool

	dc      *client.Facade
	closeFn func()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "contactctl",
		Short:        "Inspect and manage contact submissions",
		Long:         "Query, export and maintain the contact data centre through the HTTP API or, with --offline, a local store.",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.connect()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", envOr("CONTACTDESK_API_URL", defaultAPIURL), "Base URL of the contact API")
	flags.StringVar(&a.apiKey, "api-key", os.Getenv("CONTACTDESK_API_KEY"), "API key for destructive operations")
	flags.DurationVar(&a.timeout, "timeout", client.DefaultTimeout, "Per-request timeout")
	flags.BoolVar(&a.offline, "offline", false, "Use a local store instead of the API")
	flags.StringVar(&a.redisURL, "redis-url", os.Getenv("REDIS_URL"), "Redis URL for --offline (in-memory when empty)")
	flags.StringVar(&a.prefix, "redis-prefix", envOr("REDIS_PREFIX", "contactdesk"), "Key prefix for --offline with Redis")
	flags.BoolVar(&a.jsonOut, "json", false, "Print JSON instead of tables")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		healthCmd(a),
		listCmd(a),
		getCmd(a),
		addCmd(a),
		queryCmd(a),
		statsCmd(a),
		exportCmd(a),
		importCmd(a),
		deleteCmd(a),
		clearCmd(a),
	)

	return root
}

// connect builds the data centre selected by the flags.
func (a *app) connect() error {
	if a.dc != nil {
		return nil
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	slog.SetDefault(logging.New(os.Stderr, level, "text"))

	if a.offline {
		s, err := store.OpenLocal(config.RedisConfig{URL: a.redisURL, Prefix: a.prefix})
		if err != nil {
			return err
		}
		a.closeFn = s.Close
		a.dc = client.NewFacade(client.NewLocal(core.NewService(s)))
		slog.Debug("using local data centre", "redis", a.redisURL != "")
		return nil
	}

	a.dc = client.NewFacade(client.NewRemote(a.apiURL,
		client.WithAPIKey(a.apiKey),
		client.WithTimeout(a.timeout),
	))
	slog.Debug("using remote data centre", "url", a.apiURL)
	return nil
}

func (a *app) close() {
	if a.closeFn != nil {
		a.closeFn()
		a.closeFn = nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
