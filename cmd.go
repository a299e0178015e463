package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"navsession/internal/config"
	"navsession/internal/logger"
	"navsession/internal/navigation"
	"navsession/internal/server"
	"navsession/internal/storage"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	log        zerolog.Logger
	logCloser  io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "navsession",
		Short: "Navigation session lifecycle service",
		Long: `navsession turns a previously computed route into a short-lived
navigation session, split into travel-mode segments, and keeps it alive
through heartbeats. Sessions expire when heartbeats stop.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv(config.ConfigPathEnv), "path to a YAML config file")

	cmd.AddCommand(
		a.serveCmd(),
		a.startCmd(),
		a.heartbeatCmd(),
		a.putRouteCmd(),
	)
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	l, closer, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = l
	a.logCloser = closer
	return nil
}

func (a *app) openBackend(ctx context.Context) (storage.Backend, error) {
	backend, err := storage.Open(ctx, a.cfg.Store, a.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", a.cfg.Store.Backend, err)
	}
	return backend, nil
}

func (a *app) newManager(backend storage.Backend) *navigation.Manager {
	return navigation.NewManager(backend,
		navigation.WithLogger(a.log.With().Str("component", "navigation").Logger()),
		navigation.WithTTL(a.cfg.Session.TTL),
	)
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			backend, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			if a.cfg.Store.Backend == config.BackendMemory {
				a.log.Warn().Msg("using in-memory store, sessions and routes are lost on restart")
			}

			router := server.NewRouter(a.newManager(backend), backend, a.log)
			return server.Run(ctx, a.cfg.Server.Addr, router, a.log)
		},
	}
}

func (a *app) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <routeId>",
		Short: "Start a navigation session for a stored route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			summary, err := a.newManager(backend).StartSession(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", navigation.Kind(err), err)
			}

			out, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal session summary: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func (a *app) heartbeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat <sessionId>",
		Short: "Extend a navigation session's lifetime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := a.newManager(backend).Heartbeat(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s: %w", navigation.Kind(err), err)
			}

			ttl, err := backend.TTL(cmd.Context(), navigation.SessionKey(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session %s renewed, expires in %s\n", args[0], ttl)
			return nil
		},
	}
}

func (a *app) putRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put-route <routeId> <file>",
		Short: "Store a route JSON file under route:{routeId} (development helper)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read route file: %w", err)
			}
			if _, err := navigation.ParseRoute(data); err != nil {
				return err
			}

			backend, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := backend.SetWithExpiry(cmd.Context(), navigation.RouteKey(args[0]), data, 0); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", navigation.RouteKey(args[0]))
			return nil
		},
	}
}
