package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/food-gallery/internal/auth"
	"github.com/sakif/food-gallery/internal/config"
	"github.com/sakif/food-gallery/internal/server"
)

func newRootCmd(version, buildDate string) *cobra.Command {
	root := &cobra.Command{
		Use:           "food-gallery",
		Short:         "Food gallery API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newVersionCmd(version, buildDate))
	return root
}

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(os.Stdout, cfg)
			slog.SetDefault(logger)

			// Bounds OIDC discovery at startup. Long-lived clients detach
			// from this deadline when they are built.
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			srv, err := server.New(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			// Start blocks until SIGINT/SIGTERM.
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides PORT)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		id     auth.Identity
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development ID token for AUTH_VERIFIER=local",
		Example: `  export LOCAL_TOKEN_SECRET=$(openssl rand -hex 32)
  food-gallery token --sub alice --email alice@example.com --name Alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("LOCAL_TOKEN_SECRET")
			}
			if secret == "" {
				return errors.New("no secret: pass --secret or set LOCAL_TOKEN_SECRET")
			}

			v, err := auth.NewLocalVerifier(secret)
			if err != nil {
				return err
			}

			token, err := v.Issue(id, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (defaults to LOCAL_TOKEN_SECRET)")
	cmd.Flags().StringVar(&id.Subject, "sub", "", "subject (user id)")
	cmd.Flags().StringVar(&id.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&id.DisplayName, "name", "", "name claim")
	cmd.Flags().StringVar(&id.AvatarURL, "picture", "", "picture claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}

func newVersionCmd(version, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "food-gallery %s (%s)\n", version, buildDate)
		},
	}
}

// newLogger builds the one logger the whole process uses.
// LOG_FORMAT=json for log shippers, text for terminals.
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
