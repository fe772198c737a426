package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	httpapi "github.com/Nithin4045/weather-now/internal/api/http"
	"github.com/Nithin4045/weather-now/internal/config"
	"github.com/Nithin4045/weather-now/internal/scheduler"
	"github.com/Nithin4045/weather-now/internal/view"
	"github.com/Nithin4045/weather-now/internal/weather"
	"github.com/Nithin4045/weather-now/internal/weather/providers"
)

// errUnresolved makes `get` exit non-zero after printing a not-found or
// failure message.
var errUnresolved = errors.New("unresolved")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errUnresolved) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type app struct {
	cfg      *config.AppConfig
	log      zerolog.Logger
	resolver *weather.Resolver
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(cfg.LogLevel).
		With().Timestamp().Logger()

	// Shared HTTP client for both Open-Meteo endpoints.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	resolver := weather.NewResolver(
		providers.NewGeocodingProvider(httpClient, cfg.GeocodingURL),
		providers.NewOpenMeteoProvider(httpClient, cfg.ForecastURL),
		log,
	)

	return &app{cfg: cfg, log: log, resolver: resolver}, nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "weather-now",
		Short:         "Current weather for a city",
		Long:          "Looks a city up with Open-Meteo geocoding and shows its current weather.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd(), newGetCmd(), newWatchCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return serve(a)
		},
	}
}

func serve(a *app) error {
	server := httpapi.NewApp(a.resolver, a.log, a.cfg.HTTPTimeout)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("listening")
		errCh <- server.Listen(":" + a.cfg.Port)
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("error during shutdown")
	}
	return nil
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [city]",
		Short: "Show current weather for a city",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if err := checkOutput(output); err != nil {
				return err
			}

			a, err := setup()
			if err != nil {
				return err
			}

			var slot view.Slot
			st, ok := slot.Search(cmd.Context(), a.resolver, strings.Join(args, " "))
			if !ok {
				return nil
			}
			if err := printState(cmd.OutOrStdout(), st, output); err != nil {
				return err
			}
			if st.Phase != view.PhaseShowing {
				return errUnresolved
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [city]",
		Short: "Refresh current weather for a city on an interval",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if err := checkOutput(output); err != nil {
				return err
			}

			a, err := setup()
			if err != nil {
				return err
			}

			every, _ := cmd.Flags().GetDuration("every")
			if every <= 0 {
				every = a.cfg.WatchInterval
			}

			out := cmd.OutOrStdout()
			w := scheduler.New(a.resolver, strings.Join(args, " "), every, func(st view.State) {
				if err := printState(out, st, output); err != nil {
					a.log.Error().Err(err).Msg("print failed")
				}
			}, a.log)
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().Duration("every", 0, "Refresh interval (default WATCH_INTERVAL)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
	return cmd
}

func checkOutput(output string) error {
	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}

func printState(w io.Writer, st view.State, output string) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	_, err := fmt.Fprintln(w, view.Text(st))
	return err
}
