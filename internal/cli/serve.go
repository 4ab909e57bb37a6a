package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harun/retailx/internal/metrics"
	"github.com/harun/retailx/pkg/server"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question answering API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.openStore(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.NewMetrics()
	runner, err := a.newRunner(store, m)
	if err != nil {
		return err
	}

	opts := server.Options{
		Host:               a.cfg.Server.Host,
		Port:               a.cfg.Server.Port,
		RequestTimeout:     time.Duration(a.cfg.Server.RequestTimeout) * time.Second,
		RateLimitPerMinute: a.cfg.Server.RateLimitPerMinute,
		TrustProxyHeaders:  a.cfg.Server.TrustProxyHeaders,
	}
	if serveHost != "" {
		opts.Host = serveHost
	}
	if servePort != 0 {
		opts.Port = servePort
	}

	srv, err := server.NewServer(opts, runner, m, a.log.With().Str("command", "serve").Logger())
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		if err != nil {
			a.log.Error().Err(err).Msg("Server stopped unexpectedly")
		}
		return err
	case sig := <-sigChan:
		a.log.Info().Str("signal", sig.String()).Msg("Received signal")
	case <-cmd.Context().Done():
	}

	if err := srv.Stop(); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return <-errCh
}
