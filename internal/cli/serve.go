package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"SeedWithWarehouse/internal/broker"
	"SeedWithWarehouse/pkg/logging"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	serveRelay    bool
	relayRestarts int
	relayPause    time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP endpoints",
	Long: `Start the HTTP endpoints: the SEED SOAP receiver, the typed receivers,
the send and debug endpoints, presets and metrics.

Examples:
  seedvdi serve --config ./config/config.ini
  seedvdi serve --relay`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveRelay, "relay", false, "also consume the configured broker topic")
	for _, cmd := range []*cobra.Command{serveCmd, consumeCmd} {
		cmd.Flags().IntVar(&relayRestarts, "restarts", 10, "broker reconnect attempts before giving up")
		cmd.Flags().DurationVar(&relayPause, "restart-pause", 5*time.Second, "pause between broker reconnects")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.GetLogger()
	logger.Info("Start serve")
	defer logger.Info("End serve")

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveRelay {
		go func() {
			if err := relay(ctx, a); err != nil {
				logger.Error(err)
			}
		}()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.SERVICE.PORT),
		Handler:           a.handler().Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func relay(ctx context.Context, a *app) error {
	consumer, err := broker.New(a.cfg)
	if err != nil {
		return err
	}
	defer consumer.Close()
	return broker.RunWithRecovered(ctx, consumer, a.service.HandleBrokerMessage, relayRestarts, relayPause)
}
