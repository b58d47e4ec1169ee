package cli

import (
	"context"
	"os/signal"
	"syscall"

	"SeedWithWarehouse/pkg/logging"

	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Relay VDI messages from the broker into the warehouse",
	Args:  cobra.NoArgs,
	RunE:  runConsume,
}

func runConsume(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.GetLogger()
	logger.Infof("Start consume, driver %s", cfg.BROKER.Driver)
	defer logger.Info("End consume")

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return relay(ctx, a)
}
