package cli

import (
	"SeedWithWarehouse/internal/config"
	"SeedWithWarehouse/internal/database"
	"SeedWithWarehouse/internal/flatten"
	httphandler "SeedWithWarehouse/internal/handlers/http"
	"SeedWithWarehouse/internal/ingest"
	"SeedWithWarehouse/internal/metrics"
	"SeedWithWarehouse/internal/seedapi"
	"SeedWithWarehouse/internal/telegram"
	"SeedWithWarehouse/pkg/logging"

	"github.com/pkg/errors"
)

// app holds the components shared by the commands.
type app struct {
	cfg      *config.Config
	storage  *database.SQLiteStorage
	service  *ingest.Service
	client   *seedapi.Client
	metrics  *metrics.Registry
	notifier telegram.Notifier
}

func loadConfig() (*config.Config, error) {
	config.SetPath(configPath)
	cfg := config.GetConfig()
	if err := logging.Init(cfg.LOG.Dir, cfg.LOG.Debug == 1); err != nil {
		return nil, errors.Wrap(err, "failed to init logging")
	}
	return cfg, nil
}

// newApp wires the pipeline. withStorage is false for commands that only send.
func newApp(cfg *config.Config, withStorage bool) (*app, error) {
	logger := logging.GetLogger()
	logger.Info("Start newApp")
	defer logger.Info("End newApp")

	a := &app{
		cfg:      cfg,
		metrics:  metrics.NewRegistry(),
		notifier: telegram.NewNotifier(cfg),
	}
	a.client = seedapi.NewClient(cfg, a.metrics)
	if !withStorage {
		return a, nil
	}

	storage, err := database.NewSQLiteStorage(cfg.WAREHOUSE.DB)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open warehouse %s", cfg.WAREHOUSE.DB)
	}
	a.storage = storage

	var snapshot flatten.SnapshotWriter
	if cfg.SNAPSHOT.Enabled {
		s, err := flatten.NewCSVSnapshot(cfg.SNAPSHOT.Dir)
		if err != nil {
			_ = storage.Close()
			return nil, err
		}
		snapshot = s
	}

	a.service = ingest.NewService(
		flatten.New(snapshot),
		ingest.NewLoader(storage, cfg.WAREHOUSE.TablePrefix, a.metrics),
		ingest.Options{JoinProducts: cfg.WAREHOUSE.JoinProducts, Metrics: a.metrics, Notifier: a.notifier},
	)
	return a, nil
}

func (a *app) handler() *httphandler.Handler {
	var inbound httphandler.Inbound
	if a.service != nil {
		inbound = a.service
	}
	return httphandler.New(a.cfg, inbound, a.client, a.metrics, a.notifier)
}

func (a *app) Close() error {
	if a.storage != nil {
		return a.storage.Close()
	}
	return nil
}
