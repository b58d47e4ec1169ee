package broker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SeedWithWarehouse/internal/config"
	"SeedWithWarehouse/pkg/logging"

	"github.com/pkg/errors"
)

// Handler receives one relayed message. A returned error is logged and the
// consumer moves on.
type Handler func(ctx context.Context, headers map[string]string, body []byte) error

// Consumer delivers broker messages to a Handler until ctx is done or the
// connection fails.
type Consumer interface {
	Consume(ctx context.Context, h Handler) error
	Close() error
}

// New returns the consumer selected by BROKER.Driver.
func New(cfg *config.Config) (Consumer, error) {
	switch cfg.BROKER.Driver {
	case "stomp":
		return NewStompConsumer(cfg), nil
	case "kafka":
		return NewKafkaConsumer(cfg)
	}
	return nil, errors.Errorf("unknown broker driver %q", cfg.BROKER.Driver)
}

// TopicDestination prefixes a bare topic name with /topic/.
func TopicDestination(topic string) string {
	if strings.HasPrefix(topic, "/") {
		return topic
	}
	return "/topic/" + topic
}

func dispatch(ctx context.Context, h Handler, headers map[string]string, body []byte) {
	logger := logging.GetLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("broker handler panicked: %v", r)
		}
	}()
	if err := h(ctx, headers, body); err != nil {
		logger.Errorf("broker handler failed: %v", err)
	}
}

// RunWithRecovered consumes until ctx is done, reconnecting after a failure
// at most restarts times.
func RunWithRecovered(ctx context.Context, c Consumer, h Handler, restarts int, pause time.Duration) error {
	logger := logging.GetLogger()
	logger.Info("Start broker relay")
	defer logger.Info("End broker relay")

	for index := 0; ; index++ {
		err := consumeRecovered(ctx, c, h)
		if ctx.Err() != nil {
			return nil
		}
		if index >= restarts {
			return errors.Wrapf(err, "broker relay stopped after %d restarts", restarts)
		}
		logger.Errorf("broker consumer failed, restarting in %s: %v", pause, err)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(pause):
		}
	}
}

func consumeRecovered(ctx context.Context, c Consumer, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprintf("consumer panicked: %v", r))
		}
	}()
	return c.Consume(ctx, h)
}
