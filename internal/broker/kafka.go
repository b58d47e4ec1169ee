package broker

import (
	"context"

	"SeedWithWarehouse/internal/config"
	"SeedWithWarehouse/pkg/logging"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// messageReader abstracts kafka.Reader for testability.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads a topic as a member of a consumer group; the group
// plays the part of a durable subscription.
type KafkaConsumer struct {
	reader messageReader
}

func NewKafkaConsumer(cfg *config.Config) (*KafkaConsumer, error) {
	brokers := cfg.KafkaBrokers()
	if len(brokers) == 0 {
		return nil, errors.New("KAFKA.Brokers is empty")
	}
	return &KafkaConsumer{reader: kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   cfg.KAFKA.Topic,
		GroupID: cfg.KAFKA.GroupID,
	})}, nil
}

func (k *KafkaConsumer) Consume(ctx context.Context, h Handler) error {
	logger := logging.GetLogger()
	logger.Info("Start KafkaConsumer.Consume")
	defer logger.Info("End KafkaConsumer.Consume")

	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "failed to fetch kafka message")
		}
		dispatch(ctx, h, kafkaHeaders(msg), msg.Value)
		if err := k.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Wrapf(err, "failed to commit offset %d", msg.Offset)
		}
	}
}

func kafkaHeaders(msg kafka.Message) map[string]string {
	headers := map[string]string{"destination": msg.Topic}
	if len(msg.Key) > 0 {
		headers["key"] = string(msg.Key)
	}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}

func (k *KafkaConsumer) Close() error {
	return k.reader.Close()
}
