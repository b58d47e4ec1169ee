package broker

import (
	"context"

	"SeedWithWarehouse/internal/config"
	"SeedWithWarehouse/pkg/logging"

	"github.com/go-stomp/stomp/v3"
	"github.com/go-stomp/stomp/v3/frame"
	"github.com/pkg/errors"
)

// StompConsumer holds a durable topic subscription on a STOMP 1.0 broker.
type StompConsumer struct {
	addr         string
	user         string
	password     string
	clientID     string
	destination  string
	subscription string

	conn *stomp.Conn
}

func NewStompConsumer(cfg *config.Config) *StompConsumer {
	return &StompConsumer{
		addr:         cfg.StompAddr(),
		user:         cfg.STOMP.User,
		password:     cfg.STOMP.Password,
		clientID:     cfg.STOMP.ClientID,
		destination:  TopicDestination(cfg.STOMP.Topic),
		subscription: cfg.STOMP.Subscription,
	}
}

func (s *StompConsumer) connectOptions() []func(*stomp.Conn) error {
	opts := []func(*stomp.Conn) error{
		stomp.ConnOpt.AcceptVersion(stomp.V10),
	}
	if s.user != "" {
		opts = append(opts, stomp.ConnOpt.Login(s.user, s.password))
	}
	if s.clientID != "" {
		opts = append(opts, stomp.ConnOpt.Header("client-id", s.clientID))
	}
	return opts
}

func (s *StompConsumer) subscribeOptions() []func(*frame.Frame) error {
	if s.subscription == "" {
		return nil
	}
	return []func(*frame.Frame) error{
		stomp.SubscribeOpt.Header("activemq.subscriptionName", s.subscription),
	}
}

func (s *StompConsumer) Consume(ctx context.Context, h Handler) error {
	logger := logging.GetLogger()
	logger.Infof("Start StompConsumer.Consume %s on %s", s.destination, s.addr)
	defer logger.Info("End StompConsumer.Consume")

	conn, err := stomp.Dial("tcp", s.addr, s.connectOptions()...)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to STOMP broker %s", s.addr)
	}
	s.conn = conn
	defer func() { _ = s.Close() }()

	sub, err := conn.Subscribe(s.destination, stomp.AckAuto, s.subscribeOptions()...)
	if err != nil {
		return errors.Wrapf(err, "failed to subscribe to %s", s.destination)
	}
	return deliverStomp(ctx, sub.C, h)
}

func deliverStomp(ctx context.Context, messages <-chan *stomp.Message, h Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("STOMP subscription closed")
			}
			if msg.Err != nil {
				return errors.Wrap(msg.Err, "STOMP subscription failed")
			}
			dispatch(ctx, h, stompHeaders(msg), msg.Body)
		}
	}
}

func stompHeaders(msg *stomp.Message) map[string]string {
	headers := make(map[string]string)
	if msg.Header != nil {
		for i := 0; i < msg.Header.Len(); i++ {
			k, v := msg.Header.GetAt(i)
			if _, ok := headers[k]; !ok {
				headers[k] = v
			}
		}
	}
	if msg.Destination != "" {
		headers["destination"] = msg.Destination
	}
	return headers
}

func (s *StompConsumer) Close() error {
	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	return conn.Disconnect()
}
