package broker

import (
	"context"
	"sync"
	"testing"
	"time"

	"SeedWithWarehouse/internal/config"

	"github.com/go-stomp/stomp/v3"
	"github.com/go-stomp/stomp/v3/frame"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	mu      sync.Mutex
	headers []map[string]string
	bodies  []string
}

func (r *received) handle(_ context.Context, headers map[string]string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers = append(r.headers, headers)
	r.bodies = append(r.bodies, string(body))
	if string(body) == "fail" {
		return errors.New("handler failed")
	}
	if string(body) == "panic" {
		panic("bad message")
	}
	return nil
}

func TestTopicDestination(t *testing.T) {
	Assert := assert.New(t)
	Assert.Equal("/topic/vdi", TopicDestination("vdi"))
	Assert.Equal("/queue/vdi", TopicDestination("/queue/vdi"))
}

func TestNewSelectsDriver(t *testing.T) {
	Assert := assert.New(t)

	cfg := config.Default()
	c, err := New(cfg)
	require.NoError(t, err)
	_, ok := c.(*StompConsumer)
	Assert.True(ok)

	cfg.BROKER.Driver = "kafka"
	_, err = New(cfg)
	Assert.Error(err, "kafka needs brokers")

	cfg.KAFKA.Brokers = "localhost:9092, localhost:9093"
	c, err = New(cfg)
	require.NoError(t, err)
	_, ok = c.(*KafkaConsumer)
	Assert.True(ok)
	Assert.NoError(c.Close())

	cfg.BROKER.Driver = "amqp"
	_, err = New(cfg)
	Assert.Error(err)
}

func TestStompOptions(t *testing.T) {
	Assert := assert.New(t)

	cfg := config.Default()
	cfg.STOMP.Topic = "sales"
	s := NewStompConsumer(cfg)
	Assert.Equal("/topic/sales", s.destination)
	Assert.Equal("localhost:61613", s.addr)
	Assert.Len(s.connectOptions(), 2)

	f := frame.New(frame.SUBSCRIBE)
	for _, opt := range s.subscribeOptions() {
		require.NoError(t, opt(f))
	}
	Assert.Equal("seed-vdi-relay", f.Header.Get("activemq.subscriptionName"))

	s.subscription = ""
	Assert.Empty(s.subscribeOptions())
	Assert.NoError(s.Close())
}

func TestDeliverStomp(t *testing.T) {
	Assert := assert.New(t)

	r := &received{}
	messages := make(chan *stomp.Message, 4)
	messages <- &stomp.Message{Destination: "/topic/vdi", Header: frame.NewHeader("message-id", "1"), Body: []byte("<VDITransaction/>")}
	messages <- &stomp.Message{Destination: "/topic/vdi", Body: []byte("fail")}
	messages <- &stomp.Message{Destination: "/topic/vdi", Body: []byte("panic")}
	close(messages)

	err := deliverStomp(context.Background(), messages, r.handle)
	Assert.Error(err, "closed subscription ends delivery")
	Assert.Equal([]string{"<VDITransaction/>", "fail", "panic"}, r.bodies)
	Assert.Equal("1", r.headers[0]["message-id"])
	Assert.Equal("/topic/vdi", r.headers[0]["destination"])
}

func TestDeliverStompStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := deliverStomp(ctx, make(chan *stomp.Message), (&received{}).handle)
	assert.NoError(t, err)
}

type fakeReader struct {
	messages  []kafka.Message
	committed []int64
	closed    bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.messages) == 0 {
		return kafka.Message{}, errors.New("end of fake stream")
	}
	m := f.messages[0]
	f.messages = f.messages[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestKafkaConsume(t *testing.T) {
	Assert := assert.New(t)

	reader := &fakeReader{messages: []kafka.Message{
		{Topic: "vdi", Offset: 7, Key: []byte("k"), Value: []byte("<VDITransaction/>"),
			Headers: []kafka.Header{{Key: "type", Value: []byte("mms-sales")}}},
		{Topic: "vdi", Offset: 8, Value: []byte("fail")},
	}}
	consumer := &KafkaConsumer{reader: reader}
	r := &received{}

	err := consumer.Consume(context.Background(), r.handle)
	Assert.Error(err)
	Assert.Equal([]int64{7, 8}, reader.committed)
	Assert.Equal("mms-sales", r.headers[0]["type"])
	Assert.Equal("k", r.headers[0]["key"])
	Assert.Equal("vdi", r.headers[1]["destination"])

	Assert.NoError(consumer.Close())
	Assert.True(reader.closed)
}

type flakyConsumer struct {
	calls int
}

func (f *flakyConsumer) Consume(ctx context.Context, h Handler) error {
	f.calls++
	if f.calls == 1 {
		panic("lost connection")
	}
	return errors.New("broker gone")
}

func (f *flakyConsumer) Close() error { return nil }

func TestRunWithRecovered(t *testing.T) {
	c := &flakyConsumer{}
	err := RunWithRecovered(context.Background(), c, (&received{}).handle, 2, time.Millisecond)
	assert.Error(t, err)
	assert.Equal(t, 3, c.calls)
}
