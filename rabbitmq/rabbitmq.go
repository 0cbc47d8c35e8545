package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows more clever reuse of heap memory.
// Instead of allocating new memory everytime we need to encode an event we
// reuse buffers from this buffer pool. If we publish events sequentially there will
// only be one buffer in this pool at all times, but when scaling to multiple go
// routines this memory pool will scale with it.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"
)

// TokenEvent is the lifecycle notification published per launch: one
// when the unsigned transaction is handed to the agent, one when the
// broadcast is confirmed on-chain.
type TokenEvent struct {
	Type          string    `json:"type"`
	IdentityLogin string    `json:"identity_login"`
	Mint          string    `json:"mint"`
	Name          string    `json:"name"`
	Symbol        string    `json:"symbol"`
	Wallet        string    `json:"wallet"`
	Signature     string    `json:"signature,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Client interface {
	PublishTokenEvent(ctx context.Context, event *TokenEvent) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	tokenExchange string
}

type ClientOption = func(client *DefaultClient)

func WithTokenExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.tokenExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// NewClient wraps an established broker connection and declares the
// token-event exchange.
func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,
		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),
		tokenExchange: "launchhub_token",
	}
	for _, opt := range options {
		opt(client)
	}

	err := amqpClient.ExchangeDeclare(
		client.tokenExchange,
		// topic exchanges let downstream consumers bind per event type
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// Dial sets up a connection to rabbitmq ready to publish token events.
func Dial(uri string, options ...ClientOption) (Client, error) {
	amqpClient, err := DialAMQP(uri)
	if err != nil {
		return nil, err
	}
	return NewClient(amqpClient, options...)
}

func (client *DefaultClient) Close() error {
	return client.amqpClient.Close()
}

// PublishTokenEvent publishes one event with routing key
// token.<type>.<login>.
func (client *DefaultClient) PublishTokenEvent(ctx context.Context, event *TokenEvent) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("token.%s.%s", event.Type, event.IdentityLogin)
	client.logger.Debugf("publishing token event %s", key)

	return client.amqpClient.PublishWithContext(ctx,
		client.tokenExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
}
