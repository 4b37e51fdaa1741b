// Package queue is a small RabbitMQ client for analysis jobs and their
// status updates.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"resumelens/internal/errors"
)

// Publisher is what producers of jobs and status updates need.
type Publisher interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, v any) error
}

var _ Publisher = (*Client)(nil)

// Client holds one connection. Publishing shares a single channel guarded by
// a mutex; every consumer gets its own channel.
type Client struct {
	conn   *amqp.Connection
	pubMu  sync.Mutex
	pubCh  *amqp.Channel
	logger *errors.Logger
}

// Dial connects to the broker at url.
func Dial(url string, logger *errors.Logger) (*Client, error) {
	if url == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "queue URL is required", nil)
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeQueueFailed, "failed to connect to RabbitMQ", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.NewNetworkError(errors.ErrCodeQueueFailed, "failed to open RabbitMQ channel", err)
	}

	logger.Info("Connected to RabbitMQ")
	return &Client{conn: conn, pubCh: ch, logger: logger}, nil
}

// EnsureQueue declares a durable queue.
func (c *Client) EnsureQueue(name string) error {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	_, err := c.pubCh.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeQueueFailed, fmt.Sprintf("failed to declare queue %q", name), err)
	}
	c.logger.Debug("Queue declared", "queue", name)
	return nil
}

// EnsureExchange declares a durable exchange of the given kind ("topic", "direct", ...).
func (c *Client) EnsureExchange(name, kind string) error {
	if name == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "exchange name is required", nil)
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	err := c.pubCh.ExchangeDeclare(
		name,
		kind,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeQueueFailed, fmt.Sprintf("failed to declare exchange %q", name), err)
	}
	c.logger.Debug("Exchange declared", "exchange", name, "kind", kind)
	return nil
}

// PublishJSON publishes v as a persistent JSON message. An empty exchange
// routes straight to the queue named by routingKey.
func (c *Client) PublishJSON(ctx context.Context, exchange, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeQueueFailed, "failed to encode message", err)
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	err = c.pubCh.PublishWithContext(ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeQueueFailed, "failed to publish message", err).
			WithContext("exchange", exchange).
			WithContext("routing_key", routingKey)
	}
	return nil
}

// Consumer is a manual-ack subscription on its own channel.
type Consumer struct {
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
}

func (c *Consumer) Deliveries() <-chan amqp.Delivery { return c.deliveries }

// Close cancels the subscription. The deliveries channel is closed by the
// library once the channel shuts down.
func (c *Consumer) Close() error { return c.ch.Close() }

// Consume subscribes to queue with manual acknowledgement and the given
// prefetch count.
func (c *Client) Consume(queue string, prefetch int) (*Consumer, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeQueueFailed, "failed to open consumer channel", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, errors.NewNetworkError(errors.ErrCodeQueueFailed, "failed to set QoS", err)
	}

	deliveries, err := ch.Consume(
		queue,
		"",    // consumer tag, generated by the server
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, errors.NewNetworkError(errors.ErrCodeQueueFailed, fmt.Sprintf("failed to consume from %q", queue), err)
	}

	c.logger.Info("Consumer started", "queue", queue, "prefetch", prefetch)
	return &Consumer{ch: ch, deliveries: deliveries}, nil
}

// NotifyClose reports connection loss.
func (c *Client) NotifyClose() <-chan *amqp.Error {
	return c.conn.NotifyClose(make(chan *amqp.Error, 1))
}

func (c *Client) Close() error {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	if err := c.pubCh.Close(); err != nil && err != amqp.ErrClosed {
		c.logger.LogError(err, "Failed to close publish channel")
	}
	return c.conn.Close()
}

// UpdateRoutingKey is the topic routing key for status updates of a job.
func UpdateRoutingKey(jobID string) string {
	return "analysis." + jobID
}
