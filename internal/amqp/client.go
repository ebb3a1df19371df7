package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

const (
	maxBackoff     = 30 * time.Second
	publishTimeout = 5 * time.Second
)

var errNotConnected = errors.New("amqp channel not connected")

// ErrRetry marks a handler failure worth redelivering. Other handler errors
// drop the delivery; the worker's pending sweep is expected to recover them.
var ErrRetry = errors.New("retry later")

// retryDelay is how long a retryable delivery is held before it is requeued.
var retryDelay = 5 * time.Second

type Client struct {
	url          string
	exchangeName string
	queueName    string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	breaker *gobreaker.CircuitBreaker
}

func newClient(url, exchangeName, queueName string) *Client {
	return &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "amqp-publish",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	c := newClient(url, exchangeName, queueName)
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.mu.Lock()
	c.conn, c.channel = conn, channel
	c.mu.Unlock()
	return nil
}

func setup(ch *amqp091.Channel, exchangeName, queueName string) error {
	err := ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name on a direct exchange.
	if err := ch.QueueBind(queueName, queueName, exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// reconnect retries connect with exponential backoff until it succeeds or
// ctx is done.
func (c *Client) reconnect(ctx context.Context) error {
	c.closeConn()
	for attempt := 0; ; attempt++ {
		err := c.connect()
		if err == nil {
			slog.InfoContext(ctx, "Reconnected to AMQP", "attempt", attempt+1)
			return nil
		}
		wait := exponentialBackoff(attempt)
		slog.WarnContext(ctx, "AMQP reconnect failed", "attempt", attempt+1, "retry_in", wait, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// exponentialBackoff doubles from one second and caps at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) || errors.Is(err, errNotConnected) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "connection closed", "eof", "broken pipe", "closed network connection", "channel/connection is not open"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) PublishRecordSync(ctx context.Context, id, version int64) error {
	return c.publish(ctx, NewRecordSyncMessage(id, version))
}

func (c *Client) PublishRecordDelete(ctx context.Context, id int64) error {
	return c.publish(ctx, NewRecordDeleteMessage(id))
}

func (c *Client) publish(ctx context.Context, msg *RecordSyncMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	_, err = c.breaker.Execute(func() (any, error) {
		c.mu.Lock()
		ch := c.channel
		c.mu.Unlock()
		if ch == nil {
			return nil, errNotConnected
		}

		pctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return nil, ch.PublishWithContext(
			pctx,
			c.exchangeName, // exchange
			c.queueName,    // routing key
			false,          // mandatory
			false,          // immediate
			amqp091.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp091.Persistent,
				MessageId:    msg.MessageID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("circuit breaker is open: %w", err)
		}
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "Published record sync message",
		"message_id", msg.MessageID,
		"op", msg.Op,
		"id", msg.ID,
		"version", msg.Version)
	return nil
}

// ConsumeRecordSync delivers messages to handler until ctx is done. Errors
// wrapping ErrRetry requeue the delivery after retryDelay. Other handler
// errors and undecodable bodies drop it. A closed delivery channel triggers
// a reconnect.
func (c *Client) ConsumeRecordSync(ctx context.Context, handler func(context.Context, *RecordSyncMessage) error) error {
	for {
		err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			return err
		}
		slog.WarnContext(ctx, "AMQP consumer lost connection", "error", err)
		if err := c.reconnect(ctx); err != nil {
			return err
		}
	}
}

func (c *Client) consumeOnce(ctx context.Context, handler func(context.Context, *RecordSyncMessage) error) error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch == nil {
		return errNotConnected
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	slog.InfoContext(ctx, "Started consuming record sync messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return amqp091.ErrClosed
			}
			handleDelivery(ctx, delivery, handler)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type deliveryLike interface {
	acknowledger
	body() []byte
}

type wrappedDelivery struct{ amqp091.Delivery }

func (d wrappedDelivery) body() []byte { return d.Body }

func handleDelivery(ctx context.Context, d amqp091.Delivery, handler func(context.Context, *RecordSyncMessage) error) {
	dispatch(ctx, wrappedDelivery{d}, handler)
}

func dispatch(ctx context.Context, d deliveryLike, handler func(context.Context, *RecordSyncMessage) error) {
	msg, err := RecordSyncMessageFromJSON(d.body())
	if err != nil {
		slog.ErrorContext(ctx, "Failed to decode message", "error", err)
		d.Nack(false, false)
		return
	}
	if err := handler(ctx, msg); err != nil {
		if !errors.Is(err, ErrRetry) {
			slog.ErrorContext(ctx, "Failed to handle message, dropping", "error", err, "id", msg.ID, "op", msg.Op)
			d.Nack(false, false)
			return
		}
		slog.WarnContext(ctx, "Failed to handle message, requeueing", "error", err, "id", msg.ID, "op", msg.Op, "delay", retryDelay)
		t := time.NewTimer(retryDelay)
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		t.Stop()
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

func (c *Client) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) Close() error {
	c.closeConn()
	return nil
}
