package client

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueClient is a common interface for message publishers regardless of the
// underlying broker.
type QueueClient interface {
	SendMessage(ctx context.Context, routingKey string, messageBody []byte) error
	IsConnectionHealthy() error
	Stop() error
}

// RabbitMqClient publishes messages to a durable topic exchange consumed by
// off-chain monitors.
type RabbitMqClient struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
}

func NewQueueClient(url, user, password, exchange string) (*RabbitMqClient, error) {
	amqpURI := url
	if user != "" {
		amqpURI = fmt.Sprintf("amqp://%s:%s@%s", user, password, url)
	}
	conn, err := amqp.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitMqClient{
		connection: conn,
		channel:    ch,
		exchange:   exchange,
	}, nil
}

func (c *RabbitMqClient) SendMessage(ctx context.Context, routingKey string, messageBody []byte) error {
	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.channel.PublishWithContext(
		publishCtx,
		c.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         messageBody,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (c *RabbitMqClient) IsConnectionHealthy() error {
	if c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("rabbitmq connection is closed")
	}
	return nil
}

func (c *RabbitMqClient) Stop() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.connection.Close()
}
