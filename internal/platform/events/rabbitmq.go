package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher publishes events to a durable topic exchange.
type RabbitPublisher struct {
	exchange string
	logger   *slog.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewRabbitPublisher dials the broker and declares the exchange.
func NewRabbitPublisher(amqpURL, exchange string, logger *slog.Logger) (*RabbitPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	p := &RabbitPublisher{exchange: exchange, logger: logger, conn: conn}
	if err := p.openChannel(); err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// openChannel replaces the current channel. Callers hold mu, or own p exclusively.
func (p *RabbitPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		ch.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}
	p.channel = ch
	return nil
}

// Publish sends the event with its type as routing key. A failed publish is
// retried once on a fresh channel. Calls are serialized on the channel;
// request paths reach it through an AsyncPublisher.
func (p *RabbitPublisher) Publish(ctx context.Context, event TransactionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.ReferenceID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, msg)
	if err == nil {
		return nil
	}

	p.logger.WarnContext(ctx, "publish failed, reopening channel",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", event.Type),
		slog.String("error", err.Error()))
	if chErr := p.openChannel(); chErr != nil {
		return errors.Join(err, chErr)
	}
	return p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, msg)
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *RabbitPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NewPublisher connects to RabbitMQ when amqpURL is set and falls back to a
// NoopPublisher when it is empty or unreachable. The broker publisher runs
// behind an AsyncPublisher.
func NewPublisher(amqpURL, exchange string, logger *slog.Logger) Publisher {
	if strings.TrimSpace(amqpURL) == "" {
		logger.Info("RABBITMQ_URL not set, transaction events disabled")
		return &NoopPublisher{Logger: logger}
	}
	p, err := NewRabbitPublisher(amqpURL, exchange, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, transaction events disabled", slog.String("error", err.Error()))
		return &NoopPublisher{Logger: logger}
	}
	logger.Info("publishing transaction events", slog.String("exchange", exchange))
	return NewAsyncPublisher(p, defaultQueueSize, logger)
}
