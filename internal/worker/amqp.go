package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

// Broker owns one RabbitMQ connection and declares the analysis topology.
type Broker struct {
	conn *amqp.Connection

	mu      sync.Mutex
	pubChan *amqp.Channel
}

// Dial connects to RabbitMQ and declares the durable job queue and the
// topic exchange for status updates.
func Dial(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Broker{conn: conn, pubChan: ch}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", QueueName, err)
	}
	if err := ch.ExchangeDeclare(
		UpdatesExchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", UpdatesExchange, err)
	}
	return nil
}

// Close closes the connection and every channel opened on it.
func (b *Broker) Close() error {
	return b.conn.Close()
}

func (b *Broker) publish(exchange, key string, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pubChan.Publish(exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Publish sends a status update to UpdatesExchange.
func (b *Broker) Publish(_ context.Context, update StatusUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal status update: %w", err)
	}
	return b.publish(UpdatesExchange, update.RoutingKey(), body)
}

// Enqueue sends a job to QueueName through the default exchange.
func (b *Broker) Enqueue(_ context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := b.publish("", QueueName, body); err != nil {
		return fmt.Errorf("failed to enqueue analysis %s: %w", job.AnalysisID, err)
	}
	return nil
}

// Pool consumes QueueName with a fixed number of workers.
type Pool struct {
	broker    *Broker
	processor *Processor
	workers   int
}

// NewPool returns a Pool of workers consumers (at least one).
func NewPool(broker *Broker, processor *Processor, workers int) *Pool {
	return &Pool{broker: broker, processor: processor, workers: max(workers, 1)}
}

// Run consumes until ctx is canceled or a channel fails. Each worker has its
// own channel with a prefetch of one and acknowledges messages manually.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			return p.consume(ctx, i+1)
		})
	}
	return g.Wait()
}

func (p *Pool) consume(ctx context.Context, id int) error {
	ch, err := p.broker.conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: failed to open channel: %w", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("worker %d: failed to set qos: %w", id, err)
	}

	tag := fmt.Sprintf("ats-worker-%d", id)
	msgs, err := ch.Consume(QueueName, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("worker %d: failed to consume: %w", id, err)
	}

	logger := log.With().Int("worker", id).Logger()
	logger.Info().Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			_ = ch.Cancel(tag, false)
			logger.Info().Msg("worker stopped")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			p.handle(ctx, msg)
		}
	}
}

func (p *Pool) handle(ctx context.Context, msg amqp.Delivery) {
	job, err := DecodeJob(msg.Body)
	if err != nil {
		log.Error().Err(err).Msg("dropping malformed job message")
		_ = msg.Reject(false)
		return
	}

	if err := p.processor.Process(ctx, job); err != nil {
		log.Error().Err(err).Str("analysis_id", job.AnalysisID.String()).Msg("job failed")
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}
