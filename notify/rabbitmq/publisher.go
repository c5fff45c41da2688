/*
Package rabbitmq publishes cache evictions to a RabbitMQ topic exchange.

Evictions happen under a shard lock, so the Publisher only queues them;
a background worker does the network I/O. Like the write-back policy,
it drops events when its buffer is full rather than stall the cache.
*/
package rabbitmq

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/krisalay/lfu-cache/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher is a types.EvictionListener that forwards events to RabbitMQ.
type Publisher struct {
	ch       Channel
	exchange string

	events  chan types.Eviction
	dropped atomic.Int64

	logger *slog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ types.EvictionListener = (*Publisher)(nil)

// NewPublisher creates a publisher and starts its worker.
func NewPublisher(ch Channel, exchange string, buffer int, logger *slog.Logger) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Publisher{
		ch:       ch,
		exchange: exchange,
		events:   make(chan types.Eviction, buffer),
		logger:   logger.With("component", "eviction-publisher", "exchange", exchange),
	}

	p.wg.Add(1)
	go p.worker()

	return p
}

// OnEvict queues ev without blocking.
func (p *Publisher) OnEvict(ev types.Eviction) {
	select {
	case p.events <- ev:
	default:
		p.dropped.Add(1)
		p.logger.Debug("eviction event dropped, buffer full", "key", ev.Key)
	}
}

// Dropped returns how many events were discarded under pressure.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

func (p *Publisher) worker() {
	defer p.wg.Done()

	for ev := range p.events {
		if err := p.publish(ev); err != nil {
			p.logger.Error("publish failed", "key", ev.Key, "error", err)
		}
	}
}

func (p *Publisher) publish(ev types.Eviction) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		RoutingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   uuid.NewString(),
			Timestamp:   ev.EvictedAt,
			Body:        body,
		},
	)
}

// Close stops accepting events and waits until the queued ones are published.
// It must not race with OnEvict; close the cache's writers first.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.events)
	})
	p.wg.Wait()
}
