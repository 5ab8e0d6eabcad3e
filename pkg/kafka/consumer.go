package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// Consumer wraps Kafka readers with a worker pool.
type Consumer struct {
	cfg      *ConsumerConfig
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	stopChan chan struct{}
	msgChan  chan *message
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type message struct {
	topic string
	data  []byte
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "default",
		WorkerCount: 1,
		BufferSize:  10,
		RetryMax:    3,
		BackoffMin:  50 * time.Millisecond,
		BackoffMax:  2 * time.Second,
		MinBytes:    1,
		MaxBytes:    10e6,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	initConsumerMetricsOnce()

	return &Consumer{
		cfg:      cfg,
		readers:  make(map[string]*kafka.Reader),
		handlers: make(map[string]MessageHandler),
		stopChan: make(chan struct{}),
		msgChan:  make(chan *message, cfg.BufferSize),
	}, nil
}

// RegisterHandler registers a message handler for a specific topic.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		log.Printf("warn: handler already registered for topic %s", topic)
		return
	}
	c.handlers[topic] = handler
}

// Start starts the Kafka consumer and workers.
func (c *Consumer) Start() error {
	for topic := range c.handlers {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		})
		c.readers[topic] = reader
		log.Printf("kafka consumer: registered topic=%s", topic)
	}

	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.wg.Add(1)
		go c.messageWorker()
	}
	log.Printf("kafka consumer: started workers=%d", c.cfg.WorkerCount)

	for topic, reader := range c.readers {
		c.wg.Add(1)
		go c.consumeMessages(topic, reader)
	}
	return nil
}

// Stop stops readers and workers and waits for them to drain.
func (c *Consumer) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		close(c.stopChan)
		for _, reader := range c.readers {
			_ = reader.Close()
		}
	})

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (c *Consumer) consumeMessages(topic string, reader *kafka.Reader) {
	defer c.wg.Done()
	for {
		m, err := reader.ReadMessage(context.Background())
		if err != nil {
			select {
			case <-c.stopChan:
				return
			default:
			}
			if errors.Is(err, kafka.ErrGroupClosed) {
				return
			}
			consumerErrsTotal.WithLabelValues(topic, "read").Inc()
			log.Printf("kafka consumer: read error topic=%s: %v", topic, err)
			continue
		}

		select {
		case c.msgChan <- &message{topic: topic, data: m.Value}:
		case <-c.stopChan:
			return
		}
	}
}

func (c *Consumer) messageWorker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.stopChan:
			return
		case m := <-c.msgChan:
			c.handleWithRetry(m)
		}
	}
}

func (c *Consumer) handleWithRetry(m *message) {
	handler, ok := c.handlers[m.topic]
	if !ok {
		return
	}

	ctx := context.Background()
	backoff := c.cfg.BackoffMin
	for attempt := 0; attempt <= c.cfg.RetryMax; attempt++ {
		start := time.Now()
		err := handler.Handle(ctx, m.data)
		consumerLatencyHist.WithLabelValues(m.topic).Observe(time.Since(start).Seconds())
		if err == nil {
			consumerMsgsTotal.WithLabelValues(m.topic, "ok").Inc()
			return
		}

		consumerErrsTotal.WithLabelValues(m.topic, "handle").Inc()
		if attempt == c.cfg.RetryMax {
			consumerMsgsTotal.WithLabelValues(m.topic, "dropped").Inc()
			log.Printf("kafka consumer: dropping message topic=%s after %d attempts: %v", m.topic, attempt+1, err)
			return
		}

		// jittered backoff between attempts
		sleep := backoff + time.Duration(rand.Int63n(int64(backoff)))
		if sleep > c.cfg.BackoffMax {
			sleep = c.cfg.BackoffMax
		}
		select {
		case <-c.stopChan:
			return
		case <-time.After(sleep):
		}
		backoff *= 2
	}
}

var (
	consumerMsgsTotal   *prometheus.CounterVec
	consumerErrsTotal   *prometheus.CounterVec
	consumerLatencyHist *prometheus.HistogramVec
	consumerOnce        = make(chan struct{}, 1)
)

func initConsumerMetricsOnce() {
	select {
	case consumerOnce <- struct{}{}:
		consumerMsgsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_kafka_consumer_messages_total",
				Help: "Total messages consumed from Kafka",
			},
			[]string{"topic", "result"},
		)
		consumerErrsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_kafka_consumer_errors_total",
				Help: "Total consumer errors",
			},
			[]string{"topic", "stage"},
		)
		consumerLatencyHist = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockview_kafka_consumer_handle_seconds",
				Help:    "Handler latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"topic"},
		)
	default:
		// already initialized
	}
}
