// Package revalidate carries the "this page changed" signal from a
// successful save to every cache that may hold a stale snapshot, locally and
// on other instances through Redis pub/sub.
package revalidate

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the pub/sub channel paths are published on.
const DefaultChannel = "openleaf:revalidate"

// Revalidator drops whatever is cached for path. Failures are the
// implementation's to log; callers never block on them.
type Revalidator interface {
	Revalidate(ctx context.Context, path string)
}

// Func adapts a function to Revalidator.
type Func func(ctx context.Context, path string)

// Revalidate calls f.
func (f Func) Revalidate(ctx context.Context, path string) { f(ctx, path) }

// Fanout forwards each signal to every member in order. Nil members are
// skipped.
type Fanout []Revalidator

// Revalidate implements Revalidator.
func (f Fanout) Revalidate(ctx context.Context, path string) {
	for _, r := range f {
		if r != nil {
			r.Revalidate(ctx, path)
		}
	}
}

// RedisPublisher announces revalidated paths to other instances.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher publishes on channel, or DefaultChannel when empty.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

// Revalidate publishes path. A failed publish only costs other instances a
// stale snapshot until its TTL runs out, so it is logged and dropped.
func (p *RedisPublisher) Revalidate(ctx context.Context, path string) {
	if err := p.client.Publish(ctx, p.channel, path).Err(); err != nil {
		p.logger.Warn("revalidation publish failed",
			zap.String("path", path),
			zap.String("channel", p.channel),
			zap.Error(err))
	}
}

// Subscriber applies paths published by any instance to a local revalidator.
type Subscriber struct {
	client  *redis.Client
	channel string
	local   Revalidator
	logger  *zap.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSubscriber listens on channel, or DefaultChannel when empty.
func NewSubscriber(client *redis.Client, channel string, local Revalidator, logger *zap.Logger) *Subscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Subscriber{client: client, channel: channel, local: local, logger: logger}
}

// Start subscribes and returns once Redis has confirmed the subscription.
// Messages are handled on a background goroutine until Stop is called or
// ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pubsub != nil {
		return errors.New("revalidate: subscriber already started")
	}

	ps := s.client.Subscribe(ctx, s.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.pubsub = ps
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(loopCtx, ctx.Done(), ps.Channel())

	s.logger.Info("revalidation subscriber started", zap.String("channel", s.channel))
	return nil
}

func (s *Subscriber) loop(ctx context.Context, parent <-chan struct{}, msgs <-chan *redis.Message) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-parent:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			s.logger.Debug("revalidating from pub/sub", zap.String("path", msg.Payload))
			s.local.Revalidate(ctx, msg.Payload)
		}
	}
}

// Stop unsubscribes and waits for the message loop to exit.
func (s *Subscriber) Stop() error {
	s.mu.Lock()
	ps, cancel, done := s.pubsub, s.cancel, s.done
	s.pubsub, s.cancel, s.done = nil, nil, nil
	s.mu.Unlock()

	if ps == nil {
		return nil
	}
	cancel()
	err := ps.Close()
	<-done
	s.logger.Info("revalidation subscriber stopped", zap.String("channel", s.channel))
	return err
}
