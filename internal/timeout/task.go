// Package timeout implements the periodic sweeper that evicts entities
// whose last heartbeat has gone stale, emitting a matching unsubscribe
// command for each one evicted.
package timeout

import (
	"context"
	"time"

	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/registry"
	"github.com/ede1998/home-automation/internal/subscriber"
	"github.com/ede1998/home-automation/internal/telemetry"
)

// Task periodically sweeps the registry for stale entries.
type Task struct {
	registry      *registry.Registry
	subscriptions chan<- subscriber.Command
	log           telemetry.Logger

	sweepInterval time.Duration
	threshold     time.Duration
}

// Option configures a Task beyond its required dependencies.
type Option func(*Task)

// WithSweepInterval overrides the default sweep interval.
func WithSweepInterval(d time.Duration) Option {
	return func(t *Task) { t.sweepInterval = d }
}

// WithStalenessThreshold overrides the default eviction threshold.
func WithStalenessThreshold(d time.Duration) Option {
	return func(t *Task) { t.threshold = d }
}

// New creates a timeout task. By default it sweeps once per
// pb.HeartbeatFrequency and evicts entries stale past pb.EvictionThreshold.
func New(reg *registry.Registry, subscriptions chan<- subscriber.Command, log telemetry.Logger, opts ...Option) *Task {
	t := &Task{
		registry:      reg,
		subscriptions: subscriptions,
		log:           log,
		sweepInterval: pb.HeartbeatFrequency,
		threshold:     pb.EvictionThreshold,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run sweeps the registry every sweepInterval until ctx signals shutdown.
func (t *Task) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.sweep(ctx)
		}
	}
}

func (t *Task) sweep(ctx context.Context) {
	now := time.Now()
	for _, entry := range t.registry.Snapshot() {
		if !entry.Stale(t.threshold, now) {
			continue
		}
		t.log.Info(ctx, "evicting entity after missed heartbeats", "entity", entry.Name)

		topic := pb.Topic(entry.Type, entry.Name)
		select {
		case t.subscriptions <- subscriber.UnsubscribeCommand(topic):
		case <-ctx.Done():
			return
		}

		if err := t.registry.Unregister(entry.Name); err != nil {
			t.log.Error(ctx, "failed to evict entity", "entity", entry.Name, "error", err)
		}
	}
}
