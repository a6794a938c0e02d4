// Package subscriber implements the controller's single ingestion task: one
// SUB socket that receives every entity's published samples and writes the
// latest value into the registry, dynamically (un)subscribing on commands
// from Discovery and Timeout.
package subscriber

import (
	"context"
	"errors"

	"github.com/ede1998/home-automation/internal/fabric"
	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/registry"
	"github.com/ede1998/home-automation/internal/telemetry"
	"github.com/ede1998/home-automation/internal/wire"
)

var errMissingPayload = errors.New("subscriber: message missing payload")

// Task owns the data socket exclusively. Every other task reaches it only
// through Commands, never by touching the socket directly, since a SUB
// socket's subscription set and its receive path must be serialized.
type Task struct {
	socket   *fabric.LinkedSubscriber
	registry *registry.Registry
	commands chan Command
	log      telemetry.Logger
}

// New creates a subscriber task bound to endpoint.
func New(fctx *fabric.Context, endpoint string, reg *registry.Registry, log telemetry.Logger) (*Task, error) {
	socket, err := fabric.NewSubscriber(fctx).Bind(endpoint)
	if err != nil {
		return nil, err
	}
	return &Task{
		socket:   socket,
		registry: reg,
		commands: make(chan Command, 64),
		log:      log,
	}, nil
}

// Commands returns the channel other tasks use to change the subscription
// set. Never call Subscribe/Unsubscribe on the socket directly.
func (t *Task) Commands() chan<- Command {
	return t.commands
}

// Run drains pending subscription commands and ingests published samples
// until ctx signals shutdown. The socket's receive is bounded (see
// fabric.Subscriber), so a freshly-enqueued Subscribe/Unsubscribe command
// is applied on the next poll rather than waiting behind an indefinite
// block on a socket with nothing subscribed yet.
func (t *Task) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		t.drainCommands(ctx)

		topic, payload, err := t.socket.Receive()
		if err != nil {
			if errors.Is(err, fabric.ErrTerminated) {
				return nil
			}
			if errors.Is(err, fabric.ErrPollTimeout) {
				continue
			}
			t.log.Error(ctx, "subscriber receive failed", "error", err)
			continue
		}
		if err := t.ingest(ctx, topic, payload); err != nil {
			t.log.Error(ctx, "subscriber failed to ingest sample", "topic", topic, "error", err)
		}
	}
}

func (t *Task) drainCommands(ctx context.Context) {
	for {
		select {
		case cmd := <-t.commands:
			t.apply(ctx, cmd)
		default:
			return
		}
	}
}

func (t *Task) apply(ctx context.Context, cmd Command) {
	var err error
	if cmd.Subscribe {
		err = t.socket.Subscribe(cmd.Topic)
	} else {
		err = t.socket.Unsubscribe(cmd.Topic)
	}
	if err != nil && !errors.Is(err, fabric.ErrTerminated) {
		t.log.Error(ctx, "failed to update subscription", "topic", cmd.Topic, "subscribe", cmd.Subscribe, "error", err)
	}
}

func (t *Task) ingest(ctx context.Context, topic string, rawEnvelope []byte) error {
	env, err := wire.UnmarshalEnvelope(rawEnvelope)
	if err != nil {
		return err
	}
	var data pb.PublishData
	if err := wire.Unpack(env, &data); err != nil {
		return err
	}

	var name string
	switch {
	case data.SensorMeasurement != nil:
		name, err = pb.ParseSensorTopic(topic)
	case data.ActuatorState != nil:
		name, err = pb.ParseActuatorTopic(topic)
	default:
		err = errMissingPayload
	}
	if err != nil {
		return err
	}

	entry, err := t.registry.Lookup(name)
	if err != nil {
		return err
	}
	entry.SetSample(&data)
	return nil
}

// Close releases the underlying socket.
func (t *Task) Close() error {
	return t.socket.Close()
}
