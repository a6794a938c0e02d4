// Package clientapi implements the controller's reply socket serving
// clients: a full system-state query, and a targeted action forwarded to an
// entity over its back-channel.
package clientapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/ede1998/home-automation/internal/fabric"
	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/registry"
	"github.com/ede1998/home-automation/internal/telemetry"
	"github.com/ede1998/home-automation/internal/tracecontext"
	"github.com/ede1998/home-automation/internal/wire"
)

// Task serves client queries and actions on a reply socket.
type Task struct {
	server   *fabric.LinkedReplier
	registry *registry.Registry
	log      telemetry.Logger
	tracer   telemetry.Tracer
}

// New creates a client API task bound to endpoint.
func New(fctx *fabric.Context, endpoint string, reg *registry.Registry, log telemetry.Logger, tracer telemetry.Tracer) (*Task, error) {
	server, err := fabric.NewReplier(fctx).Bind(endpoint)
	if err != nil {
		return nil, err
	}
	return &Task{server: server, registry: reg, log: log, tracer: tracer}, nil
}

// Run serves client requests until ctx signals shutdown.
func (t *Task) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := t.acceptOne(ctx); err != nil {
			if errors.Is(err, fabric.ErrTerminated) {
				return nil
			}
			t.log.Error(ctx, "client api failed to handle request", "error", err)
		}
	}
}

func (t *Task) acceptOne(ctx context.Context) error {
	req, err := t.server.Receive()
	if err != nil {
		return err
	}

	env, err := wire.UnmarshalEnvelope(req.Payload)
	if err != nil {
		return t.replyWith(pb.Err())
	}
	reqCtx := tracecontext.Extract(ctx, env.Headers)

	var cmd pb.ClientApiCommand
	if err := wire.Unpack(env, &cmd); err != nil {
		return t.replyWith(pb.Err())
	}

	spanCtx, span := t.tracer.Start(reqCtx, "clientapi.handle_command")
	defer span.End()

	reply, err := t.handleCommand(spanCtx, cmd)
	if err != nil {
		span.RecordError(err)
		t.log.Error(spanCtx, "client api command failed", "error", err)
		return t.replyWith(pb.Err())
	}
	return t.replyWith(reply)
}

func (t *Task) handleCommand(ctx context.Context, cmd pb.ClientApiCommand) (wire.Message, error) {
	switch {
	case cmd.Query != nil:
		return t.query(), nil
	case cmd.Action != nil:
		return t.action(ctx, cmd.Action)
	default:
		return nil, fmt.Errorf("clientapi: command with no case set")
	}
}

// query snapshots the registry into a SystemState. An entity with no sample
// yet is reported in the matching new_* bucket rather than in sensors or
// actuators, so the two never share a name.
func (t *Task) query() *pb.SystemState {
	state := &pb.SystemState{
		Sensors:   make(map[string]*pb.SensorMeasurement),
		Actuators: make(map[string]*pb.ActuatorState),
	}
	for _, entry := range t.registry.Snapshot() {
		sample := entry.Sample()
		switch entry.Type {
		case pb.EntityTypeSensor:
			if sample == nil || sample.SensorMeasurement == nil {
				state.NewSensors = append(state.NewSensors, entry.Name)
				continue
			}
			state.Sensors[entry.Name] = sample.SensorMeasurement
		case pb.EntityTypeActuator:
			if sample == nil || sample.ActuatorState == nil {
				state.NewActuators = append(state.NewActuators, entry.Name)
				continue
			}
			state.Actuators[entry.Name] = sample.ActuatorState
		}
	}
	return state
}

// action forwards a targeted command to the named entity's back-channel and
// relays its reply. The registry row is left untouched here: it is updated
// only once the entity's next published sample arrives (see Open Questions).
func (t *Task) action(ctx context.Context, action *pb.NamedEntityState) (wire.Message, error) {
	entry, err := t.registry.Lookup(action.EntityName)
	if err != nil {
		return nil, err
	}

	payload, err := wire.Pack(tracecontext.Inject(ctx), action)
	if err != nil {
		return nil, err
	}
	encoded, err := payload.Marshal()
	if err != nil {
		return nil, err
	}

	replyBytes, err := entry.Forward(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("clientapi: back-channel exchange with %s failed: %w", action.EntityName, err)
	}

	replyEnv, err := wire.UnmarshalEnvelope(replyBytes)
	if err != nil {
		return nil, err
	}
	var code pb.ResponseCode
	if err := wire.Unpack(replyEnv, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

func (t *Task) replyWith(msg wire.Message) error {
	env, err := wire.Pack(nil, msg)
	if err != nil {
		return err
	}
	encoded, err := env.Marshal()
	if err != nil {
		return err
	}
	return t.server.Reply(encoded)
}

// Close releases the client API socket.
func (t *Task) Close() error {
	return t.server.Close()
}
