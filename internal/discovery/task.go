// Package discovery implements the controller's entry point for entities:
// a reply socket accepting Register, Heartbeat and Unregister commands,
// mutating the registry and driving the subscriber task's subscription set.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ede1998/home-automation/internal/fabric"
	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/registry"
	"github.com/ede1998/home-automation/internal/subscriber"
	"github.com/ede1998/home-automation/internal/telemetry"
	"github.com/ede1998/home-automation/internal/wire"
)

// Task accepts discovery requests on a reply socket and mutates reg
// accordingly, emitting matching subscribe/unsubscribe commands.
type Task struct {
	fctx         *fabric.Context
	server       *fabric.LinkedReplier
	registry     *registry.Registry
	subscriptions chan<- subscriber.Command
	log          telemetry.Logger
	tracer       telemetry.Tracer
}

// New creates a discovery task bound to endpoint.
func New(fctx *fabric.Context, endpoint string, reg *registry.Registry, subscriptions chan<- subscriber.Command, log telemetry.Logger, tracer telemetry.Tracer) (*Task, error) {
	server, err := fabric.NewReplier(fctx).Bind(endpoint)
	if err != nil {
		return nil, err
	}
	return &Task{
		fctx:          fctx,
		server:        server,
		registry:      reg,
		subscriptions: subscriptions,
		log:           log,
		tracer:        tracer,
	}, nil
}

// Run accepts discovery requests until ctx signals shutdown.
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
			t.log.Error(ctx, "discovery failed to handle request", "error", err)
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
		return t.reject(ctx, err)
	}
	reqCtx := extractTrace(ctx, env)

	var cmd pb.EntityDiscoveryCommand
	if err := wire.Unpack(env, &cmd); err != nil {
		return t.reject(ctx, err)
	}

	spanCtx, span := t.tracer.Start(reqCtx, "discovery.handle_command")
	defer span.End()

	result := t.handleCommand(spanCtx, cmd, req.PeerAddress)
	t.log.Info(spanCtx, "handled discovery command", "entity", cmd.EntityName, "error", result)

	code := pb.Ok()
	if result != nil {
		span.RecordError(result)
		code = pb.Err()
	}
	reply, err := wire.Pack(nil, code)
	if err != nil {
		return err
	}
	encoded, err := reply.Marshal()
	if err != nil {
		return err
	}
	return t.server.Reply(encoded)
}

// reject replies Error to a request that could not even be decoded, so a
// malformed request never leaves the Replier stuck mid-exchange.
func (t *Task) reject(ctx context.Context, cause error) error {
	t.log.Error(ctx, "discovery received malformed request", "error", cause)
	reply, err := wire.Pack(nil, pb.Err())
	if err != nil {
		return err
	}
	encoded, err := reply.Marshal()
	if err != nil {
		return err
	}
	return t.server.Reply(encoded)
}

func (t *Task) handleCommand(ctx context.Context, cmd pb.EntityDiscoveryCommand, peerAddress string) error {
	switch c := cmd.Command.(type) {
	case pb.Register:
		return t.register(ctx, cmd.EntityName, cmd.EntityType, peerAddress, c.Port)
	case pb.Heartbeat:
		return t.registry.Heartbeat(cmd.EntityName)
	case pb.Unregister:
		return t.unregister(ctx, cmd.EntityName, cmd.EntityType)
	default:
		return fmt.Errorf("discovery: entity %s sent a command with no case set", cmd.EntityName)
	}
}

func (t *Task) register(ctx context.Context, name string, entityType pb.EntityType, peerAddress string, port uint32) error {
	backChannel, err := t.openBackChannel(peerAddress, port)
	if err != nil {
		return fmt.Errorf("discovery: open back-channel for %s: %w", name, err)
	}
	if _, err := t.registry.Register(name, entityType, backChannel); err != nil {
		_ = backChannel.Close()
		return err
	}
	topic := pb.Topic(entityType, name)
	select {
	case t.subscriptions <- subscriber.SubscribeCommand(topic):
	case <-ctx.Done():
		return fabric.ErrTerminated
	}
	return nil
}

// unregister removes name from the registry. A name that was never
// registered is an error; the idempotence Registry.Unregister otherwise
// provides is reserved for the race between this explicit request and a
// concurrent Timeout eviction of the same, already-registered row.
func (t *Task) unregister(ctx context.Context, name string, entityType pb.EntityType) error {
	if _, err := t.registry.Lookup(name); err != nil {
		return err
	}
	topic := pb.Topic(entityType, name)
	select {
	case t.subscriptions <- subscriber.UnsubscribeCommand(topic):
	case <-ctx.Done():
		return fabric.ErrTerminated
	}
	return t.registry.Unregister(name)
}

func (t *Task) openBackChannel(peerAddress string, port uint32) (*fabric.LinkedRequester, error) {
	host := stripZone(peerAddress)
	endpoint := fmt.Sprintf("tcp://%s:%d", host, port)
	return fabric.NewRequester(t.fctx, pb.ClientRPCTimeout).Connect(endpoint)
}

// stripZone drops a bracketed IPv6 scope/zone suffix if present; the
// transport reports bare addresses in every configuration this module
// targets, so this is a defensive no-op in practice.
func stripZone(addr string) string {
	if i := strings.IndexByte(addr, '%'); i >= 0 {
		return addr[:i]
	}
	return addr
}

// Close releases the discovery socket.
func (t *Task) Close() error {
	return t.server.Close()
}
