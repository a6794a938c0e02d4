package entity

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ede1998/home-automation/internal/fabric"
	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/telemetry"
	"github.com/ede1998/home-automation/internal/tracecontext"
	"github.com/ede1998/home-automation/internal/wire"
)

// Config holds the two controller endpoints every entity connects to.
type Config struct {
	DiscoveryEndpoint  string
	EntityDataEndpoint string
}

// maxConsecutivePublishFailures is how many publish attempts in a row may
// fail before the entity gives up and shuts down.
const maxConsecutivePublishFailures = 3

// App runs the publish, update and heartbeat loops for a single entity.
type App struct {
	fctx *fabric.Context
	cfg  Config
	kind Kind
	log  telemetry.Logger

	publisher   *fabric.LinkedPublisher
	replier     *fabric.LinkedReplier
	heartbeat   *fabric.LinkedRequester
	refreshNano atomic.Int64
}

// New creates an App for kind, not yet connected to the fabric.
func New(cfg Config, kind Kind, log telemetry.Logger) *App {
	a := &App{fctx: fabric.NewContext(), cfg: cfg, kind: kind, log: log}
	a.refreshNano.Store(int64(pb.DefaultPublishPeriod))
	return a
}

// Connect binds the entity's own reply socket, connects its publisher and
// heartbeat back-channel to the controller, and registers with Discovery.
func (a *App) Connect(ctx context.Context) error {
	replier, err := fabric.NewReplier(a.fctx).Bind("tcp://*:*")
	if err != nil {
		return fmt.Errorf("entity: bind update socket: %w", err)
	}
	a.replier = replier

	publisher, err := fabric.NewPublisher(a.fctx).Connect(a.cfg.EntityDataEndpoint)
	if err != nil {
		return fmt.Errorf("entity: connect publisher: %w", err)
	}
	a.publisher = publisher

	heartbeat, err := fabric.NewRequester(a.fctx, pb.ClientRPCTimeout).Connect(a.cfg.DiscoveryEndpoint)
	if err != nil {
		return fmt.Errorf("entity: connect discovery requester: %w", err)
	}
	a.heartbeat = heartbeat

	port, err := replier.Port()
	if err != nil {
		return fmt.Errorf("entity: determine update socket port: %w", err)
	}

	return a.register(ctx, port)
}

func (a *App) register(ctx context.Context, port uint32) error {
	cmd := &pb.EntityDiscoveryCommand{
		EntityName: a.kind.Name(),
		EntityType: a.kind.EntityType(),
		Command:    pb.Register{Port: port},
	}
	return a.exchangeDiscovery(ctx, cmd)
}

func (a *App) exchangeDiscovery(ctx context.Context, cmd *pb.EntityDiscoveryCommand) error {
	env, err := wire.Pack(tracecontext.Inject(ctx), cmd)
	if err != nil {
		return err
	}
	encoded, err := env.Marshal()
	if err != nil {
		return err
	}
	replyBytes, err := a.heartbeat.Request(encoded)
	if err != nil {
		return err
	}
	replyEnv, err := wire.UnmarshalEnvelope(replyBytes)
	if err != nil {
		return err
	}
	var code pb.ResponseCode
	if err := wire.Unpack(replyEnv, &code); err != nil {
		return err
	}
	if code.Code != pb.CodeOk {
		return fmt.Errorf("entity: discovery rejected %T for %s", cmd.Command, cmd.EntityName)
	}
	return nil
}

// Run drives the publish, update and heartbeat loops until ctx is done or
// one of them fails fatally.
func (a *App) Run(ctx context.Context) error {
	loops := []func(context.Context) error{
		a.runPublishLoop,
		a.runUpdateLoop,
		a.runHeartbeatLoop,
	}
	errs := make(chan error, len(loops))
	for _, loop := range loops {
		go func(loop func(context.Context) error) {
			errs <- loop(ctx)
		}(loop)
	}

	go func() {
		<-ctx.Done()
		a.fctx.Destroy()
	}()

	var firstErr error
	for range loops {
		if err := <-errs; err != nil && !errors.Is(err, fabric.ErrTerminated) && firstErr == nil {
			firstErr = err
			a.fctx.Destroy()
		}
	}
	return firstErr
}

func (a *App) runPublishLoop(ctx context.Context) error {
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := a.publishOnce(ctx); err != nil {
			if errors.Is(err, fabric.ErrTerminated) {
				return nil
			}
			failures++
			a.log.Error(ctx, "failed to publish sample", "error", err, "consecutive_failures", failures)
			if failures >= maxConsecutivePublishFailures {
				return fmt.Errorf("entity: too many consecutive publish failures: %w", err)
			}
		} else {
			failures = 0
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(a.refreshRate()):
		}
	}
}

func (a *App) publishOnce(ctx context.Context) error {
	data := a.kind.RetrievePublishData()
	env, err := wire.Pack(tracecontext.Inject(ctx), data)
	if err != nil {
		return err
	}
	encoded, err := env.Marshal()
	if err != nil {
		return err
	}
	return a.publisher.Publish(a.kind.TopicName(), encoded)
}

func (a *App) refreshRate() time.Duration {
	return time.Duration(a.refreshNano.Load())
}

func (a *App) runUpdateLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := a.updateOnce(ctx); err != nil {
			if errors.Is(err, fabric.ErrTerminated) {
				return nil
			}
			a.log.Error(ctx, "failed to handle configuration update", "error", err)
		}
	}
}

func (a *App) updateOnce(ctx context.Context) error {
	req, err := a.replier.Receive()
	if err != nil {
		return err
	}
	env, err := wire.UnmarshalEnvelope(req.Payload)
	if err != nil {
		return a.replyCode(pb.Err())
	}
	reqCtx := tracecontext.Extract(ctx, env.Headers)

	var state pb.NamedEntityState
	if err := wire.Unpack(env, &state); err != nil {
		return a.replyCode(pb.Err())
	}

	newRate, err := a.kind.HandleIncomingData(&state)
	if err != nil {
		a.log.Error(reqCtx, "rejected configuration update", "error", err)
		return a.replyCode(pb.Err())
	}
	if newRate > 0 {
		a.refreshNano.Store(int64(newRate))
	}
	return a.replyCode(pb.Ok())
}

func (a *App) replyCode(code *pb.ResponseCode) error {
	env, err := wire.Pack(nil, code)
	if err != nil {
		return err
	}
	encoded, err := env.Marshal()
	if err != nil {
		return err
	}
	return a.replier.Reply(encoded)
}

func (a *App) runHeartbeatLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(pb.HeartbeatFrequency):
		}
		cmd := &pb.EntityDiscoveryCommand{
			EntityName: a.kind.Name(),
			EntityType: a.kind.EntityType(),
			Command:    pb.Heartbeat{},
		}
		if err := a.exchangeDiscovery(ctx, cmd); err != nil {
			if errors.Is(err, fabric.ErrTerminated) {
				return nil
			}
			return fmt.Errorf("entity: heartbeat failed: %w", err)
		}
	}
}

// Close releases every socket the entity holds.
func (a *App) Close() error {
	a.fctx.Destroy()
	var firstErr error
	for _, closer := range []func() error{a.publisher.Close, a.replier.Close, a.heartbeat.Close} {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
