// Package controller wires the four controller tasks — Discovery,
// Subscriber, Timeout and Client API — to a shared registry and fabric
// context, and runs them to completion.
package controller

import (
	"context"
	"errors"

	"github.com/ede1998/home-automation/internal/clientapi"
	"github.com/ede1998/home-automation/internal/discovery"
	"github.com/ede1998/home-automation/internal/fabric"
	"github.com/ede1998/home-automation/internal/registry"
	"github.com/ede1998/home-automation/internal/subscriber"
	"github.com/ede1998/home-automation/internal/telemetry"
	"github.com/ede1998/home-automation/internal/timeout"
)

// Config holds the three endpoints the controller binds.
type Config struct {
	DiscoveryEndpoint  string
	EntityDataEndpoint string
	ClientAPIEndpoint  string
}

// Controller owns the registry and the four server tasks.
type Controller struct {
	fctx     *fabric.Context
	registry *registry.Registry

	discovery  *discovery.Task
	subscriber *subscriber.Task
	timeout    *timeout.Task
	clientAPI  *clientapi.Task
}

// New creates a controller with every task bound to its configured
// endpoint, sharing one registry and one fabric context.
func New(cfg Config, log telemetry.Logger, tracer telemetry.Tracer) (*Controller, error) {
	fctx := fabric.NewContext()
	reg := registry.New()

	subTask, err := subscriber.New(fctx, cfg.EntityDataEndpoint, reg, log)
	if err != nil {
		return nil, err
	}

	discoveryTask, err := discovery.New(fctx, cfg.DiscoveryEndpoint, reg, subTask.Commands(), log, tracer)
	if err != nil {
		_ = subTask.Close()
		return nil, err
	}

	clientAPITask, err := clientapi.New(fctx, cfg.ClientAPIEndpoint, reg, log, tracer)
	if err != nil {
		_ = subTask.Close()
		_ = discoveryTask.Close()
		return nil, err
	}

	timeoutTask := timeout.New(reg, subTask.Commands(), log)

	return &Controller{
		fctx:       fctx,
		registry:   reg,
		discovery:  discoveryTask,
		subscriber: subTask,
		timeout:    timeoutTask,
		clientAPI:  clientAPITask,
	}, nil
}

// Run starts all four tasks and blocks until ctx is cancelled or one of them
// returns a non-terminal error, in which case the fabric context is
// destroyed to unblock the others.
func (c *Controller) Run(ctx context.Context) error {
	tasks := []func(context.Context) error{
		c.discovery.Run,
		c.subscriber.Run,
		c.timeout.Run,
		c.clientAPI.Run,
	}

	errs := make(chan error, len(tasks))
	for _, run := range tasks {
		go func(run func(context.Context) error) {
			errs <- run(ctx)
		}(run)
	}

	go func() {
		<-ctx.Done()
		c.fctx.Destroy()
	}()

	var firstErr error
	for range tasks {
		if err := <-errs; err != nil && !errors.Is(err, fabric.ErrTerminated) && firstErr == nil {
			firstErr = err
			c.fctx.Destroy()
		}
	}
	return firstErr
}

// Destroy releases the fabric context and every bound socket.
func (c *Controller) Destroy() {
	c.fctx.Destroy()
	_ = c.discovery.Close()
	_ = c.subscriber.Close()
	_ = c.clientAPI.Close()
}
