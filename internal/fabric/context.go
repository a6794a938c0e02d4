// Package fabric wraps the ZeroMQ message fabric (github.com/go-zeromq/zmq4)
// behind a small set of typestate socket wrappers: each socket role
// (Publisher, Subscriber, Requester, Replier) has a Detached form returned by
// its constructor and a Linked form returned only by Bind/Connect, so that
// I/O methods are only callable on a socket that has actually been wired to
// an endpoint.
package fabric

import (
	"context"
	"errors"
	"net"
	"sync"
)

// ErrTerminated is returned by any blocking fabric call in progress, or
// issued after, a Context has been destroyed. Every task loop treats it as
// a clean shutdown signal rather than a failure.
var ErrTerminated = errors.New("fabric: context terminated")

// ErrPollTimeout is returned by a blocking receive that was given a bounded
// wait (see LinkedSubscriber.Receive) when that bound elapses
// without a message arriving. It is not a failure: callers use it to come
// up for air and service other work before waiting again.
var ErrPollTimeout = errors.New("fabric: receive timed out")

// ErrRequestTimeout is returned by Requester.Request when no reply arrives
// within its configured timeout. Unlike ErrPollTimeout this represents a
// failed exchange with a specific peer; callers surface it as a retryable
// condition rather than treating it as routine idle polling.
var ErrRequestTimeout = errors.New("fabric: request timed out")

// isTimeout reports whether err is the underlying transport's own deadline
// expiring, as opposed to a real connection failure.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Context is a handle shared by every socket derived from it. Destroying it
// aborts all in-flight I/O on those sockets and causes their next call to
// fail with ErrTerminated — this is how graceful shutdown is signalled.
//
// A Context is safe for concurrent use and Destroy is idempotent.
type Context struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewContext creates a fresh fabric context.
func NewContext() *Context {
	ctx, cancel := context.WithCancel(context.Background())
	return &Context{ctx: ctx, cancel: cancel}
}

// Destroy aborts all in-flight I/O on sockets derived from this context.
// Safe to call more than once; only the first call has an effect.
func (c *Context) Destroy() {
	c.once.Do(c.cancel)
}

// Done returns a channel closed once the context has been destroyed.
func (c *Context) Done() <-chan struct{} {
	return c.ctx.Done()
}

// terminated reports whether the context has been destroyed.
func (c *Context) terminated() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// normalizeErr maps an underlying fabric error to ErrTerminated when the
// context backing the socket has been destroyed, so callers only ever see
// one sentinel for shutdown instead of whatever context.Canceled-flavoured
// error the transport happened to produce.
func (c *Context) normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	if c.terminated() || errors.Is(err, context.Canceled) {
		return ErrTerminated
	}
	return err
}
