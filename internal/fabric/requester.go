package fabric

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-zeromq/zmq4"
)

// Requester is a REQ socket that has not yet been connected to an endpoint.
type Requester struct {
	fctx    *Context
	sock    zmq4.Socket
	timeout time.Duration
}

// LinkedRequester is a REQ socket connected to an endpoint. REQ enforces
// strict send/receive alternation; mu serializes Request calls so a second
// Request never starts before the first reply has been read, and
// awaitingReply records whether an exchange is currently in flight.
type LinkedRequester struct {
	Requester
	endpoint string

	mu            sync.Mutex
	awaitingReply bool
}

// NewRequester creates a detached REQ socket on fctx. timeout bounds how
// long a single Request waits for its reply (spec: "the Requester exposes a
// configurable message-exchange timeout"); exceeding it returns
// ErrRequestTimeout rather than blocking forever.
func NewRequester(fctx *Context, timeout time.Duration) *Requester {
	return &Requester{fctx: fctx, sock: zmq4.NewReq(fctx.ctx, zmq4.WithTimeout(timeout)), timeout: timeout}
}

// Connect connects the requester to endpoint, transitioning it to Linked.
func (r *Requester) Connect(endpoint string) (*LinkedRequester, error) {
	if err := r.sock.Dial(endpoint); err != nil {
		return nil, fmt.Errorf("fabric: requester connect %s: %w", endpoint, r.fctx.normalizeErr(err))
	}
	return &LinkedRequester{Requester: *r, endpoint: endpoint}, nil
}

// Request sends payload and blocks for the corresponding reply, up to the
// requester's configured timeout. Concurrent callers are serialized: REQ
// only allows one outstanding request at a time.
//
// A timeout leaves the underlying REQ socket mid-exchange (it sent but never
// received), which would otherwise wedge every later call behind this
// abandoned one, so Request reconnects the socket before returning
// ErrRequestTimeout. The caller may retry.
func (r *LinkedRequester) Request(payload []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.sock.Send(zmq4.NewMsg(payload)); err != nil {
		return nil, fmt.Errorf("fabric: request send: %w", r.fctx.normalizeErr(err))
	}
	r.awaitingReply = true
	msg, err := r.sock.Recv()
	r.awaitingReply = false
	if err != nil {
		if isTimeout(err) {
			if rErr := r.reconnect(); rErr != nil {
				return nil, fmt.Errorf("fabric: request timed out, reconnect to %s failed: %w", r.endpoint, rErr)
			}
			return nil, ErrRequestTimeout
		}
		return nil, fmt.Errorf("fabric: request recv: %w", r.fctx.normalizeErr(err))
	}
	return msg.Bytes(), nil
}

// reconnect replaces the underlying socket with a fresh one dialed to the
// same endpoint, discarding whatever half-finished exchange timed out.
func (r *LinkedRequester) reconnect() error {
	_ = r.sock.Close()
	sock := zmq4.NewReq(r.fctx.ctx, zmq4.WithTimeout(r.timeout))
	if err := sock.Dial(r.endpoint); err != nil {
		return r.fctx.normalizeErr(err)
	}
	r.sock = sock
	r.awaitingReply = false
	return nil
}

// Close releases the underlying socket.
func (r *LinkedRequester) Close() error {
	return r.sock.Close()
}
