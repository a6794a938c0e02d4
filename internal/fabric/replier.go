package fabric

import (
	"fmt"
	"net"

	"github.com/go-zeromq/zmq4"
)

// Replier is a REP socket that has not yet been bound to an endpoint.
type Replier struct {
	fctx *Context
	sock zmq4.Socket
}

// LinkedReplier is a REP socket bound to an endpoint.
type LinkedReplier struct {
	Replier
	endpoint string
}

// Request is a request read from a Replier, together with the remote peer's
// address as reported by the transport. PeerAddress is the bare host part
// (no port) of the connection the request arrived on; it is empty if the
// transport did not report one (e.g. inproc).
type Request struct {
	Payload     []byte
	PeerAddress string
}

// peerAddressProperty is the zmq4 message metadata key carrying the remote
// peer's address, mirroring ZMQ_PEER_ADDRESS in the original source.
const peerAddressProperty = "Peer-Address"

// NewReplier creates a detached REP socket on fctx.
func NewReplier(fctx *Context) *Replier {
	return &Replier{fctx: fctx, sock: zmq4.NewRep(fctx.ctx)}
}

// Bind binds the replier to endpoint, transitioning it to Linked.
func (r *Replier) Bind(endpoint string) (*LinkedReplier, error) {
	if err := r.sock.Listen(endpoint); err != nil {
		return nil, fmt.Errorf("fabric: replier bind %s: %w", endpoint, r.fctx.normalizeErr(err))
	}
	return &LinkedReplier{Replier: *r, endpoint: endpoint}, nil
}

// Receive blocks for the next request. REP enforces strict alternation: the
// caller must call Reply before calling Receive again.
func (r *LinkedReplier) Receive() (Request, error) {
	msg, err := r.sock.Recv()
	if err != nil {
		return Request{}, fmt.Errorf("fabric: replier recv: %w", r.fctx.normalizeErr(err))
	}
	return Request{
		Payload:     msg.Bytes(),
		PeerAddress: msg.Properties()[peerAddressProperty],
	}, nil
}

// Port returns the TCP port the replier is actually listening on, resolving
// a wildcard bind address such as "tcp://*:*" to its ephemeral port. This
// lets an entity bind its own update socket to an OS-assigned port and
// advertise it to Discovery without a separate configuration entry.
func (r *LinkedReplier) Port() (uint32, error) {
	addr, ok := r.sock.Addr().(*net.TCPAddr)
	if !ok || addr == nil {
		return 0, fmt.Errorf("fabric: replier %s has no TCP listen address", r.endpoint)
	}
	return uint32(addr.Port), nil
}

// Reply sends payload back to the peer that issued the most recent Receive.
func (r *LinkedReplier) Reply(payload []byte) error {
	if err := r.sock.Send(zmq4.NewMsg(payload)); err != nil {
		return fmt.Errorf("fabric: replier reply: %w", r.fctx.normalizeErr(err))
	}
	return nil
}

// Close releases the underlying socket.
func (r *LinkedReplier) Close() error {
	return r.sock.Close()
}
