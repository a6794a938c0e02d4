package fabric

import (
	"fmt"

	"github.com/go-zeromq/zmq4"
)

// Publisher is a PUB socket that has not yet been connected to an endpoint.
// An entity's publisher connects to the controller's bound Subscriber.
type Publisher struct {
	fctx *Context
	sock zmq4.Socket
}

// LinkedPublisher is a PUB socket connected to an endpoint, able to publish.
type LinkedPublisher struct {
	Publisher
	endpoint string
}

// NewPublisher creates a detached PUB socket on fctx.
func NewPublisher(fctx *Context) *Publisher {
	return &Publisher{fctx: fctx, sock: zmq4.NewPub(fctx.ctx)}
}

// Connect connects the publisher to endpoint, transitioning it to Linked.
func (p *Publisher) Connect(endpoint string) (*LinkedPublisher, error) {
	if err := p.sock.Dial(endpoint); err != nil {
		return nil, fmt.Errorf("fabric: publisher connect %s: %w", endpoint, p.fctx.normalizeErr(err))
	}
	return &LinkedPublisher{Publisher: *p, endpoint: endpoint}, nil
}

// Publish sends a topic-prefixed message frame. The topic is sent as a
// separate frame so subscribers can filter on it without decoding the
// payload.
func (p *LinkedPublisher) Publish(topic string, payload []byte) error {
	msg := zmq4.NewMsgFrom([]byte(topic), payload)
	if err := p.sock.Send(msg); err != nil {
		return fmt.Errorf("fabric: publish %s: %w", topic, p.fctx.normalizeErr(err))
	}
	return nil
}

// Close releases the underlying socket.
func (p *LinkedPublisher) Close() error {
	return p.sock.Close()
}
