package fabric

import (
	"fmt"
	"time"

	"github.com/go-zeromq/zmq4"
)

// pollInterval bounds how long Receive blocks before returning
// ErrPollTimeout. The owning task drains pending subscription commands
// between polls, so this is the longest a Subscribe/Unsubscribe command can
// wait behind an idle socket before taking effect.
const pollInterval = 200 * time.Millisecond

// Subscriber is a SUB socket that has not yet been bound to an endpoint. The
// controller binds this socket; entities connect to it as publishers.
type Subscriber struct {
	fctx *Context
	sock zmq4.Socket
}

// LinkedSubscriber is a SUB socket bound to an endpoint, able to subscribe
// to topics and receive messages.
type LinkedSubscriber struct {
	Subscriber
	endpoint string
}

// NewSubscriber creates a detached SUB socket on fctx. Receive is bounded by
// pollInterval so a task that owns this socket alongside a command channel
// never blocks indefinitely waiting for a message that may never arrive on
// an as-yet-empty subscription set.
func NewSubscriber(fctx *Context) *Subscriber {
	return &Subscriber{fctx: fctx, sock: zmq4.NewSub(fctx.ctx, zmq4.WithTimeout(pollInterval))}
}

// Bind binds the subscriber to endpoint, transitioning it to Linked. No
// topics are subscribed to yet; call Subscribe to start receiving.
func (s *Subscriber) Bind(endpoint string) (*LinkedSubscriber, error) {
	if err := s.sock.Listen(endpoint); err != nil {
		return nil, fmt.Errorf("fabric: subscriber bind %s: %w", endpoint, s.fctx.normalizeErr(err))
	}
	return &LinkedSubscriber{Subscriber: *s, endpoint: endpoint}, nil
}

// Subscribe adds topic to the set of prefixes this socket receives.
func (s *LinkedSubscriber) Subscribe(topic string) error {
	if err := s.sock.SetOption(zmq4.OptionSubscribe, topic); err != nil {
		return fmt.Errorf("fabric: subscribe %s: %w", topic, s.fctx.normalizeErr(err))
	}
	return nil
}

// Unsubscribe removes topic from the set of prefixes this socket receives.
func (s *LinkedSubscriber) Unsubscribe(topic string) error {
	if err := s.sock.SetOption(zmq4.OptionUnsubscribe, topic); err != nil {
		return fmt.Errorf("fabric: unsubscribe %s: %w", topic, s.fctx.normalizeErr(err))
	}
	return nil
}

// Receive blocks until the next topic-prefixed message arrives, pollInterval
// elapses (returning ErrPollTimeout), or the fabric context is destroyed.
func (s *LinkedSubscriber) Receive() (topic string, payload []byte, err error) {
	msg, err := s.sock.Recv()
	if err != nil {
		if isTimeout(err) {
			return "", nil, ErrPollTimeout
		}
		return "", nil, fmt.Errorf("fabric: subscriber recv: %w", s.fctx.normalizeErr(err))
	}
	if len(msg.Frames) != 2 {
		return "", nil, fmt.Errorf("fabric: subscriber recv: expected 2 frames, got %d", len(msg.Frames))
	}
	return string(msg.Frames[0]), msg.Frames[1], nil
}

// Close releases the underlying socket.
func (s *LinkedSubscriber) Close() error {
	return s.sock.Close()
}
