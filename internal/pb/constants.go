package pb

import "time"

const (
	// HeartbeatFrequency is the maximum interval between two heartbeats an
	// entity is expected to send.
	HeartbeatFrequency = 10 * time.Second

	// EvictionThreshold is how stale an entity's last heartbeat may get
	// before Timeout evicts it.
	EvictionThreshold = 2 * HeartbeatFrequency

	// DefaultPublishPeriod is how often an entity publishes a sample when
	// not otherwise configured.
	DefaultPublishPeriod = 1500 * time.Millisecond

	// ClientRPCTimeout bounds how long a Requester waits for a reply: the
	// controller's back-channel to an entity and an entity's requests to
	// Discovery. Exceeding it surfaces as a retryable timeout.
	ClientRPCTimeout = 800 * time.Millisecond
)
