// Package registry tracks every entity currently known to the controller:
// its kind, its last published sample, its back-channel connection, and the
// last time it was heard from.
//
// The registry intentionally avoids a single global lock: membership
// (insert/remove/snapshot) is guarded by one RWMutex, but each Entry owns
// its own mutex around its back-channel Requester and its own atomic
// heartbeat timestamp, so Discovery, Subscriber, Client API and Timeout
// never serialize through one another for unrelated rows.
package registry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ede1998/home-automation/internal/fabric"
	"github.com/ede1998/home-automation/internal/pb"
)

// Entry is one row of the registry: everything known about a single entity.
type Entry struct {
	Name string
	Type pb.EntityType

	// backChannel is the back-channel Requester connected to the entity's
	// reply socket. mu serializes send+receive across it, since REQ enforces
	// strict alternation and a concurrent Action/eviction race must not
	// interleave two exchanges.
	mu          sync.Mutex
	backChannel *fabric.LinkedRequester

	// heartbeatNano is the UnixNano timestamp of the last heartbeat or
	// registration, read and written without holding mu so a heartbeat
	// never contends with an in-flight back-channel exchange.
	heartbeatNano atomic.Int64

	// sample holds the most recently published value, or nil if no sample
	// has arrived yet. Guarded by sampleMu, independent of mu so Subscriber
	// writes never block a concurrent back-channel Action.
	sampleMu sync.Mutex
	sample   *pb.PublishData
}

func newEntry(name string, typ pb.EntityType, backChannel *fabric.LinkedRequester) *Entry {
	e := &Entry{Name: name, Type: typ, backChannel: backChannel}
	e.Touch()
	return e
}

// Touch records a heartbeat (or registration) at the current time.
func (e *Entry) Touch() {
	e.heartbeatNano.Store(time.Now().UnixNano())
}

// LastHeartbeat returns the time of the last recorded heartbeat.
func (e *Entry) LastHeartbeat() time.Time {
	return time.Unix(0, e.heartbeatNano.Load())
}

// Stale reports whether the entry's last heartbeat is older than threshold.
func (e *Entry) Stale(threshold time.Duration, now time.Time) bool {
	return now.Sub(e.LastHeartbeat()) > threshold
}

// SetSample records the most recent published value.
func (e *Entry) SetSample(data *pb.PublishData) {
	e.sampleMu.Lock()
	defer e.sampleMu.Unlock()
	e.sample = data
}

// Sample returns the most recent published value, or nil if none has
// arrived yet.
func (e *Entry) Sample() *pb.PublishData {
	e.sampleMu.Lock()
	defer e.sampleMu.Unlock()
	return e.sample
}

// Forward sends payload over the entry's back-channel and returns the
// entity's reply, holding the entry's lock for the full exchange so a
// concurrent Forward call waits its turn rather than interleaving with this
// one (spec property: back-channel serialization). The back-channel's own
// configured timeout bounds the wait; a timed-out exchange surfaces as
// fabric.ErrRequestTimeout and never touches the row itself — liveness is
// solely Timeout's job.
func (e *Entry) Forward(_ context.Context, payload []byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backChannel.Request(payload)
}

// Close releases the entry's back-channel socket. A nil back-channel (as
// used by tests that never open a real socket) is a no-op.
func (e *Entry) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.backChannel == nil {
		return nil
	}
	return e.backChannel.Close()
}

// Registry is the concurrent, in-memory map of every known entity.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register inserts a new entry for name, failing if one already exists.
// Two concurrent Register calls for the same name are guaranteed to produce
// exactly one success and one ErrAlreadyRegistered.
func (r *Registry) Register(name string, typ pb.EntityType, backChannel *fabric.LinkedRequester) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	entry := newEntry(name, typ, backChannel)
	r.entries[name] = entry
	return entry, nil
}

// Lookup returns the entry for name, or ErrNotRegistered if none exists.
func (r *Registry) Lookup(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return entry, nil
}

// Heartbeat records a heartbeat for name, failing if it is not registered.
func (r *Registry) Heartbeat(name string) error {
	entry, err := r.Lookup(name)
	if err != nil {
		return err
	}
	entry.Touch()
	return nil
}

// Unregister removes name from the registry and closes its back-channel.
// Removing a name that is not present is not an error: duplicate concurrent
// Unregister calls are treated idempotently.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	entry, ok := r.entries[name]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	delete(r.entries, name)
	r.mu.Unlock()
	return entry.Close()
}

// Snapshot returns every currently registered entry. The returned slice is
// a point-in-time copy; mutating the registry afterward does not affect it.
func (r *Registry) Snapshot() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}

// Names returns the set of currently registered entity names.
func (r *Registry) Names() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]struct{}, len(r.entries))
	for name := range r.entries {
		out[name] = struct{}{}
	}
	return out
}
