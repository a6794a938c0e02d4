package registry_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/registry"
	"github.com/stretchr/testify/require"
)

// TestConcurrentRegisterUniqueness exercises the registry-uniqueness
// property: two concurrent registrations for the same name must produce
// exactly one success and one failure.
func TestConcurrentRegisterUniqueness(t *testing.T) {
	r := registry.New()

	var successes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Register("sen_a", pb.EntityTypeSensor, nil); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), successes.Load())
	require.Len(t, r.Snapshot(), 1)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := registry.New()
	_, err := r.Register("sen_a", pb.EntityTypeSensor, nil)
	require.NoError(t, err)

	_, err = r.Register("sen_a", pb.EntityTypeSensor, nil)
	require.ErrorIs(t, err, registry.ErrAlreadyRegistered)
}

func TestLookupUnknownEntity(t *testing.T) {
	r := registry.New()
	_, err := r.Lookup("missing")
	require.ErrorIs(t, err, registry.ErrNotRegistered)
}

func TestHeartbeatUnknownEntity(t *testing.T) {
	r := registry.New()
	err := r.Heartbeat("missing")
	require.ErrorIs(t, err, registry.ErrNotRegistered)
}

func TestHeartbeatUpdatesLastSeen(t *testing.T) {
	r := registry.New()
	entry, err := r.Register("sen_a", pb.EntityTypeSensor, nil)
	require.NoError(t, err)

	before := entry.LastHeartbeat()
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, r.Heartbeat("sen_a"))
	require.True(t, entry.LastHeartbeat().After(before))
}

func TestStaleEntryDetection(t *testing.T) {
	r := registry.New()
	entry, err := r.Register("sen_a", pb.EntityTypeSensor, nil)
	require.NoError(t, err)

	require.False(t, entry.Stale(time.Hour, time.Now()))
	require.True(t, entry.Stale(time.Millisecond, time.Now().Add(time.Second)))
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Unregister("never-registered"))

	_, err := r.Register("sen_a", pb.EntityTypeSensor, nil)
	require.NoError(t, err)
	require.NoError(t, r.Unregister("sen_a"))
	require.NoError(t, r.Unregister("sen_a"))

	_, err = r.Lookup("sen_a")
	require.ErrorIs(t, err, registry.ErrNotRegistered)
}

func TestSnapshotNeverSharesNameAcrossTypes(t *testing.T) {
	r := registry.New()
	_, err := r.Register("a", pb.EntityTypeSensor, nil)
	require.NoError(t, err)
	_, err = r.Register("b", pb.EntityTypeActuator, nil)
	require.NoError(t, err)

	seen := map[string]pb.EntityType{}
	for _, e := range r.Snapshot() {
		_, dup := seen[e.Name]
		require.False(t, dup, "name %s appeared twice in snapshot", e.Name)
		seen[e.Name] = e.Type
	}
}
