package timeout

import (
	"context"
	"testing"
	"time"

	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/registry"
	"github.com/ede1998/home-automation/internal/subscriber"
	"github.com/ede1998/home-automation/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func TestSweepEvictsOnlyStaleEntries(t *testing.T) {
	reg := registry.New()
	fresh, err := reg.Register("sen_fresh", pb.EntityTypeSensor, nil)
	require.NoError(t, err)
	stale, err := reg.Register("sen_stale", pb.EntityTypeSensor, nil)
	require.NoError(t, err)
	stale.Touch()

	commands := make(chan subscriber.Command, 4)
	task := New(reg, commands, telemetry.NewNoopLogger(), WithStalenessThreshold(time.Millisecond))

	// age both entries past the threshold, then refresh only fresh.
	time.Sleep(5 * time.Millisecond)
	fresh.Touch()

	task.sweep(context.Background())

	_, err = reg.Lookup("sen_stale")
	require.ErrorIs(t, err, registry.ErrNotRegistered)
	_, err = reg.Lookup("sen_fresh")
	require.NoError(t, err)

	select {
	case cmd := <-commands:
		require.Equal(t, subscriber.UnsubscribeCommand("/measurement/sen_stale"), cmd)
	default:
		t.Fatal("expected an unsubscribe command for the evicted entity")
	}
}
