package clientapi

import (
	"testing"

	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/registry"
	"github.com/stretchr/testify/require"
)

func TestQueryReportsUnsampledEntitiesSeparately(t *testing.T) {
	reg := registry.New()
	_, err := reg.Register("sen_a", pb.EntityTypeSensor, nil)
	require.NoError(t, err)
	_, err = reg.Register("act_b", pb.EntityTypeActuator, nil)
	require.NoError(t, err)

	task := &Task{registry: reg}
	state := task.query()

	require.Empty(t, state.Sensors)
	require.Empty(t, state.Actuators)
	require.Equal(t, []string{"sen_a"}, state.NewSensors)
	require.Equal(t, []string{"act_b"}, state.NewActuators)
}

func TestQueryMovesEntityOutOfNewBucketOnceSampled(t *testing.T) {
	reg := registry.New()
	entry, err := reg.Register("sen_a", pb.EntityTypeSensor, nil)
	require.NoError(t, err)
	entry.SetSample(&pb.PublishData{SensorMeasurement: &pb.SensorMeasurement{Unit: "°C", Value: pb.Temperature{Value: 22.5}}})

	task := &Task{registry: reg}
	state := task.query()

	require.Empty(t, state.NewSensors)
	require.Equal(t, pb.Temperature{Value: 22.5}, state.Sensors["sen_a"].Value)
}

func TestQueryNeverDuplicatesNameAcrossBuckets(t *testing.T) {
	reg := registry.New()
	_, err := reg.Register("a", pb.EntityTypeSensor, nil)
	require.NoError(t, err)

	task := &Task{registry: reg}
	state := task.query()

	_, inActuators := state.Actuators["a"]
	require.False(t, inActuators)
	require.Contains(t, state.NewSensors, "a")
}
