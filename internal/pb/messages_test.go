package pb_test

import (
	"testing"

	"github.com/ede1998/home-automation/internal/pb"
	"github.com/stretchr/testify/require"
)

func TestEntityDiscoveryCommandRoundTrip(t *testing.T) {
	cases := []*pb.EntityDiscoveryCommand{
		{EntityName: "sen_a", EntityType: pb.EntityTypeSensor, Command: pb.Register{Port: 4242}},
		{EntityName: "sen_a", EntityType: pb.EntityTypeSensor, Command: pb.Heartbeat{}},
		{EntityName: "act_b", EntityType: pb.EntityTypeActuator, Command: pb.Unregister{}},
	}
	for _, want := range cases {
		b, err := want.MarshalWire()
		require.NoError(t, err)

		var got pb.EntityDiscoveryCommand
		require.NoError(t, got.UnmarshalWire(b))
		require.Equal(t, *want, got)
	}
}

func TestEntityDiscoveryCommandMissingCommandErrors(t *testing.T) {
	m := &pb.EntityDiscoveryCommand{EntityName: "x", EntityType: pb.EntityTypeSensor}
	_, err := m.MarshalWire()
	require.Error(t, err)
}

func TestSensorMeasurementRoundTrip(t *testing.T) {
	cases := []*pb.SensorMeasurement{
		{Unit: "°C", Value: pb.Temperature{Value: 22.5}},
		{Unit: "%", Value: pb.Humidity{Value: 55.2}},
	}
	for _, want := range cases {
		b, err := want.MarshalWire()
		require.NoError(t, err)

		var got pb.SensorMeasurement
		require.NoError(t, got.UnmarshalWire(b))
		require.Equal(t, *want, got)
	}
}

func TestActuatorStateRoundTrip(t *testing.T) {
	cases := []*pb.ActuatorState{
		{Value: pb.Light{Brightness: 40}},
		{Value: pb.AirConditioning{On: true}},
	}
	for _, want := range cases {
		b, err := want.MarshalWire()
		require.NoError(t, err)

		var got pb.ActuatorState
		require.NoError(t, got.UnmarshalWire(b))
		require.Equal(t, *want, got)
	}
}

func TestPublishDataRoundTrip(t *testing.T) {
	want := &pb.PublishData{SensorMeasurement: &pb.SensorMeasurement{Unit: "°C", Value: pb.Temperature{Value: 1}}}
	b, err := want.MarshalWire()
	require.NoError(t, err)

	var got pb.PublishData
	require.NoError(t, got.UnmarshalWire(b))
	require.Equal(t, want.SensorMeasurement, got.SensorMeasurement)
	require.Nil(t, got.ActuatorState)
}

func TestClientApiCommandRoundTrip(t *testing.T) {
	query := &pb.ClientApiCommand{Query: &pb.SystemStateQuery{}}
	b, err := query.MarshalWire()
	require.NoError(t, err)
	var gotQuery pb.ClientApiCommand
	require.NoError(t, gotQuery.UnmarshalWire(b))
	require.NotNil(t, gotQuery.Query)
	require.Nil(t, gotQuery.Action)

	action := &pb.ClientApiCommand{Action: &pb.NamedEntityState{
		EntityName:    "act_b",
		ActuatorState: &pb.ActuatorState{Value: pb.Light{Brightness: 40}},
	}}
	b, err = action.MarshalWire()
	require.NoError(t, err)
	var gotAction pb.ClientApiCommand
	require.NoError(t, gotAction.UnmarshalWire(b))
	require.Nil(t, gotAction.Query)
	require.Equal(t, action.Action.EntityName, gotAction.Action.EntityName)
	require.Equal(t, action.Action.ActuatorState, gotAction.Action.ActuatorState)
}

func TestSystemStateRoundTrip(t *testing.T) {
	want := &pb.SystemState{
		Sensors: map[string]*pb.SensorMeasurement{
			"sen_a": {Unit: "°C", Value: pb.Temperature{Value: 22.5}},
		},
		Actuators: map[string]*pb.ActuatorState{
			"act_b": {Value: pb.Light{Brightness: 40}},
		},
		NewSensors:   []string{"sen_a"},
		NewActuators: nil,
	}
	b, err := want.MarshalWire()
	require.NoError(t, err)

	var got pb.SystemState
	require.NoError(t, got.UnmarshalWire(b))
	require.Equal(t, want.Sensors, got.Sensors)
	require.Equal(t, want.Actuators, got.Actuators)
	require.Equal(t, want.NewSensors, got.NewSensors)
	require.Empty(t, got.NewActuators)
}

func TestSystemStateNeverDuplicatesNameAcrossBuckets(t *testing.T) {
	state := &pb.SystemState{
		Sensors:   map[string]*pb.SensorMeasurement{"a": {Unit: "x", Value: pb.Temperature{}}},
		Actuators: map[string]*pb.ActuatorState{"b": {Value: pb.AirConditioning{}}},
	}
	_, sensorOK := state.Sensors["b"]
	_, actuatorOK := state.Actuators["a"]
	require.False(t, sensorOK)
	require.False(t, actuatorOK)
}
