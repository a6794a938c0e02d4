package actuator_test

import (
	"testing"

	"github.com/ede1998/home-automation/internal/actuator"
	"github.com/ede1998/home-automation/internal/pb"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := actuator.ParseKind("Light")
	require.NoError(t, err)
	require.Equal(t, actuator.KindLight, k)

	_, err = actuator.ParseKind("Heater")
	require.Error(t, err)
}

func TestActuatorNameAndTopic(t *testing.T) {
	a := actuator.New("livingroom", actuator.KindLight)
	require.Equal(t, "act_livingroom", a.Name())
	require.Equal(t, pb.EntityTypeActuator, a.EntityType())
	require.Equal(t, "/actuator_state/act_livingroom", a.TopicName())
}

func TestActuatorAppliesMatchingKind(t *testing.T) {
	a := actuator.New("livingroom", actuator.KindLight)
	_, err := a.HandleIncomingData(&pb.NamedEntityState{
		EntityName:    "act_livingroom",
		ActuatorState: &pb.ActuatorState{Value: pb.Light{Brightness: 40}},
	})
	require.NoError(t, err)

	data := a.RetrievePublishData()
	require.Equal(t, pb.Light{Brightness: 40}, data.ActuatorState.Value)
}

func TestActuatorRejectsMismatchedKind(t *testing.T) {
	a := actuator.New("livingroom", actuator.KindLight)
	_, err := a.HandleIncomingData(&pb.NamedEntityState{
		EntityName:    "act_livingroom",
		ActuatorState: &pb.ActuatorState{Value: pb.AirConditioning{On: true}},
	})
	require.Error(t, err)

	// the row must be left untouched after a rejected update
	data := a.RetrievePublishData()
	require.Equal(t, pb.Light{Brightness: 0}, data.ActuatorState.Value)
}

func TestActuatorRejectsMessageForWrongEntity(t *testing.T) {
	a := actuator.New("livingroom", actuator.KindLight)
	_, err := a.HandleIncomingData(&pb.NamedEntityState{EntityName: "act_other"})
	require.Error(t, err)
}
