package pb_test

import (
	"testing"

	"github.com/ede1998/home-automation/internal/pb"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestTopicRoundTripProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(params)

	nameGen := gen.RegexMatch(`[a-zA-Z][a-zA-Z0-9_]{0,15}`)

	properties.Property("sensor topic parses back to the same name", prop.ForAll(
		func(name string) bool {
			parsed, err := pb.ParseSensorTopic(pb.SensorTopic(name))
			return err == nil && parsed == name
		},
		nameGen,
	))

	properties.Property("actuator topic parses back to the same name", prop.ForAll(
		func(name string) bool {
			parsed, err := pb.ParseActuatorTopic(pb.ActuatorTopic(name))
			return err == nil && parsed == name
		},
		nameGen,
	))

	properties.TestingRun(t)
}

func TestParseSensorTopicRejectsMalformed(t *testing.T) {
	_, err := pb.ParseSensorTopic("/actuator_state/foo")
	require.Error(t, err)

	_, err = pb.ParseSensorTopic("/measurement/")
	require.Error(t, err)

	_, err = pb.ParseSensorTopic("garbage")
	require.Error(t, err)
}

func TestParseActuatorTopicRejectsMalformed(t *testing.T) {
	_, err := pb.ParseActuatorTopic("/measurement/foo")
	require.Error(t, err)

	_, err = pb.ParseActuatorTopic("/actuator_state/")
	require.Error(t, err)
}
