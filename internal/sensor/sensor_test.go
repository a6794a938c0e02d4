package sensor_test

import (
	"testing"

	"github.com/ede1998/home-automation/internal/pb"
	"github.com/ede1998/home-automation/internal/sensor"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := sensor.ParseKind("Temperature")
	require.NoError(t, err)
	require.Equal(t, sensor.KindTemperature, k)

	k, err = sensor.ParseKind("Humidity")
	require.NoError(t, err)
	require.Equal(t, sensor.KindHumidity, k)

	_, err = sensor.ParseKind("Pressure")
	require.Error(t, err)
}

func TestSensorNameAndTopic(t *testing.T) {
	s := sensor.New("kitchen", sensor.KindTemperature)
	require.Equal(t, "sen_kitchen", s.Name())
	require.Equal(t, pb.EntityTypeSensor, s.EntityType())
	require.Equal(t, "/measurement/sen_kitchen", s.TopicName())
}

func TestSensorPublishesDeclaredKind(t *testing.T) {
	temp := sensor.New("a", sensor.KindTemperature)
	data := temp.RetrievePublishData()
	require.NotNil(t, data.SensorMeasurement)
	require.IsType(t, pb.Temperature{}, data.SensorMeasurement.Value)
	require.Equal(t, "°C", data.SensorMeasurement.Unit)

	hum := sensor.New("b", sensor.KindHumidity)
	data = hum.RetrievePublishData()
	require.IsType(t, pb.Humidity{}, data.SensorMeasurement.Value)
	require.Equal(t, "%", data.SensorMeasurement.Unit)
}

func TestSensorRejectsMessageForWrongEntity(t *testing.T) {
	s := sensor.New("a", sensor.KindTemperature)
	_, err := s.HandleIncomingData(&pb.NamedEntityState{EntityName: "sen_b"})
	require.Error(t, err)
}

func TestSensorAppliesConfiguration(t *testing.T) {
	s := sensor.New("a", sensor.KindTemperature)
	d, err := s.HandleIncomingData(&pb.NamedEntityState{
		EntityName:          "sen_a",
		SensorConfiguration: &pb.SensorConfiguration{UpdateFrequencyHz: 2},
	})
	require.NoError(t, err)
	require.Equal(t, 500_000_000, int(d))
}

func TestSensorRejectsActuatorPayload(t *testing.T) {
	s := sensor.New("a", sensor.KindTemperature)
	_, err := s.HandleIncomingData(&pb.NamedEntityState{
		EntityName:    "sen_a",
		ActuatorState: &pb.ActuatorState{Value: pb.Light{Brightness: 1}},
	})
	require.Error(t, err)
}
