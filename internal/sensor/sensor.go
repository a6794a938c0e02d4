// Package sensor implements the Temperature and Humidity sensor kinds.
package sensor

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ede1998/home-automation/internal/pb"
)

// Kind names a sensor's measurement kind.
type Kind int

const (
	KindTemperature Kind = iota
	KindHumidity
)

func (k Kind) String() string {
	switch k {
	case KindTemperature:
		return "Temperature"
	case KindHumidity:
		return "Humidity"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind recovers a Kind from its CLI string form.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Temperature":
		return KindTemperature, nil
	case "Humidity":
		return KindHumidity, nil
	default:
		return 0, fmt.Errorf("sensor: unknown kind %q (allowed: Temperature, Humidity)", s)
	}
}

// Sensor is a single sensor entity, publishing randomly-generated
// measurements of its configured kind.
type Sensor struct {
	name string
	kind Kind
	rng  *rand.Rand
}

// New creates a sensor named "sen_<baseName>" of the given kind.
func New(baseName string, kind Kind) *Sensor {
	return &Sensor{
		name: "sen_" + baseName,
		kind: kind,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Sensor) Name() string             { return s.name }
func (s *Sensor) EntityType() pb.EntityType { return pb.EntityTypeSensor }
func (s *Sensor) TopicName() string         { return pb.SensorTopic(s.name) }

func (s *Sensor) RetrievePublishData() *pb.PublishData {
	var measurement *pb.SensorMeasurement
	switch s.kind {
	case KindHumidity:
		measurement = &pb.SensorMeasurement{
			Unit:  "%",
			Value: pb.Humidity{Value: float32(s.rng.Float64() * 100)},
		}
	default:
		measurement = &pb.SensorMeasurement{
			Unit:  "°C",
			Value: pb.Temperature{Value: float32(s.rng.Float64()*85 - 40)},
		}
	}
	return &pb.PublishData{SensorMeasurement: measurement}
}

func (s *Sensor) HandleIncomingData(data *pb.NamedEntityState) (time.Duration, error) {
	if data.EntityName != s.name {
		return 0, fmt.Errorf("sensor: message arrived at wrong sensor: expected %s, got %s", s.name, data.EntityName)
	}
	if data.SensorConfiguration == nil {
		return 0, fmt.Errorf("sensor: invalid payload for sensor %s", s.name)
	}
	hz := data.SensorConfiguration.UpdateFrequencyHz
	if hz <= 0 {
		return 0, fmt.Errorf("sensor: non-positive update frequency %v for %s", hz, s.name)
	}
	return time.Duration(float64(time.Second) / float64(hz)), nil
}
