package pb

import (
	"fmt"

	"github.com/ede1998/home-automation/internal/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// SensorValue is the oneof carried by SensorMeasurement: exactly one of
// Temperature or Humidity.
type SensorValue interface {
	isSensorValue()
}

// Temperature is a sensor reading in the measurement's declared unit.
type Temperature struct {
	Value float32
}

// Humidity is a sensor reading in the measurement's declared unit.
type Humidity struct {
	Value float32
}

func (Temperature) isSensorValue() {}
func (Humidity) isSensorValue()    {}

const (
	sensorMeasurementFieldUnit        = protowire.Number(1)
	sensorMeasurementFieldTemperature = protowire.Number(2)
	sensorMeasurementFieldHumidity    = protowire.Number(3)
)

// SensorMeasurement is a single sample published by a sensor entity.
type SensorMeasurement struct {
	Unit  string
	Value SensorValue
}

func (*SensorMeasurement) TypeName() string { return "SensorMeasurement" }

func (m *SensorMeasurement) MarshalWire() ([]byte, error) {
	var b []byte
	b = wire.AppendString(b, sensorMeasurementFieldUnit, m.Unit)
	switch v := m.Value.(type) {
	case Temperature:
		b = wire.AppendFixed32(b, sensorMeasurementFieldTemperature, v.Value)
	case Humidity:
		b = wire.AppendFixed32(b, sensorMeasurementFieldHumidity, v.Value)
	default:
		return nil, fmt.Errorf("pb: SensorMeasurement: missing value")
	}
	return b, nil
}

func (m *SensorMeasurement) UnmarshalWire(b []byte) error {
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: SensorMeasurement: %w", err)
		}
		b = b[n:]
		switch num {
		case sensorMeasurementFieldUnit:
			s, n, err := wire.ConsumeString(b)
			if err != nil {
				return fmt.Errorf("pb: SensorMeasurement.unit: %w", err)
			}
			m.Unit = s
			b = b[n:]
		case sensorMeasurementFieldTemperature:
			v, n, err := wire.ConsumeFixed32(b)
			if err != nil {
				return fmt.Errorf("pb: SensorMeasurement.temperature: %w", err)
			}
			m.Value = Temperature{Value: v}
			b = b[n:]
		case sensorMeasurementFieldHumidity:
			v, n, err := wire.ConsumeFixed32(b)
			if err != nil {
				return fmt.Errorf("pb: SensorMeasurement.humidity: %w", err)
			}
			m.Value = Humidity{Value: v}
			b = b[n:]
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: SensorMeasurement: %w", err)
			}
			b = b[n:]
		}
	}
	if m.Value == nil {
		return fmt.Errorf("pb: SensorMeasurement: missing value")
	}
	return nil
}
