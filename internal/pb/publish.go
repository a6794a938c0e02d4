package pb

import (
	"fmt"

	"github.com/ede1998/home-automation/internal/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	publishDataFieldSensorMeasurement = protowire.Number(1)
	publishDataFieldActuatorState     = protowire.Number(2)
)

// PublishData is the payload published on an entity's data topic: either a
// sensor sample or an actuator state snapshot.
type PublishData struct {
	SensorMeasurement *SensorMeasurement
	ActuatorState     *ActuatorState
}

func (*PublishData) TypeName() string { return "PublishData" }

func (m *PublishData) MarshalWire() ([]byte, error) {
	switch {
	case m.SensorMeasurement != nil:
		inner, err := m.SensorMeasurement.MarshalWire()
		if err != nil {
			return nil, err
		}
		return wire.AppendMessage(nil, publishDataFieldSensorMeasurement, inner), nil
	case m.ActuatorState != nil:
		inner, err := m.ActuatorState.MarshalWire()
		if err != nil {
			return nil, err
		}
		return wire.AppendMessage(nil, publishDataFieldActuatorState, inner), nil
	default:
		return nil, fmt.Errorf("pb: PublishData: missing value")
	}
}

func (m *PublishData) UnmarshalWire(b []byte) error {
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: PublishData: %w", err)
		}
		b = b[n:]
		switch num {
		case publishDataFieldSensorMeasurement:
			inner, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: PublishData.sensor_measurement: %w", err)
			}
			b = b[n:]
			sm := &SensorMeasurement{}
			if err := sm.UnmarshalWire(inner); err != nil {
				return fmt.Errorf("pb: PublishData.sensor_measurement: %w", err)
			}
			m.SensorMeasurement = sm
		case publishDataFieldActuatorState:
			inner, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: PublishData.actuator_state: %w", err)
			}
			b = b[n:]
			as := &ActuatorState{}
			if err := as.UnmarshalWire(inner); err != nil {
				return fmt.Errorf("pb: PublishData.actuator_state: %w", err)
			}
			m.ActuatorState = as
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: PublishData: %w", err)
			}
			b = b[n:]
		}
	}
	if m.SensorMeasurement == nil && m.ActuatorState == nil {
		return fmt.Errorf("pb: PublishData: missing value")
	}
	return nil
}
