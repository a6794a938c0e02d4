package pb

import (
	"fmt"

	"github.com/ede1998/home-automation/internal/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	systemStateFieldSensors      = protowire.Number(1)
	systemStateFieldActuators    = protowire.Number(2)
	systemStateFieldNewSensors   = protowire.Number(3)
	systemStateFieldNewActuators = protowire.Number(4)

	mapEntryFieldKey   = protowire.Number(1)
	mapEntryFieldValue = protowire.Number(2)
)

// SystemState is a full snapshot of the registry returned by a client API
// Query. Sensors and Actuators hold the latest sample of every entity that
// has published one; NewSensors and NewActuators name the registered
// entities the registry has not yet received a sample for. A name appears in
// only one of the four buckets.
type SystemState struct {
	Sensors      map[string]*SensorMeasurement
	Actuators    map[string]*ActuatorState
	NewSensors   []string
	NewActuators []string
}

func (*SystemState) TypeName() string { return "SystemState" }

func (m *SystemState) MarshalWire() ([]byte, error) {
	var b []byte
	for name, sample := range m.Sensors {
		inner, err := sample.MarshalWire()
		if err != nil {
			return nil, fmt.Errorf("pb: SystemState.sensors[%s]: %w", name, err)
		}
		entry := wire.AppendString(nil, mapEntryFieldKey, name)
		entry = wire.AppendMessage(entry, mapEntryFieldValue, inner)
		b = wire.AppendMessage(b, systemStateFieldSensors, entry)
	}
	for name, state := range m.Actuators {
		inner, err := state.MarshalWire()
		if err != nil {
			return nil, fmt.Errorf("pb: SystemState.actuators[%s]: %w", name, err)
		}
		entry := wire.AppendString(nil, mapEntryFieldKey, name)
		entry = wire.AppendMessage(entry, mapEntryFieldValue, inner)
		b = wire.AppendMessage(b, systemStateFieldActuators, entry)
	}
	for _, name := range m.NewSensors {
		b = wire.AppendString(b, systemStateFieldNewSensors, name)
	}
	for _, name := range m.NewActuators {
		b = wire.AppendString(b, systemStateFieldNewActuators, name)
	}
	return b, nil
}

func (m *SystemState) UnmarshalWire(b []byte) error {
	if m.Sensors == nil {
		m.Sensors = make(map[string]*SensorMeasurement)
	}
	if m.Actuators == nil {
		m.Actuators = make(map[string]*ActuatorState)
	}
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: SystemState: %w", err)
		}
		b = b[n:]
		switch num {
		case systemStateFieldSensors:
			entry, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: SystemState.sensors: %w", err)
			}
			b = b[n:]
			key, value, err := unmarshalMapEntry(entry, func(v []byte) (any, error) {
				sm := &SensorMeasurement{}
				return sm, sm.UnmarshalWire(v)
			})
			if err != nil {
				return fmt.Errorf("pb: SystemState.sensors: %w", err)
			}
			m.Sensors[key] = value.(*SensorMeasurement)
		case systemStateFieldActuators:
			entry, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: SystemState.actuators: %w", err)
			}
			b = b[n:]
			key, value, err := unmarshalMapEntry(entry, func(v []byte) (any, error) {
				as := &ActuatorState{}
				return as, as.UnmarshalWire(v)
			})
			if err != nil {
				return fmt.Errorf("pb: SystemState.actuators: %w", err)
			}
			m.Actuators[key] = value.(*ActuatorState)
		case systemStateFieldNewSensors:
			s, n, err := wire.ConsumeString(b)
			if err != nil {
				return fmt.Errorf("pb: SystemState.new_sensors: %w", err)
			}
			m.NewSensors = append(m.NewSensors, s)
			b = b[n:]
		case systemStateFieldNewActuators:
			s, n, err := wire.ConsumeString(b)
			if err != nil {
				return fmt.Errorf("pb: SystemState.new_actuators: %w", err)
			}
			m.NewActuators = append(m.NewActuators, s)
			b = b[n:]
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: SystemState: %w", err)
			}
			b = b[n:]
		}
	}
	return nil
}

// unmarshalMapEntry decodes a single string-keyed map entry whose value is
// an embedded message, delegating the value's own decoding to unmarshalValue.
func unmarshalMapEntry(b []byte, unmarshalValue func([]byte) (any, error)) (key string, value any, err error) {
	var rawValue []byte
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return "", nil, err
		}
		b = b[n:]
		switch num {
		case mapEntryFieldKey:
			key, n, err = wire.ConsumeString(b)
			if err != nil {
				return "", nil, err
			}
			b = b[n:]
		case mapEntryFieldValue:
			rawValue, n, err = wire.ConsumeBytes(b)
			if err != nil {
				return "", nil, err
			}
			b = b[n:]
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return "", nil, err
			}
			b = b[n:]
		}
	}
	value, err = unmarshalValue(rawValue)
	if err != nil {
		return "", nil, err
	}
	return key, value, nil
}
