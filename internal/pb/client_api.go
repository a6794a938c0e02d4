package pb

import (
	"fmt"

	"github.com/ede1998/home-automation/internal/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// SystemStateQuery asks the client API for a full snapshot of the registry.
// It carries no fields.
type SystemStateQuery struct{}

func (*SystemStateQuery) TypeName() string             { return "SystemStateQuery" }
func (*SystemStateQuery) MarshalWire() ([]byte, error)  { return nil, nil }
func (*SystemStateQuery) UnmarshalWire([]byte) error    { return nil }

const sensorConfigurationFieldFrequency = protowire.Number(1)

// SensorConfiguration requests a sensor change its publish frequency.
type SensorConfiguration struct {
	UpdateFrequencyHz float32
}

func (*SensorConfiguration) TypeName() string { return "SensorConfiguration" }

func (m *SensorConfiguration) MarshalWire() ([]byte, error) {
	return wire.AppendFixed32(nil, sensorConfigurationFieldFrequency, m.UpdateFrequencyHz), nil
}

func (m *SensorConfiguration) UnmarshalWire(b []byte) error {
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: SensorConfiguration: %w", err)
		}
		b = b[n:]
		switch num {
		case sensorConfigurationFieldFrequency:
			v, n, err := wire.ConsumeFixed32(b)
			if err != nil {
				return fmt.Errorf("pb: SensorConfiguration.update_frequency_hz: %w", err)
			}
			m.UpdateFrequencyHz = v
			b = b[n:]
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: SensorConfiguration: %w", err)
			}
			b = b[n:]
		}
	}
	return nil
}

const (
	namedEntityStateFieldName          = protowire.Number(1)
	namedEntityStateFieldActuatorState = protowire.Number(2)
	namedEntityStateFieldSensorConfig  = protowire.Number(3)
)

// NamedEntityState targets a state change (or current state) at a named
// entity: either a new actuator state, or a new sensor publish frequency.
type NamedEntityState struct {
	EntityName          string
	ActuatorState       *ActuatorState
	SensorConfiguration *SensorConfiguration
}

func (*NamedEntityState) TypeName() string { return "NamedEntityState" }

func (m *NamedEntityState) MarshalWire() ([]byte, error) {
	var b []byte
	b = wire.AppendString(b, namedEntityStateFieldName, m.EntityName)
	switch {
	case m.ActuatorState != nil:
		inner, err := m.ActuatorState.MarshalWire()
		if err != nil {
			return nil, err
		}
		b = wire.AppendMessage(b, namedEntityStateFieldActuatorState, inner)
	case m.SensorConfiguration != nil:
		inner, err := m.SensorConfiguration.MarshalWire()
		if err != nil {
			return nil, err
		}
		b = wire.AppendMessage(b, namedEntityStateFieldSensorConfig, inner)
	default:
		return nil, fmt.Errorf("pb: NamedEntityState: missing state")
	}
	return b, nil
}

func (m *NamedEntityState) UnmarshalWire(b []byte) error {
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: NamedEntityState: %w", err)
		}
		b = b[n:]
		switch num {
		case namedEntityStateFieldName:
			s, n, err := wire.ConsumeString(b)
			if err != nil {
				return fmt.Errorf("pb: NamedEntityState.entity_name: %w", err)
			}
			m.EntityName = s
			b = b[n:]
		case namedEntityStateFieldActuatorState:
			inner, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: NamedEntityState.actuator_state: %w", err)
			}
			b = b[n:]
			as := &ActuatorState{}
			if err := as.UnmarshalWire(inner); err != nil {
				return fmt.Errorf("pb: NamedEntityState.actuator_state: %w", err)
			}
			m.ActuatorState = as
		case namedEntityStateFieldSensorConfig:
			inner, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: NamedEntityState.sensor_configuration: %w", err)
			}
			b = b[n:]
			sc := &SensorConfiguration{}
			if err := sc.UnmarshalWire(inner); err != nil {
				return fmt.Errorf("pb: NamedEntityState.sensor_configuration: %w", err)
			}
			m.SensorConfiguration = sc
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: NamedEntityState: %w", err)
			}
			b = b[n:]
		}
	}
	if m.ActuatorState == nil && m.SensorConfiguration == nil {
		return fmt.Errorf("pb: NamedEntityState: missing state")
	}
	return nil
}

const (
	clientAPICommandFieldQuery  = protowire.Number(1)
	clientAPICommandFieldAction = protowire.Number(2)
)

// ClientApiCommand is the oneof a client sends to the client API socket:
// either a full-state query or a targeted action.
type ClientApiCommand struct {
	Query  *SystemStateQuery
	Action *NamedEntityState
}

func (*ClientApiCommand) TypeName() string { return "ClientApiCommand" }

func (m *ClientApiCommand) MarshalWire() ([]byte, error) {
	switch {
	case m.Query != nil:
		return wire.AppendMessage(nil, clientAPICommandFieldQuery, nil), nil
	case m.Action != nil:
		inner, err := m.Action.MarshalWire()
		if err != nil {
			return nil, err
		}
		return wire.AppendMessage(nil, clientAPICommandFieldAction, inner), nil
	default:
		return nil, fmt.Errorf("pb: ClientApiCommand: missing command")
	}
}

func (m *ClientApiCommand) UnmarshalWire(b []byte) error {
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: ClientApiCommand: %w", err)
		}
		b = b[n:]
		switch num {
		case clientAPICommandFieldQuery:
			_, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: ClientApiCommand.query: %w", err)
			}
			b = b[n:]
			m.Query = &SystemStateQuery{}
		case clientAPICommandFieldAction:
			inner, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: ClientApiCommand.action: %w", err)
			}
			b = b[n:]
			action := &NamedEntityState{}
			if err := action.UnmarshalWire(inner); err != nil {
				return fmt.Errorf("pb: ClientApiCommand.action: %w", err)
			}
			m.Action = action
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: ClientApiCommand: %w", err)
			}
			b = b[n:]
		}
	}
	if m.Query == nil && m.Action == nil {
		return fmt.Errorf("pb: ClientApiCommand: missing command")
	}
	return nil
}
