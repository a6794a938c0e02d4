package pb

import (
	"fmt"

	"github.com/ede1998/home-automation/internal/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// ActuatorValue is the oneof carried by ActuatorState: exactly one of Light
// or AirConditioning.
type ActuatorValue interface {
	isActuatorValue()
}

// Light is the state of a dimmable light actuator.
type Light struct {
	Brightness float32
}

// AirConditioning is the state of an on/off air conditioning actuator.
type AirConditioning struct {
	On bool
}

func (Light) isActuatorValue()           {}
func (AirConditioning) isActuatorValue() {}

const (
	actuatorStateFieldLight           = protowire.Number(1)
	actuatorStateFieldAirConditioning = protowire.Number(2)

	lightFieldBrightness   = protowire.Number(1)
	airConditioningFieldOn = protowire.Number(1)
)

// ActuatorState is the current or commanded state of an actuator entity.
type ActuatorState struct {
	Value ActuatorValue
}

func (*ActuatorState) TypeName() string { return "ActuatorState" }

func (m *ActuatorState) MarshalWire() ([]byte, error) {
	var b []byte
	switch v := m.Value.(type) {
	case Light:
		inner := wire.AppendFixed32(nil, lightFieldBrightness, v.Brightness)
		b = wire.AppendMessage(b, actuatorStateFieldLight, inner)
	case AirConditioning:
		inner := wire.AppendBool(nil, airConditioningFieldOn, v.On)
		b = wire.AppendMessage(b, actuatorStateFieldAirConditioning, inner)
	default:
		return nil, fmt.Errorf("pb: ActuatorState: missing value")
	}
	return b, nil
}

func (m *ActuatorState) UnmarshalWire(b []byte) error {
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: ActuatorState: %w", err)
		}
		b = b[n:]
		switch num {
		case actuatorStateFieldLight:
			inner, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: ActuatorState.light: %w", err)
			}
			b = b[n:]
			light, err := unmarshalLight(inner)
			if err != nil {
				return fmt.Errorf("pb: ActuatorState.light: %w", err)
			}
			m.Value = light
		case actuatorStateFieldAirConditioning:
			inner, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: ActuatorState.air_conditioning: %w", err)
			}
			b = b[n:]
			ac, err := unmarshalAirConditioning(inner)
			if err != nil {
				return fmt.Errorf("pb: ActuatorState.air_conditioning: %w", err)
			}
			m.Value = ac
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: ActuatorState: %w", err)
			}
			b = b[n:]
		}
	}
	if m.Value == nil {
		return fmt.Errorf("pb: ActuatorState: missing value")
	}
	return nil
}

func unmarshalLight(b []byte) (Light, error) {
	var l Light
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return Light{}, err
		}
		b = b[n:]
		switch num {
		case lightFieldBrightness:
			v, n, err := wire.ConsumeFixed32(b)
			if err != nil {
				return Light{}, err
			}
			l.Brightness = v
			b = b[n:]
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return Light{}, err
			}
			b = b[n:]
		}
	}
	return l, nil
}

func unmarshalAirConditioning(b []byte) (AirConditioning, error) {
	var ac AirConditioning
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return AirConditioning{}, err
		}
		b = b[n:]
		switch num {
		case airConditioningFieldOn:
			v, n, err := wire.ConsumeBool(b)
			if err != nil {
				return AirConditioning{}, err
			}
			ac.On = v
			b = b[n:]
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return AirConditioning{}, err
			}
			b = b[n:]
		}
	}
	return ac, nil
}
