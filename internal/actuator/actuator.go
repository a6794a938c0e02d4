// Package actuator implements the Light and AirConditioning actuator
// kinds.
package actuator

import (
	"fmt"
	"sync"
	"time"

	"github.com/ede1998/home-automation/internal/pb"
)

// Kind names an actuator's state kind.
type Kind int

const (
	KindLight Kind = iota
	KindAirConditioning
)

func (k Kind) String() string {
	switch k {
	case KindLight:
		return "Light"
	case KindAirConditioning:
		return "AirConditioning"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind recovers a Kind from its CLI string form.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Light":
		return KindLight, nil
	case "AirConditioning":
		return KindAirConditioning, nil
	default:
		return 0, fmt.Errorf("actuator: unknown kind %q (allowed: Light, AirConditioning)", s)
	}
}

func kindOf(v pb.ActuatorValue) Kind {
	switch v.(type) {
	case pb.AirConditioning:
		return KindAirConditioning
	default:
		return KindLight
	}
}

func zeroValue(kind Kind) pb.ActuatorValue {
	if kind == KindAirConditioning {
		return pb.AirConditioning{}
	}
	return pb.Light{}
}

// Actuator is a single actuator entity holding mutable state of one fixed
// kind, applied over its back-channel.
type Actuator struct {
	name string

	mu    sync.RWMutex
	state pb.ActuatorValue
}

// New creates an actuator named "act_<baseName>" of the given kind, starting
// in its zero state.
func New(baseName string, kind Kind) *Actuator {
	return &Actuator{name: "act_" + baseName, state: zeroValue(kind)}
}

func (a *Actuator) Name() string             { return a.name }
func (a *Actuator) EntityType() pb.EntityType { return pb.EntityTypeActuator }
func (a *Actuator) TopicName() string         { return pb.ActuatorTopic(a.name) }

func (a *Actuator) RetrievePublishData() *pb.PublishData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return &pb.PublishData{ActuatorState: &pb.ActuatorState{Value: a.state}}
}

func (a *Actuator) HandleIncomingData(data *pb.NamedEntityState) (time.Duration, error) {
	if data.EntityName != a.name {
		return 0, fmt.Errorf("actuator: message arrived at wrong actuator: expected %s, got %s", a.name, data.EntityName)
	}

	switch {
	case data.ActuatorState != nil:
		a.mu.Lock()
		defer a.mu.Unlock()
		oldKind, newKind := kindOf(a.state), kindOf(data.ActuatorState.Value)
		if oldKind != newKind {
			return 0, fmt.Errorf("actuator: incompatible state kind %s received for %s", newKind, oldKind)
		}
		a.state = data.ActuatorState.Value
		return 0, nil
	case data.SensorConfiguration != nil:
		hz := data.SensorConfiguration.UpdateFrequencyHz
		if hz <= 0 {
			return 0, fmt.Errorf("actuator: non-positive update frequency %v for %s", hz, a.name)
		}
		return time.Duration(float64(time.Second) / float64(hz)), nil
	default:
		return 0, fmt.Errorf("actuator: invalid payload for %s", a.name)
	}
}
