// Package pb implements the wire messages listed in schema.proto by hand,
// against the protowire-based helpers in internal/wire, since no protoc
// invocation happens anywhere in this build. Every message's field numbers
// match schema.proto exactly; keep the two in sync by hand when either
// changes.
package pb

import "fmt"

// EntityType distinguishes the two kinds of entity participating in the
// system.
type EntityType int32

const (
	EntityTypeSensor   EntityType = 0
	EntityTypeActuator EntityType = 1
)

func (t EntityType) String() string {
	switch t {
	case EntityTypeSensor:
		return "Sensor"
	case EntityTypeActuator:
		return "Actuator"
	default:
		return fmt.Sprintf("EntityType(%d)", int32(t))
	}
}

// Code is the outcome reported back on a request/reply exchange.
type Code int32

const (
	CodeOk    Code = 0
	CodeError Code = 1
)

func (c Code) String() string {
	if c == CodeOk {
		return "Ok"
	}
	return "Error"
}
