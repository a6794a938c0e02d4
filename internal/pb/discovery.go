package pb

import (
	"fmt"

	"github.com/ede1998/home-automation/internal/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// DiscoveryCommand is the oneof carried by EntityDiscoveryCommand: exactly
// one of Register, Heartbeat or Unregister.
type DiscoveryCommand interface {
	isDiscoveryCommand()
}

// Register requests a new entity be added to the registry, naming the port
// its back-channel Replier is listening on.
type Register struct {
	Port uint32
}

// Heartbeat keeps an already-registered entity alive.
type Heartbeat struct{}

// Unregister removes an entity from the registry.
type Unregister struct{}

func (Register) isDiscoveryCommand()   {}
func (Heartbeat) isDiscoveryCommand()  {}
func (Unregister) isDiscoveryCommand() {}

const (
	entityDiscoveryFieldName       = protowire.Number(1)
	entityDiscoveryFieldType       = protowire.Number(2)
	entityDiscoveryFieldRegister   = protowire.Number(3)
	entityDiscoveryFieldHeartbeat  = protowire.Number(4)
	entityDiscoveryFieldUnregister = protowire.Number(5)

	registerFieldPort = protowire.Number(1)
)

// EntityDiscoveryCommand is sent by an entity to Discovery's reply socket to
// register, heartbeat or unregister itself.
type EntityDiscoveryCommand struct {
	EntityName string
	EntityType EntityType
	Command    DiscoveryCommand
}

func (*EntityDiscoveryCommand) TypeName() string { return "EntityDiscoveryCommand" }

func (m *EntityDiscoveryCommand) MarshalWire() ([]byte, error) {
	var b []byte
	b = wire.AppendString(b, entityDiscoveryFieldName, m.EntityName)
	b = wire.AppendEnum(b, entityDiscoveryFieldType, int32(m.EntityType))
	switch cmd := m.Command.(type) {
	case Register:
		inner := wire.AppendVarint(nil, registerFieldPort, uint64(cmd.Port))
		b = wire.AppendMessage(b, entityDiscoveryFieldRegister, inner)
	case Heartbeat:
		b = wire.AppendBool(b, entityDiscoveryFieldHeartbeat, true)
	case Unregister:
		b = wire.AppendBool(b, entityDiscoveryFieldUnregister, true)
	default:
		return nil, fmt.Errorf("pb: EntityDiscoveryCommand: missing command")
	}
	return b, nil
}

func (m *EntityDiscoveryCommand) UnmarshalWire(b []byte) error {
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: EntityDiscoveryCommand: %w", err)
		}
		b = b[n:]
		switch num {
		case entityDiscoveryFieldName:
			s, n, err := wire.ConsumeString(b)
			if err != nil {
				return fmt.Errorf("pb: EntityDiscoveryCommand.entity_name: %w", err)
			}
			m.EntityName = s
			b = b[n:]
		case entityDiscoveryFieldType:
			v, n, err := wire.ConsumeVarint(b)
			if err != nil {
				return fmt.Errorf("pb: EntityDiscoveryCommand.entity_type: %w", err)
			}
			m.EntityType = EntityType(int32(v))
			b = b[n:]
		case entityDiscoveryFieldRegister:
			inner, n, err := wire.ConsumeBytes(b)
			if err != nil {
				return fmt.Errorf("pb: EntityDiscoveryCommand.register: %w", err)
			}
			b = b[n:]
			reg, err := unmarshalRegister(inner)
			if err != nil {
				return fmt.Errorf("pb: EntityDiscoveryCommand.register: %w", err)
			}
			m.Command = reg
		case entityDiscoveryFieldHeartbeat:
			v, n, err := wire.ConsumeBool(b)
			if err != nil {
				return fmt.Errorf("pb: EntityDiscoveryCommand.heartbeat: %w", err)
			}
			b = b[n:]
			if v {
				m.Command = Heartbeat{}
			}
		case entityDiscoveryFieldUnregister:
			v, n, err := wire.ConsumeBool(b)
			if err != nil {
				return fmt.Errorf("pb: EntityDiscoveryCommand.unregister: %w", err)
			}
			b = b[n:]
			if v {
				m.Command = Unregister{}
			}
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: EntityDiscoveryCommand: %w", err)
			}
			b = b[n:]
		}
	}
	if m.Command == nil {
		return fmt.Errorf("pb: EntityDiscoveryCommand: missing command")
	}
	return nil
}

func unmarshalRegister(b []byte) (Register, error) {
	var reg Register
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return Register{}, err
		}
		b = b[n:]
		switch num {
		case registerFieldPort:
			v, n, err := wire.ConsumeVarint(b)
			if err != nil {
				return Register{}, err
			}
			reg.Port = uint32(v)
			b = b[n:]
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return Register{}, err
			}
			b = b[n:]
		}
	}
	return reg, nil
}
