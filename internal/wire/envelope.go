// Package wire implements the payload envelope that every message on the
// message fabric is wrapped in, plus the low-level protobuf wire-format
// helpers (built on google.golang.org/protobuf/encoding/protowire) that both
// the envelope and every message in internal/pb are encoded with.
//
// There is no protoc invocation in this build: the wire shape each message
// type implements is documented in internal/pb/schema.proto and hand-coded
// against protowire's append/consume primitives instead of being generated.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every wire message type. TypeName returns the
// bare message name used to build the envelope's type URL (the Any-style
// self-describing payload field), e.g. "EntityDiscoveryCommand".
type Message interface {
	TypeName() string
	MarshalWire() ([]byte, error)
}

// Unmarshaler is implemented by the pointer receiver of every wire message
// type.
type Unmarshaler interface {
	UnmarshalWire([]byte) error
}

// TypeURLPrefix is prepended to a message's TypeName to build the envelope's
// self-describing type URL, mirroring prost_types::Any's
// "type.googleapis.com/<package>.<Message>" convention from the original
// source.
const TypeURLPrefix = "type.googleapis.com/home_automation."

// Envelope is the PayloadEnvelope wire message: a string->string header map
// (carrying distributed-trace context) plus a typed payload packed as a
// self-describing Any-style field (TypeURL + raw bytes).
type Envelope struct {
	Headers map[string]string
	TypeURL string
	Value   []byte
}

// Pack wraps msg in a new Envelope with the given headers. The caller
// supplies headers (usually produced by injecting the active trace context;
// see internal/tracecontext).
func Pack(headers map[string]string, msg Message) (*Envelope, error) {
	value, err := msg.MarshalWire()
	if err != nil {
		return nil, fmt.Errorf("marshal payload %s: %w", msg.TypeName(), err)
	}
	return &Envelope{
		Headers: headers,
		TypeURL: TypeURLPrefix + msg.TypeName(),
		Value:   value,
	}, nil
}

// Unpack decodes env's payload into out, failing if the envelope's type URL
// does not match out's declared type name.
func Unpack[T Unmarshaler](env *Envelope, out T) error {
	named, ok := any(out).(Message)
	if ok {
		want := TypeURLPrefix + named.TypeName()
		if env.TypeURL != want {
			return fmt.Errorf("envelope type mismatch: want %s, got %s", want, env.TypeURL)
		}
	}
	return out.UnmarshalWire(env.Value)
}

const (
	envelopeFieldHeaders = protowire.Number(1)
	envelopeFieldTypeURL = protowire.Number(2)
	envelopeFieldValue   = protowire.Number(3)

	mapEntryFieldKey   = protowire.Number(1)
	mapEntryFieldValue = protowire.Number(2)
)

// Marshal encodes the envelope using the standard protobuf wire format.
func (e *Envelope) Marshal() ([]byte, error) {
	var b []byte
	for k, v := range e.Headers {
		entry := AppendString(nil, mapEntryFieldKey, k)
		entry = AppendString(entry, mapEntryFieldValue, v)
		b = AppendMessage(b, envelopeFieldHeaders, entry)
	}
	b = AppendString(b, envelopeFieldTypeURL, e.TypeURL)
	b = AppendBytes(b, envelopeFieldValue, e.Value)
	return b, nil
}

// UnmarshalEnvelope decodes an Envelope from the standard protobuf wire
// format.
func UnmarshalEnvelope(b []byte) (*Envelope, error) {
	env := &Envelope{Headers: make(map[string]string)}
	for len(b) > 0 {
		num, typ, n, err := ConsumeTag(b)
		if err != nil {
			return nil, fmt.Errorf("envelope: %w", err)
		}
		b = b[n:]
		switch num {
		case envelopeFieldHeaders:
			entry, n, err := ConsumeBytes(b)
			if err != nil {
				return nil, fmt.Errorf("envelope headers entry: %w", err)
			}
			b = b[n:]
			k, v, err := unmarshalMapEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("envelope headers entry: %w", err)
			}
			env.Headers[k] = v
		case envelopeFieldTypeURL:
			s, n, err := ConsumeString(b)
			if err != nil {
				return nil, fmt.Errorf("envelope type_url: %w", err)
			}
			env.TypeURL = s
			b = b[n:]
		case envelopeFieldValue:
			v, n, err := ConsumeBytes(b)
			if err != nil {
				return nil, fmt.Errorf("envelope value: %w", err)
			}
			env.Value = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("envelope: skip unknown field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return env, nil
}

func unmarshalMapEntry(b []byte) (key, value string, err error) {
	for len(b) > 0 {
		num, typ, n, err := ConsumeTag(b)
		if err != nil {
			return "", "", err
		}
		b = b[n:]
		switch num {
		case mapEntryFieldKey:
			key, n, err = ConsumeString(b)
			if err != nil {
				return "", "", err
			}
			b = b[n:]
		case mapEntryFieldValue:
			value, n, err = ConsumeString(b)
			if err != nil {
				return "", "", err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return "", "", protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return key, value, nil
}
