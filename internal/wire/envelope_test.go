package wire_test

import (
	"testing"

	"github.com/ede1998/home-automation/internal/wire"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// fakeMessage is a minimal wire.Message/wire.Unmarshaler used only to
// exercise the envelope codec independently of internal/pb.
type fakeMessage struct {
	Body string
}

func (*fakeMessage) TypeName() string { return "FakeMessage" }

func (m *fakeMessage) MarshalWire() ([]byte, error) {
	return []byte(m.Body), nil
}

func (m *fakeMessage) UnmarshalWire(b []byte) error {
	m.Body = string(b)
	return nil
}

func TestEnvelopeRoundTripProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(params)

	headerGen := gen.MapOf(gen.AlphaString(), gen.AlphaString())
	bodyGen := gen.AlphaString()

	properties.Property("encode then decode preserves headers and payload", prop.ForAll(
		func(headers map[string]string, body string) bool {
			msg := &fakeMessage{Body: body}
			env, err := wire.Pack(headers, msg)
			if err != nil {
				return false
			}
			encoded, err := env.Marshal()
			if err != nil {
				return false
			}
			decoded, err := wire.UnmarshalEnvelope(encoded)
			if err != nil {
				return false
			}
			if len(decoded.Headers) != len(headers) {
				return false
			}
			for k, v := range headers {
				if decoded.Headers[k] != v {
					return false
				}
			}
			var out fakeMessage
			if err := wire.Unpack(decoded, &out); err != nil {
				return false
			}
			return out.Body == body
		},
		headerGen,
		bodyGen,
	))

	properties.TestingRun(t)
}

func TestUnpackRejectsTypeMismatch(t *testing.T) {
	msg := &fakeMessage{Body: "hello"}
	env, err := wire.Pack(nil, msg)
	require.NoError(t, err)

	env.TypeURL = wire.TypeURLPrefix + "SomethingElse"

	var out fakeMessage
	err = wire.Unpack(env, &out)
	require.Error(t, err)
}

func TestEnvelopeWithNoHeaders(t *testing.T) {
	msg := &fakeMessage{Body: "payload"}
	env, err := wire.Pack(map[string]string{}, msg)
	require.NoError(t, err)

	encoded, err := env.Marshal()
	require.NoError(t, err)

	decoded, err := wire.UnmarshalEnvelope(encoded)
	require.NoError(t, err)
	require.Empty(t, decoded.Headers)
	require.Equal(t, env.TypeURL, decoded.TypeURL)
}
