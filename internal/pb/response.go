package pb

import (
	"fmt"

	"github.com/ede1998/home-automation/internal/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const responseCodeFieldCode = protowire.Number(1)

// ResponseCode is the generic Ok/Error reply used across the discovery and
// client API back-channels.
type ResponseCode struct {
	Code Code
}

func (*ResponseCode) TypeName() string { return "ResponseCode" }

func (m *ResponseCode) MarshalWire() ([]byte, error) {
	return wire.AppendEnum(nil, responseCodeFieldCode, int32(m.Code)), nil
}

func (m *ResponseCode) UnmarshalWire(b []byte) error {
	for len(b) > 0 {
		num, typ, n, err := wire.ConsumeTag(b)
		if err != nil {
			return fmt.Errorf("pb: ResponseCode: %w", err)
		}
		b = b[n:]
		switch num {
		case responseCodeFieldCode:
			v, n, err := wire.ConsumeVarint(b)
			if err != nil {
				return fmt.Errorf("pb: ResponseCode.code: %w", err)
			}
			m.Code = Code(int32(v))
			b = b[n:]
		default:
			n, err := wire.SkipField(num, typ, b)
			if err != nil {
				return fmt.Errorf("pb: ResponseCode: %w", err)
			}
			b = b[n:]
		}
	}
	return nil
}

// Ok builds a ResponseCode{Ok}.
func Ok() *ResponseCode { return &ResponseCode{Code: CodeOk} }

// Err builds a ResponseCode{Error}.
func Err() *ResponseCode { return &ResponseCode{Code: CodeError} }
