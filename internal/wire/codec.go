package wire

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// This file collects the small set of append/consume helpers every message
// in internal/pb is built from. They are thin, named wrappers around
// protowire's tag-prefixed primitives so that each message's MarshalWire/
// UnmarshalWire reads like the field list in schema.proto rather than a
// maze of raw varint math.

// AppendVarint appends a tag-prefixed varint field.
func AppendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// AppendBool appends a tag-prefixed bool field. Per the usual protobuf
// convention, a false/zero value is simply omitted.
func AppendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return AppendVarint(b, num, 1)
}

// AppendEnum appends a tag-prefixed enum field.
func AppendEnum(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	return AppendVarint(b, num, uint64(uint32(v)))
}

// AppendFixed32 appends a tag-prefixed 32-bit float field.
func AppendFixed32(b []byte, num protowire.Number, v float32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// AppendBytes appends a tag-prefixed length-delimited field.
func AppendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// AppendString appends a tag-prefixed length-delimited string field.
func AppendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// AppendMessage appends a tag-prefixed embedded message field.
func AppendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// ConsumeTag consumes a field tag, returning the field number, wire type and
// number of bytes consumed.
func ConsumeTag(b []byte) (protowire.Number, protowire.Type, int, error) {
	num, typ, n := protowire.ConsumeTag(b)
	if n < 0 {
		return 0, 0, 0, protowire.ParseError(n)
	}
	return num, typ, n, nil
}

// ConsumeVarint consumes a varint field value.
func ConsumeVarint(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

// ConsumeBool consumes a varint field value as a bool.
func ConsumeBool(b []byte) (bool, int, error) {
	v, n, err := ConsumeVarint(b)
	if err != nil {
		return false, 0, err
	}
	return v != 0, n, nil
}

// ConsumeFixed32 consumes a fixed32 field value as a float32.
func ConsumeFixed32(b []byte) (float32, int, error) {
	v, n := protowire.ConsumeFixed32(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return math.Float32frombits(v), n, nil
}

// ConsumeBytes consumes a length-delimited field value.
func ConsumeBytes(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

// ConsumeString consumes a length-delimited field value as a string.
func ConsumeString(b []byte) (string, int, error) {
	v, n, err := ConsumeBytes(b)
	if err != nil {
		return "", 0, err
	}
	return string(v), n, nil
}

// SkipField skips the value of a field whose tag has already been consumed,
// returning the number of bytes to advance by.
func SkipField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
	}
	return n, nil
}
