// Package rpc holds the scheduling.v1 wire messages and service descriptor.
// Messages encode themselves with protowire; field numbers are the contract
// with browser clients and must not be reused.
package rpc

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every request and response type.
type Message interface {
	AppendWire(b []byte) []byte
	UnmarshalWire(b []byte) error
}

// Codec replaces the default proto codec on both ends of the connection.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("rpc: cannot marshal %T", v)
	}
	return m.AppendWire(nil), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("rpc: cannot unmarshal into %T", v)
	}
	return m.UnmarshalWire(data)
}

func (Codec) Name() string { return "proto" }

// fieldFunc consumes the value of one field and reports how many bytes it
// used. Returning 0 leaves the field to be skipped.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) int

func consumeFields(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		n = fn(num, typ, b)
		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return 0
	}
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func consumeStrings(typ protowire.Type, b []byte, dst *[]string) int {
	var s string
	n := consumeString(typ, b, &s)
	if n > 0 {
		*dst = append(*dst, s)
	}
	return n
}

func consumeInt32(typ protowire.Type, b []byte, dst *int32) int {
	if typ != protowire.VarintType {
		return 0
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = int32(v)
	}
	return n
}

func consumeOptionalInt32(typ protowire.Type, b []byte, dst **int32) int {
	var v int32
	n := consumeInt32(typ, b, &v)
	if n > 0 {
		*dst = &v
	}
	return n
}

func consumeMessage(typ protowire.Type, b []byte, m Message) int {
	if typ != protowire.BytesType {
		return 0
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n
	}
	if err := m.UnmarshalWire(v); err != nil {
		return -1
	}
	return n
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendStrings(b []byte, num protowire.Number, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// appendOptionalInt32 writes v whenever it is set, zero included.
func appendOptionalInt32(b []byte, num protowire.Number, v *int32) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(*v))
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.AppendWire(nil))
}
