// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"math"

	"github.com/schemapb/schemapb/schema"
)

// Value is a single decoded field value: a runtime tagged union over the
// schema.Kind variant. The zero Value is invalid.
//
// The Go type used to retrieve the underlying value depends on the kind:
//
//	+------------------------------------+-----------+
//	| Kind                               | Accessor  |
//	+------------------------------------+-----------+
//	| bool                               | Bool      |
//	| int32, int64, sint32, sint64,      | Int       |
//	| sfixed32, sfixed64                 |           |
//	| uint32, uint64, fixed32, fixed64   | Uint      |
//	| float, double                      | Float     |
//	| string                             | String    |
//	| bytes                              | Bytes     |
//	| enum                               | Enum      |
//	| message                            | Message   |
//	+------------------------------------+-----------+
type Value struct {
	knd schema.Kind
	num uint64 // bool, ints, uints, float bits, enum index
	str string // string and bytes
	msg *Message
}

func boolValue(x bool) Value {
	if x {
		return Value{knd: schema.BoolKind, num: 1}
	}
	return Value{knd: schema.BoolKind, num: 0}
}
func intValue(k schema.Kind, x int64) Value     { return Value{knd: k, num: uint64(x)} }
func uintValue(k schema.Kind, x uint64) Value   { return Value{knd: k, num: x} }
func floatValue(k schema.Kind, x float64) Value { return Value{knd: k, num: math.Float64bits(x)} }
func stringValue(x string) Value                { return Value{knd: schema.StringKind, str: x} }
func bytesValue(x []byte) Value                 { return Value{knd: schema.BytesKind, str: string(x)} }
func enumValue(index int) Value                 { return Value{knd: schema.EnumKind, num: uint64(index)} }
func messageValue(m *Message) Value             { return Value{knd: schema.MessageKind, msg: m} }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.knd.IsValid() }

// Kind returns the kind of the held value.
func (v Value) Kind() schema.Kind { return v.knd }

// Bool returns v as a bool. It panics if the kind is not bool.
func (v Value) Bool() bool {
	v.mustBe(schema.BoolKind)
	return v.num > 0
}

// Int returns v as an int64. It panics if the kind is not a signed
// integer kind.
func (v Value) Int() int64 {
	switch v.knd {
	case schema.Int32Kind, schema.Int64Kind,
		schema.Sint32Kind, schema.Sint64Kind,
		schema.Sfixed32Kind, schema.Sfixed64Kind:
		return int64(v.num)
	}
	panic(fmt.Sprintf("schemapb: called Int on %v value", v.knd))
}

// Uint returns v as a uint64. It panics if the kind is not an unsigned
// integer kind.
func (v Value) Uint() uint64 {
	switch v.knd {
	case schema.Uint32Kind, schema.Uint64Kind,
		schema.Fixed32Kind, schema.Fixed64Kind:
		return v.num
	}
	panic(fmt.Sprintf("schemapb: called Uint on %v value", v.knd))
}

// Float returns v as a float64. It panics if the kind is not float or double.
func (v Value) Float() float64 {
	switch v.knd {
	case schema.FloatKind, schema.DoubleKind:
		return math.Float64frombits(v.num)
	}
	panic(fmt.Sprintf("schemapb: called Float on %v value", v.knd))
}

// String returns v as a string if the kind is string.
// Otherwise, this returns a formatted string of v for debugging purposes.
func (v Value) String() string {
	if v.knd != schema.StringKind {
		return fmt.Sprint(v.Interface())
	}
	return v.str
}

// Bytes returns v as a []byte. It panics if the kind is not bytes.
func (v Value) Bytes() []byte {
	v.mustBe(schema.BytesKind)
	return []byte(v.str)
}

// Enum returns the declaration index of the resolved enum value within its
// enum descriptor. It panics if the kind is not enum.
func (v Value) Enum() int {
	v.mustBe(schema.EnumKind)
	return int(v.num)
}

// Message returns the nested decoded message.
// It panics if the kind is not message.
func (v Value) Message() *Message {
	v.mustBe(schema.MessageKind)
	return v.msg
}

// Interface returns v unwrapped as one of:
// bool, int64, uint64, float64, string, []byte, int (enum index), *Message.
// It panics if v is the zero Value.
func (v Value) Interface() interface{} {
	switch v.knd {
	case schema.BoolKind:
		return v.Bool()
	case schema.Int32Kind, schema.Int64Kind,
		schema.Sint32Kind, schema.Sint64Kind,
		schema.Sfixed32Kind, schema.Sfixed64Kind:
		return v.Int()
	case schema.Uint32Kind, schema.Uint64Kind,
		schema.Fixed32Kind, schema.Fixed64Kind:
		return v.Uint()
	case schema.FloatKind, schema.DoubleKind:
		return v.Float()
	case schema.StringKind:
		return v.str
	case schema.BytesKind:
		return v.Bytes()
	case schema.EnumKind:
		return v.Enum()
	case schema.MessageKind:
		return v.msg
	default:
		panic("schemapb: invalid value")
	}
}

func (v Value) mustBe(k schema.Kind) {
	if v.knd != k {
		panic(fmt.Sprintf("schemapb: called %v accessor on %v value", k, v.knd))
	}
}
