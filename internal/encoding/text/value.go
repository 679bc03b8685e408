// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package text implements parsing of the protobuf text format.
// This package has no semantic understanding of message schemas and is only
// a parser for the format; the encoding/prototext package interprets the
// parsed tree against a schema.
package text

import (
	"fmt"
	"math"
	"strings"

	"github.com/schemapb/schemapb/schema"
)

// Type represents a type expressible in the text format.
type Type uint8

const (
	_ Type = iota

	// Bool is a boolean (e.g., "true" or "false").
	Bool
	// Int is a signed integer (e.g., "-1423").
	Int
	// Uint is an unsigned integer (e.g., "0xdeadbeef").
	Uint
	// Float is a floating-point number (e.g., "1.234" or "1e38").
	Float
	// String is a quoted string (e.g., `"the quick brown fox"`).
	String
	// Name is an identifier (e.g., `field_name`).
	Name
	// List is an ordered list of values (e.g., `[0, "one", true]`).
	List
	// Message is an ordered list of key-value pairs (e.g., `{a: 1}`).
	Message
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float:
		return "float"
	case String:
		return "string"
	case Name:
		return "name"
	case List:
		return "list"
	case Message:
		return "message"
	default:
		return "<invalid>"
	}
}

// Value contains a value of a given Type.
type Value struct {
	typ Type
	raw []byte     // raw bytes of the serialized data
	str string     // only for String or Name
	num uint64     // only for Bool, Int, Uint, or Float
	arr []Value    // only for List
	obj [][2]Value // only for Message
}

// ValueOf returns a Value for a given Go value:
//
//	bool           =>  Bool
//	int64          =>  Int
//	uint64         =>  Uint
//	float64        =>  Float
//	string, []byte =>  String
//	schema.Name    =>  Name
//	[]Value        =>  List
//	[][2]Value     =>  Message
//
// ValueOf panics if the Go type is not one of the above.
func ValueOf(v interface{}) Value {
	switch v := v.(type) {
	case bool:
		if v {
			return Value{typ: Bool, num: 1}
		}
		return Value{typ: Bool, num: 0}
	case int64:
		return Value{typ: Int, num: uint64(v)}
	case uint64:
		return Value{typ: Uint, num: v}
	case float64:
		return Value{typ: Float, num: math.Float64bits(v)}
	case string:
		return Value{typ: String, str: v}
	case []byte:
		return Value{typ: String, str: string(v)}
	case schema.Name:
		return Value{typ: Name, str: string(v)}
	case []Value:
		return Value{typ: List, arr: v}
	case [][2]Value:
		return Value{typ: Message, obj: v}
	default:
		panic(fmt.Sprintf("invalid type %T", v))
	}
}

func rawValueOf(v interface{}, raw []byte) Value {
	v2 := ValueOf(v)
	v2.raw = raw
	return v2
}

// Type is the type of the value. When parsing, this is a best-effort guess
// at the resulting type. However, there are ambiguities as to the exact type
// of the value (e.g., "false" is either a bool or a name).
// Thus, some of the types are convertible with each other.
// The Bool, Int, Uint, Float32, Float64, and Name methods return a boolean
// to report whether the conversion succeeded.
func (v Value) Type() Type {
	return v.typ
}

// Bool returns v as a bool and reports whether the conversion succeeded.
func (v Value) Bool() (x bool, ok bool) {
	switch v.typ {
	case Bool:
		return v.num > 0, true
	case Uint, Int:
		// A 1-bit unsigned integer (e.g., "0", "1", or "0x1") is accepted
		// as a boolean for compatibility with the C++ text parser.
		if len(v.raw) > 0 && v.raw[0] != '-' && v.num < 2 {
			return v.num > 0, true
		}
	}
	return false, false
}

// Int returns v as an int64 of the specified precision and reports whether
// the conversion succeeded.
func (v Value) Int(b64 bool) (x int64, ok bool) {
	switch v.typ {
	case Int:
		n := int64(v.num)
		if b64 || (math.MinInt32 <= n && n <= math.MaxInt32) {
			return n, true
		}
	case Uint:
		n := v.num
		if (!b64 && n <= math.MaxInt32) || (b64 && n <= math.MaxInt64) {
			return int64(n), true
		}
	}
	return 0, false
}

// Uint returns v as a uint64 of the specified precision and reports whether
// the conversion succeeded.
func (v Value) Uint(b64 bool) (x uint64, ok bool) {
	switch v.typ {
	case Int:
		n := int64(v.num)
		if len(v.raw) > 0 && v.raw[0] != '-' && (b64 || n <= math.MaxUint32) {
			return uint64(n), true
		}
	case Uint:
		n := v.num
		if b64 || n <= math.MaxUint32 {
			return n, true
		}
	}
	return 0, false
}

// Float32 returns v as a float32 and reports whether the conversion
// succeeded.
func (v Value) Float32() (x float32, ok bool) {
	switch v.typ {
	case Int:
		return float32(int64(v.num)), true // possibly lossy, but allowed
	case Uint:
		return float32(v.num), true // possibly lossy, but allowed
	case Float:
		n := math.Float64frombits(v.num)
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) <= math.MaxFloat32 {
			return float32(n), true
		}
	}
	return 0, false
}

// Float64 returns v as a float64 and reports whether the conversion
// succeeded.
func (v Value) Float64() (x float64, ok bool) {
	switch v.typ {
	case Int:
		return float64(int64(v.num)), true // possibly lossy, but allowed
	case Uint:
		return float64(v.num), true // possibly lossy, but allowed
	case Float:
		return math.Float64frombits(v.num), true
	}
	return 0, false
}

// String returns v as a string if the Type is String.
// Otherwise, this returns a formatted string of v for debugging purposes.
//
// Since String is used to represent both text and binary, it is not
// validated to contain valid UTF-8.
func (v Value) String() string {
	if v.typ != String {
		return v.stringValue()
	}
	return v.str
}

func (v Value) stringValue() string {
	switch v.typ {
	case Bool, Int, Uint, Float, Name:
		return string(v.raw)
	case List:
		var ss []string
		for _, v := range v.List() {
			ss = append(ss, v.String())
		}
		return "[" + strings.Join(ss, ",") + "]"
	case Message:
		var ss []string
		for _, v := range v.Message() {
			ss = append(ss, v[0].String()+":"+v[1].String())
		}
		return "{" + strings.Join(ss, ",") + "}"
	default:
		return "<invalid>"
	}
}

// Name returns the field name or enum value name and reports whether the
// value can be treated as an identifier.
func (v Value) Name() (schema.Name, bool) {
	switch v.typ {
	case Bool, Float:
		// Ambiguity arises in unmarshalValue since "nan" may be interpreted
		// as either a Name (for enum values) or a Float. Similarly, "true"
		// may be interpreted as either a Name or a Bool.
		n := schema.Name(v.raw)
		if n.IsValid() {
			return n, true
		}
	case Name:
		return schema.Name(v.str), true
	}
	return "", false
}

// List returns the elements of v and panics if the Type is not List.
func (v Value) List() []Value {
	if v.typ != List {
		panic("value is not a list")
	}
	return v.arr
}

// Message returns the items of v and panics if the Type is not Message.
// The [2]Value represents a key and value pair, where the key is either
// a Name (a field name) or an Int or Uint (a numeric field tag).
func (v Value) Message() [][2]Value {
	if v.typ != Message {
		panic("value is not a message")
	}
	return v.obj
}
