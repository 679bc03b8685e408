// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/schemapb/schemapb/schema"
)

// Code is the closed set of failure classes the engine can produce.
// There is no open extension: every engine failure carries one of these.
type Code uint8

const (
	_ Code = iota

	// NoEnumValueWithName reports an enum identity by name with no match in
	// the enum's value list.
	NoEnumValueWithName
	// NoEnumValueWithNumber reports an enum identity by number with no match.
	NoEnumValueWithNumber
	// NoFieldWithName reports a field identity by name with no match in the
	// message's field list.
	NoFieldWithName
	// NoFieldWithNumber reports a field identity by number with no match.
	NoFieldWithNumber
	// NoValueForRequiredField reports a required field with no occurrence
	// after the whole message has been read.
	NoValueForRequiredField
	// DepthExceeded reports message nesting beyond UnmarshalOptions.MaxDepth.
	DepthExceeded
)

func (c Code) String() string {
	switch c {
	case NoEnumValueWithName:
		return "NoEnumValueWithName"
	case NoEnumValueWithNumber:
		return "NoEnumValueWithNumber"
	case NoFieldWithName:
		return "NoFieldWithName"
	case NoFieldWithNumber:
		return "NoFieldWithNumber"
	case NoValueForRequiredField:
		return "NoValueForRequiredField"
	case DepthExceeded:
		return "DepthExceeded"
	default:
		return "<unknown>"
	}
}

// Error is a deserialization failure. Name is set when the unmatched
// identity was symbolic (and for the required-field case names the field);
// Number is set when it was numeric.
type Error struct {
	Code   Code
	Name   schema.Name
	Number int64
}

func (e *Error) Error() string {
	switch e.Code {
	case NoEnumValueWithName:
		return fmt.Sprintf("schemapb: no enum value with name %q", e.Name)
	case NoEnumValueWithNumber:
		return fmt.Sprintf("schemapb: no enum value with number %d", e.Number)
	case NoFieldWithName:
		return fmt.Sprintf("schemapb: no field with name %q", e.Name)
	case NoFieldWithNumber:
		return fmt.Sprintf("schemapb: no field with number %d", e.Number)
	case NoValueForRequiredField:
		return fmt.Sprintf("schemapb: no value for required field %q", e.Name)
	case DepthExceeded:
		return "schemapb: message nesting depth exceeded"
	default:
		return "schemapb: unknown error"
	}
}
