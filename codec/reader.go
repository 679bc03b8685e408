// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/schemapb/schemapb/schema"
)

// Reader is the sequential source of field events that the engine consumes.
// One implementation exists per concrete format (see encoding/prototext and
// encoding/protowire).
//
// A Reader instance is single-use: it backs exactly one top-level Unmarshal
// call and must not be shared across concurrent calls. The engine drives it
// strictly in order and never queries ahead or rewinds: after MessageEnd
// reports false, exactly one ReadField call follows, then exactly one decode
// call (a ReadX scalar method, ReadEnum, or EnterMessage) for the resolved
// field, before MessageEnd is consulted again.
type Reader interface {
	// MessageEnd reports whether the current (possibly nested) message has
	// no more fields.
	MessageEnd() (bool, error)

	// ReadField returns the identity of the next field in the current
	// message. It is called only after MessageEnd reports false.
	ReadField() (Ident, error)

	// ReadEnum returns the identity of an enum value. It is called in place
	// of a scalar read when the resolved field has the enum kind.
	ReadEnum() (Ident, error)

	// EnterMessage positions the reader at the start of a nested message's
	// field stream. It is called in place of a scalar read when the resolved
	// field has the message kind; the nested stream ends when MessageEnd
	// reports true at that level.
	EnterMessage() error

	ReadBool() (bool, error)
	ReadInt32() (int32, error)
	ReadInt64() (int64, error)
	ReadUint32() (uint32, error)
	ReadUint64() (uint64, error)
	ReadSint32() (int32, error)
	ReadSint64() (int64, error)
	ReadFixed32() (uint32, error)
	ReadFixed64() (uint64, error)
	ReadSfixed32() (int32, error)
	ReadSfixed64() (int64, error)
	ReadFloat() (float32, error)
	ReadDouble() (float64, error)
	ReadString() (string, error)
	ReadBytes() ([]byte, error)

	// ReportError folds an engine error (always a *Error) into the reader's
	// own error channel, which may attach context such as a source position.
	// The returned error terminates the deserialization and must be non-nil.
	ReportError(error) error
}

// Ident identifies a field or an enum value on the wire, either by its
// symbolic name or by its numeric tag. Exactly one of the two axes is set.
type Ident struct {
	name   schema.Name
	num    int64
	byName bool
}

// ByName returns an Ident that identifies a declaration by name.
func ByName(s schema.Name) Ident {
	return Ident{name: s, byName: true}
}

// ByNumber returns an Ident that identifies a declaration by number.
func ByNumber(n int64) Ident {
	return Ident{num: n}
}

// Name returns the symbolic name and reports whether the identity is by name.
func (id Ident) Name() (schema.Name, bool) {
	return id.name, id.byName
}

// Number returns the numeric tag and reports whether the identity is by number.
func (id Ident) Number() (int64, bool) {
	return id.num, !id.byName
}

func (id Ident) String() string {
	if id.byName {
		return string(id.name)
	}
	return fmt.Sprintf("%d", id.num)
}
