// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/schemapb/schemapb/schema"
)

// Message is a fully decoded message: one slot per field of the schema, in
// declaration order, regardless of the order values arrived in. A Message is
// owned exclusively by the caller once returned; the engine retains no
// reference to it.
type Message struct {
	desc   *schema.Message
	fields []Field
}

// Descriptor returns the schema the message was decoded against.
func (m *Message) Descriptor() *schema.Message { return m.desc }

// Len reports the number of field slots, which always equals the number of
// fields in the schema.
func (m *Message) Len() int { return len(m.fields) }

// Get returns the slot for the ith field in declaration order.
// It panics if out of bounds.
func (m *Message) Get(i int) Field { return m.fields[i] }

// ByName returns the slot for the field named s.
// It returns a zero Field if the schema has no such field.
func (m *Message) ByName(s schema.Name) Field {
	if fd := m.desc.Fields().ByName(s); fd != nil {
		return m.fields[fd.Index()]
	}
	return Field{}
}

// Field is one slot of a decoded message. Its shape depends on the field's
// cardinality: required slots hold exactly one value, optional slots hold at
// most one, and repeated slots hold all values in arrival order.
type Field struct {
	desc *schema.Field
	vals []Value
}

// Descriptor returns the field declaration for the slot, or nil for the
// zero Field.
func (f Field) Descriptor() *schema.Field { return f.desc }

// Has reports whether the slot is populated. Required slots of a decoded
// message are always populated; repeated slots are populated if non-empty.
func (f Field) Has() bool { return len(f.vals) > 0 }

// Value returns the slot's single value. It panics on a repeated field and
// on an unpopulated slot.
func (f Field) Value() Value {
	if f.desc != nil && f.desc.Cardinality == schema.Repeated {
		panic(fmt.Sprintf("schemapb: called Value on repeated field %v", f.desc.Name))
	}
	if len(f.vals) == 0 {
		panic("schemapb: called Value on absent field")
	}
	return f.vals[0]
}

// List returns all values of a repeated slot in arrival order.
// It panics if the field is not repeated.
func (f Field) List() []Value {
	if f.desc == nil || f.desc.Cardinality != schema.Repeated {
		panic("schemapb: called List on non-repeated field")
	}
	return f.vals
}
