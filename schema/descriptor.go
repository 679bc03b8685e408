// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"sync"

	"github.com/schemapb/schemapb/internal/errors"
)

// Field is the declaration of a single field within a message.
//
// Fields are passed by value to NewMessage, which takes ownership of them;
// a Field must not be mutated after the containing Message is constructed.
type Field struct {
	Name        Name
	Number      FieldNumber
	Cardinality Cardinality
	Kind        Kind

	// MessageType is the nested message descriptor if Kind is MessageKind.
	// It must be nil for any other Kind.
	MessageType *Message

	// EnumType is the enum descriptor if Kind is EnumKind.
	// It must be nil for any other Kind.
	EnumType *Enum

	index int
}

// Index returns the declaration index of the field within its message.
// The index defines the positional slot the field occupies in a decoded
// message, independent of the order values arrive in.
func (f *Field) Index() int { return f.index }

// Message is an immutable descriptor for a message type:
// an ordered list of fields with unique names and unique numbers.
type Message struct {
	fullName FullName
	fields   []Field

	once   sync.Once
	byName map[Name]*Field
	byNum  map[FieldNumber]*Field
}

// NewMessage creates a new Message descriptor.
// The caller must relinquish full ownership of the input fields and must not
// access or mutate them afterwards.
func NewMessage(fullName FullName, fields []Field) (*Message, error) {
	if !fullName.IsValid() {
		return nil, errors.New("invalid message name: %q", fullName)
	}
	m := &Message{fullName: fullName, fields: fields}
	for i := range m.fields {
		m.fields[i].index = i
	}
	if err := validateMessage(m); err != nil {
		return nil, err
	}
	return m, nil
}

// FullName returns the fully-qualified name of the message type.
func (m *Message) FullName() FullName { return m.fullName }

// Fields returns the list of field declarations.
func (m *Message) Fields() *Fields { return (*Fields)(m) }

// Fields is an indexed list of field declarations.
type Fields Message

// Len reports the number of fields.
func (p *Fields) Len() int { return len(p.fields) }

// Get returns the ith Field. It panics if out of bounds.
func (p *Fields) Get(i int) *Field { return &p.fields[i] }

// ByName returns the Field for a field named s.
// It returns nil if not found.
func (p *Fields) ByName(s Name) *Field {
	(*Message)(p).lazyInit()
	return p.byName[s]
}

// ByNumber returns the Field for a field numbered n.
// It returns nil if not found.
func (p *Fields) ByNumber(n FieldNumber) *Field {
	(*Message)(p).lazyInit()
	return p.byNum[n]
}

func (m *Message) lazyInit() {
	m.once.Do(func() {
		m.byName = make(map[Name]*Field, len(m.fields))
		m.byNum = make(map[FieldNumber]*Field, len(m.fields))
		for i := range m.fields {
			f := &m.fields[i]
			m.byName[f.Name] = f
			m.byNum[f.Number] = f
		}
	})
}

// EnumValue is the declaration of a single value within an enum.
type EnumValue struct {
	Name   Name
	Number EnumNumber

	index int
}

// Index returns the declaration index of the value within its enum.
func (v *EnumValue) Index() int { return v.index }

// Enum is an immutable descriptor for an enum type:
// an ordered list of values with unique names and unique numbers.
type Enum struct {
	fullName FullName
	values   []EnumValue

	once   sync.Once
	byName map[Name]*EnumValue
	byNum  map[EnumNumber]*EnumValue
}

// NewEnum creates a new Enum descriptor.
// The caller must relinquish full ownership of the input values and must not
// access or mutate them afterwards.
func NewEnum(fullName FullName, values []EnumValue) (*Enum, error) {
	if !fullName.IsValid() {
		return nil, errors.New("invalid enum name: %q", fullName)
	}
	e := &Enum{fullName: fullName, values: values}
	for i := range e.values {
		e.values[i].index = i
	}
	if err := validateEnum(e); err != nil {
		return nil, err
	}
	return e, nil
}

// FullName returns the fully-qualified name of the enum type.
func (e *Enum) FullName() FullName { return e.fullName }

// Values returns the list of value declarations.
func (e *Enum) Values() *EnumValues { return (*EnumValues)(e) }

// EnumValues is an indexed list of enum value declarations.
type EnumValues Enum

// Len reports the number of enum values.
func (p *EnumValues) Len() int { return len(p.values) }

// Get returns the ith EnumValue. It panics if out of bounds.
func (p *EnumValues) Get(i int) *EnumValue { return &p.values[i] }

// ByName returns the EnumValue for the enum value named s.
// It returns nil if not found.
func (p *EnumValues) ByName(s Name) *EnumValue {
	(*Enum)(p).lazyInit()
	return p.byName[s]
}

// ByNumber returns the EnumValue for the enum value numbered n.
// It returns nil if not found.
func (p *EnumValues) ByNumber(n EnumNumber) *EnumValue {
	(*Enum)(p).lazyInit()
	return p.byNum[n]
}

func (e *Enum) lazyInit() {
	e.once.Do(func() {
		e.byName = make(map[Name]*EnumValue, len(e.values))
		e.byNum = make(map[EnumNumber]*EnumValue, len(e.values))
		for i := range e.values {
			v := &e.values[i]
			e.byName[v.Name] = v
			e.byNum[v.Number] = v
		}
	})
}
