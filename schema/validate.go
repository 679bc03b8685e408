// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"github.com/schemapb/schemapb/internal/errors"
	"github.com/schemapb/schemapb/internal/set"
)

func validateMessage(m *Message) error {
	var names map[Name]bool
	var nums set.Ints
	for i := range m.fields {
		f := &m.fields[i]
		if !f.Name.IsValid() {
			return errors.New("%v has field with invalid name: %q", m.fullName, f.Name)
		}
		if !f.Number.IsValid() {
			return errors.New("%v.%v has invalid number: %d", m.fullName, f.Name, f.Number)
		}
		if !f.Cardinality.IsValid() {
			return errors.New("%v.%v has invalid cardinality: %d", m.fullName, f.Name, f.Cardinality)
		}
		if !f.Kind.IsValid() {
			return errors.New("%v.%v has invalid kind: %d", m.fullName, f.Name, f.Kind)
		}
		if (f.MessageType != nil) != (f.Kind == MessageKind) {
			return errors.New("%v.%v has mismatching message type for kind %v", m.fullName, f.Name, f.Kind)
		}
		if (f.EnumType != nil) != (f.Kind == EnumKind) {
			return errors.New("%v.%v has mismatching enum type for kind %v", m.fullName, f.Name, f.Kind)
		}
		if names[f.Name] {
			return errors.New("%v has duplicate field name: %q", m.fullName, f.Name)
		}
		if nums.Has(uint64(f.Number)) {
			return errors.New("%v has duplicate field number: %d", m.fullName, f.Number)
		}
		if names == nil {
			names = make(map[Name]bool, len(m.fields))
		}
		names[f.Name] = true
		nums.Set(uint64(f.Number))
	}
	return nil
}

func validateEnum(e *Enum) error {
	if len(e.values) == 0 {
		return errors.New("%v has no values", e.fullName)
	}
	names := make(map[Name]bool, len(e.values))
	nums := make(map[EnumNumber]bool, len(e.values))
	for i := range e.values {
		v := &e.values[i]
		if !v.Name.IsValid() {
			return errors.New("%v has value with invalid name: %q", e.fullName, v.Name)
		}
		if names[v.Name] {
			return errors.New("%v has duplicate value name: %q", e.fullName, v.Name)
		}
		if nums[v.Number] {
			return errors.New("%v has duplicate value number: %d", e.fullName, v.Number)
		}
		names[v.Name] = true
		nums[v.Number] = true
	}
	return nil
}
