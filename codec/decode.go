// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec implements schema-driven message deserialization.
//
// The engine reads framed field events from a Reader, resolves each event
// against a schema.Message descriptor, and assembles a Message value. One
// algorithm serves every schema: fields may arrive in any order and with
// any repetition, identities may be symbolic or numeric, and nested message
// fields recurse through the same loop. No per-message generated code is
// involved.
package codec

import (
	"github.com/schemapb/schemapb/internal/pragma"
	"github.com/schemapb/schemapb/schema"
)

// defaultMaxDepth bounds recursion when UnmarshalOptions.MaxDepth is unset.
const defaultMaxDepth = 10000

// Unmarshal decodes one message of schema md from the field events of r.
func Unmarshal(md *schema.Message, r Reader) (*Message, error) {
	return UnmarshalOptions{}.Unmarshal(md, r)
}

// UnmarshalOptions is a configurable deserializer.
type UnmarshalOptions struct {
	pragma.NoUnkeyedLiterals

	// MaxDepth bounds message nesting. Inputs nested deeper fail with a
	// DepthExceeded error instead of exhausting the call stack.
	// If zero, a default of 10000 is used.
	MaxDepth int
}

// Unmarshal decodes one message of schema md from the field events of r
// using the options in o.
//
// The reader instance backs this one call and must not be reused or shared.
// On error, no message is returned: a failure at any nesting level aborts
// the whole call.
func (o UnmarshalOptions) Unmarshal(md *schema.Message, r Reader) (*Message, error) {
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	d := decoder{opts: o, r: r}
	return d.unmarshalMessage(md, 0)
}

type decoder struct {
	opts UnmarshalOptions
	r    Reader
}

// entry is one accumulated field occurrence: the declaration index of the
// resolved field paired with its decoded value, in arrival order.
type entry struct {
	index int
	val   Value
}

// unmarshalMessage reads fields until the reader reports end-of-message,
// then reduces the accumulated values into one slot per schema field.
func (d *decoder) unmarshalMessage(md *schema.Message, depth int) (*Message, error) {
	if depth >= d.opts.MaxDepth {
		return nil, d.fail(&Error{Code: DepthExceeded})
	}
	fields := md.Fields()
	var acc []entry
	for {
		end, err := d.r.MessageEnd()
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		id, err := d.r.ReadField()
		if err != nil {
			return nil, err
		}
		fd, err := d.resolveField(fields, id)
		if err != nil {
			return nil, err
		}
		v, err := d.unmarshalValue(fd, depth)
		if err != nil {
			return nil, err
		}
		acc = append(acc, entry{index: fd.Index(), val: v})
	}
	return d.resolveCardinality(md, acc)
}

// resolveField matches a field identity against the schema's field list.
// The name and number axes are independent: a by-name identity never matches
// on number, and vice versa.
func (d *decoder) resolveField(fields *schema.Fields, id Ident) (*schema.Field, error) {
	if name, ok := id.Name(); ok {
		if fd := fields.ByName(name); fd != nil {
			return fd, nil
		}
		return nil, d.fail(&Error{Code: NoFieldWithName, Name: name})
	}
	num, _ := id.Number()
	if fd := fields.ByNumber(schema.FieldNumber(num)); fd != nil {
		return fd, nil
	}
	return nil, d.fail(&Error{Code: NoFieldWithNumber, Number: num})
}

func (d *decoder) unmarshalValue(fd *schema.Field, depth int) (Value, error) {
	switch fd.Kind {
	case schema.MessageKind:
		if err := d.r.EnterMessage(); err != nil {
			return Value{}, err
		}
		m, err := d.unmarshalMessage(fd.MessageType, depth+1)
		if err != nil {
			return Value{}, err
		}
		return messageValue(m), nil
	case schema.EnumKind:
		return d.unmarshalEnum(fd.EnumType)
	default:
		return d.unmarshalScalar(fd.Kind)
	}
}

// unmarshalEnum resolves an enum identity to the declaration index of the
// matching value, so callers see the same result whether the wire carried
// the name or the number.
func (d *decoder) unmarshalEnum(ed *schema.Enum) (Value, error) {
	id, err := d.r.ReadEnum()
	if err != nil {
		return Value{}, err
	}
	vals := ed.Values()
	if name, ok := id.Name(); ok {
		if ev := vals.ByName(name); ev != nil {
			return enumValue(ev.Index()), nil
		}
		return Value{}, d.fail(&Error{Code: NoEnumValueWithName, Name: name})
	}
	num, _ := id.Number()
	if ev := vals.ByNumber(schema.EnumNumber(num)); ev != nil {
		return enumValue(ev.Index()), nil
	}
	return Value{}, d.fail(&Error{Code: NoEnumValueWithNumber, Number: num})
}

func (d *decoder) unmarshalScalar(k schema.Kind) (Value, error) {
	switch k {
	case schema.BoolKind:
		x, err := d.r.ReadBool()
		if err != nil {
			return Value{}, err
		}
		return boolValue(x), nil
	case schema.Int32Kind:
		x, err := d.r.ReadInt32()
		if err != nil {
			return Value{}, err
		}
		return intValue(k, int64(x)), nil
	case schema.Int64Kind:
		x, err := d.r.ReadInt64()
		if err != nil {
			return Value{}, err
		}
		return intValue(k, x), nil
	case schema.Uint32Kind:
		x, err := d.r.ReadUint32()
		if err != nil {
			return Value{}, err
		}
		return uintValue(k, uint64(x)), nil
	case schema.Uint64Kind:
		x, err := d.r.ReadUint64()
		if err != nil {
			return Value{}, err
		}
		return uintValue(k, x), nil
	case schema.Sint32Kind:
		x, err := d.r.ReadSint32()
		if err != nil {
			return Value{}, err
		}
		return intValue(k, int64(x)), nil
	case schema.Sint64Kind:
		x, err := d.r.ReadSint64()
		if err != nil {
			return Value{}, err
		}
		return intValue(k, x), nil
	case schema.Fixed32Kind:
		x, err := d.r.ReadFixed32()
		if err != nil {
			return Value{}, err
		}
		return uintValue(k, uint64(x)), nil
	case schema.Fixed64Kind:
		x, err := d.r.ReadFixed64()
		if err != nil {
			return Value{}, err
		}
		return uintValue(k, x), nil
	case schema.Sfixed32Kind:
		x, err := d.r.ReadSfixed32()
		if err != nil {
			return Value{}, err
		}
		return intValue(k, int64(x)), nil
	case schema.Sfixed64Kind:
		x, err := d.r.ReadSfixed64()
		if err != nil {
			return Value{}, err
		}
		return intValue(k, x), nil
	case schema.FloatKind:
		x, err := d.r.ReadFloat()
		if err != nil {
			return Value{}, err
		}
		return floatValue(k, float64(x)), nil
	case schema.DoubleKind:
		x, err := d.r.ReadDouble()
		if err != nil {
			return Value{}, err
		}
		return floatValue(k, x), nil
	case schema.StringKind:
		x, err := d.r.ReadString()
		if err != nil {
			return Value{}, err
		}
		return stringValue(x), nil
	case schema.BytesKind:
		x, err := d.r.ReadBytes()
		if err != nil {
			return Value{}, err
		}
		return bytesValue(x), nil
	default:
		panic("schemapb: invalid scalar kind " + k.String())
	}
}

// resolveCardinality partitions the accumulation list into one ordered group
// per field slot with a single linear scan, then reduces each group by the
// field's cardinality: required and optional keep the last occurrence,
// repeated keeps everything in arrival order.
func (d *decoder) resolveCardinality(md *schema.Message, acc []entry) (*Message, error) {
	fields := md.Fields()
	groups := make([][]Value, fields.Len())
	for _, e := range acc {
		groups[e.index] = append(groups[e.index], e.val)
	}
	m := &Message{desc: md, fields: make([]Field, fields.Len())}
	for i := range m.fields {
		fd := fields.Get(i)
		vs := groups[i]
		switch fd.Cardinality {
		case schema.Required:
			if len(vs) == 0 {
				return nil, d.fail(&Error{Code: NoValueForRequiredField, Name: fd.Name})
			}
			vs = vs[len(vs)-1:]
		case schema.Optional:
			if len(vs) > 1 {
				vs = vs[len(vs)-1:]
			}
		}
		m.fields[i] = Field{desc: fd, vals: vs}
	}
	return m, nil
}

// fail routes e through the reader so the framing layer can attach its own
// context. A well-behaved reader returns a non-nil error; if it returns nil
// anyway, e itself is used so that failures are never dropped.
func (d *decoder) fail(e *Error) error {
	if err := d.r.ReportError(e); err != nil {
		return err
	}
	return e
}
