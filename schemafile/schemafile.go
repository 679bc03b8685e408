// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemafile loads schema descriptors from TOML documents.
//
// A document declares messages and enums by name and designates one message
// as the root:
//
//	root = "Person"
//
//	[[messages]]
//	name = "Person"
//
//	  [[messages.fields]]
//	  name = "name"
//	  number = 1
//	  type = "string"
//	  cardinality = "required"
//
//	  [[messages.fields]]
//	  name = "address"
//	  number = 2
//	  type = "Address"
//	  cardinality = "optional"
//
// A field type is either a scalar kind name (bool, int32, ..., bytes) or
// the name of a message or enum declared in the same document.
package schemafile

import (
	"github.com/BurntSushi/toml"

	"github.com/schemapb/schemapb/internal/errors"
	"github.com/schemapb/schemapb/schema"
)

// File is a set of resolved descriptors loaded from one document.
type File struct {
	root  *schema.Message
	msgs  map[schema.Name]*schema.Message
	enums map[schema.Name]*schema.Enum
}

// Root returns the message descriptor the document designates as root.
func (f *File) Root() *schema.Message { return f.root }

// Message returns the message descriptor named s, or nil if not declared.
func (f *File) Message(s schema.Name) *schema.Message { return f.msgs[s] }

// Enum returns the enum descriptor named s, or nil if not declared.
func (f *File) Enum(s schema.Name) *schema.Enum { return f.enums[s] }

type fileDoc struct {
	Root     string       `toml:"root"`
	Messages []messageDoc `toml:"messages"`
	Enums    []enumDoc    `toml:"enums"`
}

type messageDoc struct {
	Name   string     `toml:"name"`
	Fields []fieldDoc `toml:"fields"`
}

type fieldDoc struct {
	Name        string `toml:"name"`
	Number      int32  `toml:"number"`
	Type        string `toml:"type"`
	Cardinality string `toml:"cardinality"`
}

type enumDoc struct {
	Name   string         `toml:"name"`
	Values []enumValueDoc `toml:"values"`
}

type enumValueDoc struct {
	Name   string `toml:"name"`
	Number int32  `toml:"number"`
}

var scalarKinds = map[string]schema.Kind{
	"double":   schema.DoubleKind,
	"float":    schema.FloatKind,
	"int32":    schema.Int32Kind,
	"int64":    schema.Int64Kind,
	"uint32":   schema.Uint32Kind,
	"uint64":   schema.Uint64Kind,
	"sint32":   schema.Sint32Kind,
	"sint64":   schema.Sint64Kind,
	"fixed32":  schema.Fixed32Kind,
	"fixed64":  schema.Fixed64Kind,
	"sfixed32": schema.Sfixed32Kind,
	"sfixed64": schema.Sfixed64Kind,
	"bool":     schema.BoolKind,
	"string":   schema.StringKind,
	"bytes":    schema.BytesKind,
}

var cardinalities = map[string]schema.Cardinality{
	"optional": schema.Optional,
	"required": schema.Required,
	"repeated": schema.Repeated,
}

// Load reads and resolves the document at path.
func Load(path string) (*File, error) {
	var doc fileDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, errors.New("load schema %q: %v", path, err)
	}
	return resolve(&doc)
}

// Parse resolves the document in b.
func Parse(b []byte) (*File, error) {
	var doc fileDoc
	if err := toml.Unmarshal(b, &doc); err != nil {
		return nil, errors.New("parse schema: %v", err)
	}
	return resolve(&doc)
}

func resolve(doc *fileDoc) (*File, error) {
	f := &File{
		msgs:  make(map[schema.Name]*schema.Message, len(doc.Messages)),
		enums: make(map[schema.Name]*schema.Enum, len(doc.Enums)),
	}

	declared := make(map[string]bool, len(doc.Messages)+len(doc.Enums))
	for _, m := range doc.Messages {
		if declared[m.Name] {
			return nil, errors.New("duplicate declaration: %q", m.Name)
		}
		declared[m.Name] = true
	}
	for _, e := range doc.Enums {
		if declared[e.Name] {
			return nil, errors.New("duplicate declaration: %q", e.Name)
		}
		declared[e.Name] = true
	}

	for _, e := range doc.Enums {
		values := make([]schema.EnumValue, len(e.Values))
		for i, v := range e.Values {
			values[i] = schema.EnumValue{Name: schema.Name(v.Name), Number: schema.EnumNumber(v.Number)}
		}
		ed, err := schema.NewEnum(schema.FullName(e.Name), values)
		if err != nil {
			return nil, err
		}
		f.enums[schema.Name(e.Name)] = ed
	}

	// Messages may reference other messages, so construction is deferred
	// until every referenced message is itself constructed. Reference
	// cycles cannot resolve and are rejected.
	pending := make([]messageDoc, len(doc.Messages))
	copy(pending, doc.Messages)
	for len(pending) > 0 {
		var next []messageDoc
		for _, m := range pending {
			md, err := f.buildMessage(&m)
			if err == errUnresolved {
				next = append(next, m)
				continue
			}
			if err != nil {
				return nil, err
			}
			f.msgs[schema.Name(m.Name)] = md
		}
		if len(next) == len(pending) {
			return nil, errors.New("unresolvable or recursive message references: %q and %d more", next[0].Name, len(next)-1)
		}
		pending = next
	}

	if doc.Root == "" {
		return nil, errors.New("schema document has no root message")
	}
	f.root = f.msgs[schema.Name(doc.Root)]
	if f.root == nil {
		return nil, errors.New("root message %q is not declared", doc.Root)
	}
	return f, nil
}

// errUnresolved marks a message whose field types are not all constructed
// yet; resolution retries it on the next pass.
var errUnresolved = errors.New("unresolved reference")

func (f *File) buildMessage(m *messageDoc) (*schema.Message, error) {
	fields := make([]schema.Field, len(m.Fields))
	for i, fd := range m.Fields {
		card, ok := cardinalities[fd.Cardinality]
		if !ok {
			return nil, errors.New("%v.%v has unknown cardinality %q", m.Name, fd.Name, fd.Cardinality)
		}
		field := schema.Field{
			Name:        schema.Name(fd.Name),
			Number:      schema.FieldNumber(fd.Number),
			Cardinality: card,
		}
		switch {
		case scalarKinds[fd.Type] != 0:
			field.Kind = scalarKinds[fd.Type]
		case f.enums[schema.Name(fd.Type)] != nil:
			field.Kind = schema.EnumKind
			field.EnumType = f.enums[schema.Name(fd.Type)]
		case f.msgs[schema.Name(fd.Type)] != nil:
			field.Kind = schema.MessageKind
			field.MessageType = f.msgs[schema.Name(fd.Type)]
		default:
			return nil, errUnresolved
		}
		fields[i] = field
	}
	return schema.NewMessage(schema.FullName(m.Name), fields)
}
