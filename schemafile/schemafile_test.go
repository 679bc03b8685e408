// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schemafile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/schemapb/schemapb/schema"
)

const personDoc = `
root = "Person"

# Person is declared before Address and refers to it by name.
[[messages]]
name = "Person"

  [[messages.fields]]
  name = "name"
  number = 1
  type = "string"
  cardinality = "required"

  [[messages.fields]]
  name = "age"
  number = 2
  type = "int32"
  cardinality = "optional"

  [[messages.fields]]
  name = "kind"
  number = 3
  type = "Kind"
  cardinality = "optional"

  [[messages.fields]]
  name = "addr"
  number = 4
  type = "Address"
  cardinality = "repeated"

[[messages]]
name = "Address"

  [[messages.fields]]
  name = "street"
  number = 1
  type = "string"
  cardinality = "required"

[[enums]]
name = "Kind"

  [[enums.values]]
  name = "ACTIVE"
  number = 0

  [[enums.values]]
  name = "RETIRED"
  number = 5
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(personDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := f.Root()
	if root == nil || root.FullName() != "Person" {
		t.Fatalf("Root() = %v, want Person", root)
	}
	if f.Message("Address") == nil || f.Enum("Kind") == nil {
		t.Fatalf("declared types not resolvable by name")
	}

	fields := root.Fields()
	if fields.Len() != 4 {
		t.Fatalf("Person has %d fields, want 4", fields.Len())
	}
	if fd := fields.ByName("name"); fd.Kind != schema.StringKind || fd.Cardinality != schema.Required || fd.Number != 1 {
		t.Errorf("name field = %+v, want required string 1", fd)
	}
	if fd := fields.ByName("kind"); fd.Kind != schema.EnumKind || fd.EnumType != f.Enum("Kind") {
		t.Errorf("kind field = %+v, want enum Kind", fd)
	}
	fd := fields.ByName("addr")
	if fd.Kind != schema.MessageKind || fd.Cardinality != schema.Repeated {
		t.Fatalf("addr field = %+v, want repeated message", fd)
	}
	// Forward reference resolved to the same descriptor as the declaration.
	if fd.MessageType != f.Message("Address") {
		t.Errorf("addr refers to a different Address descriptor")
	}
	if ev := fd.MessageType.Fields().ByName("street"); ev == nil {
		t.Errorf("Address has no street field")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "person.toml")
	if err := os.WriteFile(path, []byte(personDoc), 0664); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Root().FullName() != "Person" {
		t.Errorf("Root() = %v, want Person", f.Root().FullName())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Errorf("Load of missing file succeeded, want error")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		desc    string
		in      string
		wantErr string
	}{{
		desc:    "not valid toml",
		in:      `root = `,
		wantErr: "parse schema",
	}, {
		desc: "duplicate declaration",
		in: `
root = "A"
[[messages]]
name = "A"
[[enums]]
name = "A"
  [[enums.values]]
  name = "X"
  number = 0
`,
		wantErr: "duplicate declaration",
	}, {
		desc: "unknown cardinality",
		in: `
root = "A"
[[messages]]
name = "A"
  [[messages.fields]]
  name = "x"
  number = 1
  type = "bool"
  cardinality = "sometimes"
`,
		wantErr: "unknown cardinality",
	}, {
		desc: "unresolvable field type",
		in: `
root = "A"
[[messages]]
name = "A"
  [[messages.fields]]
  name = "x"
  number = 1
  type = "Missing"
  cardinality = "optional"
`,
		wantErr: "unresolvable or recursive",
	}, {
		desc: "mutually recursive messages",
		in: `
root = "A"
[[messages]]
name = "A"
  [[messages.fields]]
  name = "b"
  number = 1
  type = "B"
  cardinality = "optional"
[[messages]]
name = "B"
  [[messages.fields]]
  name = "a"
  number = 1
  type = "A"
  cardinality = "optional"
`,
		wantErr: "unresolvable or recursive",
	}, {
		desc: "no root",
		in: `
[[messages]]
name = "A"
`,
		wantErr: "no root message",
	}, {
		desc: "undeclared root",
		in: `
root = "B"
[[messages]]
name = "A"
`,
		wantErr: `root message "B" is not declared`,
	}, {
		desc: "invalid descriptor",
		in: `
root = "A"
[[messages]]
name = "A"
  [[messages.fields]]
  name = "x"
  number = 0
  type = "bool"
  cardinality = "optional"
`,
		wantErr: "invalid number",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse error %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
