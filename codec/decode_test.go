// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/schemapb/schemapb/codec"
	"github.com/schemapb/schemapb/schema"
)

// ev is one scripted field event: the identity delivered by ReadField and
// the value consumed by the subsequent decode call. The value is a Go
// scalar, a codec.Ident for enum fields, or a nested []ev for message
// fields.
type ev struct {
	id  codec.Ident
	val interface{}
}

// script is an in-memory codec.Reader driven by a fixed event list.
type script struct {
	frames    [][]ev
	pend      interface{}
	reportNil bool
}

var _ codec.Reader = (*script)(nil)

func newScript(evs []ev) *script {
	return &script{frames: [][]ev{evs}}
}

func (s *script) MessageEnd() (bool, error) {
	if len(s.frames[len(s.frames)-1]) > 0 {
		return false, nil
	}
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	return true, nil
}

func (s *script) ReadField() (codec.Ident, error) {
	top := &s.frames[len(s.frames)-1]
	e := (*top)[0]
	*top = (*top)[1:]
	s.pend = e.val
	return e.id, nil
}

func (s *script) ReadEnum() (codec.Ident, error) { return s.pend.(codec.Ident), nil }

func (s *script) EnterMessage() error {
	s.frames = append(s.frames, s.pend.([]ev))
	return nil
}

func (s *script) ReadBool() (bool, error)       { return s.pend.(bool), nil }
func (s *script) ReadInt32() (int32, error)     { return s.pend.(int32), nil }
func (s *script) ReadInt64() (int64, error)     { return s.pend.(int64), nil }
func (s *script) ReadUint32() (uint32, error)   { return s.pend.(uint32), nil }
func (s *script) ReadUint64() (uint64, error)   { return s.pend.(uint64), nil }
func (s *script) ReadSint32() (int32, error)    { return s.pend.(int32), nil }
func (s *script) ReadSint64() (int64, error)    { return s.pend.(int64), nil }
func (s *script) ReadFixed32() (uint32, error)  { return s.pend.(uint32), nil }
func (s *script) ReadFixed64() (uint64, error)  { return s.pend.(uint64), nil }
func (s *script) ReadSfixed32() (int32, error)  { return s.pend.(int32), nil }
func (s *script) ReadSfixed64() (int64, error)  { return s.pend.(int64), nil }
func (s *script) ReadFloat() (float32, error)   { return s.pend.(float32), nil }
func (s *script) ReadDouble() (float64, error)  { return s.pend.(float64), nil }
func (s *script) ReadString() (string, error)   { return s.pend.(string), nil }
func (s *script) ReadBytes() ([]byte, error)    { return s.pend.([]byte), nil }

func (s *script) ReportError(err error) error {
	if s.reportNil {
		return nil
	}
	return fmt.Errorf("reader: %w", err)
}

func mustMessage(t *testing.T, name schema.FullName, fields []schema.Field) *schema.Message {
	t.Helper()
	md, err := schema.NewMessage(name, fields)
	if err != nil {
		t.Fatalf("NewMessage(%v): %v", name, err)
	}
	return md
}

func mustEnum(t *testing.T, name schema.FullName, values []schema.EnumValue) *schema.Enum {
	t.Helper()
	ed, err := schema.NewEnum(name, values)
	if err != nil {
		t.Fatalf("NewEnum(%v): %v", name, err)
	}
	return ed
}

// personSchema builds the canonical test schema:
//
//	message Person {
//		required string name = 1;
//		optional int32 age = 2;
//		repeated string tag = 3;
//		optional Kind kind = 4;
//		optional Address addr = 5;
//	}
func personSchema(t *testing.T) *schema.Message {
	t.Helper()
	kind := mustEnum(t, "Kind", []schema.EnumValue{
		{Name: "ACTIVE", Number: 0},
		{Name: "RETIRED", Number: 5},
	})
	addr := mustMessage(t, "Address", []schema.Field{
		{Name: "street", Number: 1, Cardinality: schema.Required, Kind: schema.StringKind},
	})
	return mustMessage(t, "Person", []schema.Field{
		{Name: "name", Number: 1, Cardinality: schema.Required, Kind: schema.StringKind},
		{Name: "age", Number: 2, Cardinality: schema.Optional, Kind: schema.Int32Kind},
		{Name: "tag", Number: 3, Cardinality: schema.Repeated, Kind: schema.StringKind},
		{Name: "kind", Number: 4, Cardinality: schema.Optional, Kind: schema.EnumKind, EnumType: kind},
		{Name: "addr", Number: 5, Cardinality: schema.Optional, Kind: schema.MessageKind, MessageType: addr},
	})
}

// unwrap projects a decoded message into nested maps for comparison.
func unwrap(m *codec.Message) map[string]interface{} {
	out := map[string]interface{}{}
	for i := 0; i < m.Len(); i++ {
		f := m.Get(i)
		fd := f.Descriptor()
		if fd.Cardinality == schema.Repeated {
			var vs []interface{}
			for _, v := range f.List() {
				vs = append(vs, unwrapValue(v))
			}
			if vs != nil {
				out[string(fd.Name)] = vs
			}
			continue
		}
		if f.Has() {
			out[string(fd.Name)] = unwrapValue(f.Value())
		}
	}
	return out
}

func unwrapValue(v codec.Value) interface{} {
	if v.Kind() == schema.MessageKind {
		return unwrap(v.Message())
	}
	return v.Interface()
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		desc     string
		events   []ev
		want     map[string]interface{}
		wantCode codec.Code
	}{{
		desc: "fields in arrival order with interleaved repeats",
		events: []ev{
			{codec.ByName("name"), "Ann"},
			{codec.ByName("tag"), "x"},
			{codec.ByName("age"), int32(30)},
			{codec.ByName("tag"), "y"},
		},
		want: map[string]interface{}{
			"name": "Ann",
			"age":  int64(30),
			"tag":  []interface{}{"x", "y"},
		},
	}, {
		desc: "fields resolved by number",
		events: []ev{
			{codec.ByNumber(1), "Ann"},
			{codec.ByNumber(2), int32(30)},
		},
		want: map[string]interface{}{
			"name": "Ann",
			"age":  int64(30),
		},
	}, {
		desc: "mixed name and number identities for the same field",
		events: []ev{
			{codec.ByName("name"), "Ann"},
			{codec.ByNumber(3), "x"},
			{codec.ByName("tag"), "y"},
			{codec.ByNumber(3), "z"},
		},
		want: map[string]interface{}{
			"name": "Ann",
			"tag":  []interface{}{"x", "y", "z"},
		},
	}, {
		desc: "last occurrence wins for required field",
		events: []ev{
			{codec.ByName("name"), "Ann"},
			{codec.ByName("name"), "Bea"},
		},
		want: map[string]interface{}{"name": "Bea"},
	}, {
		desc: "last occurrence wins for optional field",
		events: []ev{
			{codec.ByName("name"), "Ann"},
			{codec.ByName("age"), int32(30)},
			{codec.ByName("age"), int32(31)},
		},
		want: map[string]interface{}{"name": "Ann", "age": int64(31)},
	}, {
		desc: "enum resolved by name",
		events: []ev{
			{codec.ByName("name"), "Ann"},
			{codec.ByName("kind"), codec.ByName("RETIRED")},
		},
		want: map[string]interface{}{"name": "Ann", "kind": 1},
	}, {
		desc: "enum resolved by number yields the same index",
		events: []ev{
			{codec.ByName("name"), "Ann"},
			{codec.ByName("kind"), codec.ByNumber(5)},
		},
		want: map[string]interface{}{"name": "Ann", "kind": 1},
	}, {
		desc: "nested message with its own cardinality rules",
		events: []ev{
			{codec.ByName("name"), "Ann"},
			{codec.ByName("addr"), []ev{
				{codec.ByName("street"), "High St"},
			}},
		},
		want: map[string]interface{}{
			"name": "Ann",
			"addr": map[string]interface{}{"street": "High St"},
		},
	}, {
		desc:     "missing required field",
		events:   []ev{{codec.ByName("age"), int32(30)}},
		wantCode: codec.NoValueForRequiredField,
	}, {
		desc:     "missing required field in nested message",
		events:   []ev{{codec.ByName("name"), "Ann"}, {codec.ByName("addr"), []ev{}}},
		wantCode: codec.NoValueForRequiredField,
	}, {
		desc:     "unknown field name",
		events:   []ev{{codec.ByName("nam"), "Ann"}},
		wantCode: codec.NoFieldWithName,
	}, {
		desc:     "unknown field number",
		events:   []ev{{codec.ByNumber(99), "Ann"}},
		wantCode: codec.NoFieldWithNumber,
	}, {
		desc: "field number queried as name fails on the name axis",
		// "2" is a declared field number but never a field name.
		events:   []ev{{codec.ByName("2"), int32(30)}},
		wantCode: codec.NoFieldWithName,
	}, {
		desc:     "unknown enum value name",
		events:   []ev{{codec.ByName("name"), "Ann"}, {codec.ByName("kind"), codec.ByName("GONE")}},
		wantCode: codec.NoEnumValueWithName,
	}, {
		desc:     "unknown enum value number",
		events:   []ev{{codec.ByName("name"), "Ann"}, {codec.ByName("kind"), codec.ByNumber(7)}},
		wantCode: codec.NoEnumValueWithNumber,
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			md := personSchema(t)
			got, err := codec.Unmarshal(md, newScript(tt.events))
			if tt.wantCode != 0 {
				if err == nil {
					t.Fatalf("Unmarshal succeeded, want %v error", tt.wantCode)
				}
				var ce *codec.Error
				if !errors.As(err, &ce) || ce.Code != tt.wantCode {
					t.Fatalf("Unmarshal error %v, want code %v", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got.Len() != md.Fields().Len() {
				t.Fatalf("message has %d slots, want %d", got.Len(), md.Fields().Len())
			}
			if diff := cmp.Diff(tt.want, unwrap(got)); diff != "" {
				t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalArrivalOrderIndependence(t *testing.T) {
	events := []ev{
		{codec.ByName("name"), "Ann"},
		{codec.ByName("age"), int32(30)},
		{codec.ByName("kind"), codec.ByName("ACTIVE")},
	}
	md := personSchema(t)

	var want map[string]interface{}
	for _, p := range permutations(events) {
		got, err := codec.Unmarshal(md, newScript(p))
		if err != nil {
			t.Fatalf("Unmarshal(%v): %v", p, err)
		}
		if want == nil {
			want = unwrap(got)
			continue
		}
		if diff := cmp.Diff(want, unwrap(got)); diff != "" {
			t.Errorf("permutation %v mismatch (-want +got):\n%s", p, diff)
		}
	}
}

func permutations(evs []ev) [][]ev {
	if len(evs) <= 1 {
		return [][]ev{evs}
	}
	var out [][]ev
	for i := range evs {
		rest := make([]ev, 0, len(evs)-1)
		rest = append(rest, evs[:i]...)
		rest = append(rest, evs[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]ev{evs[i]}, p...))
		}
	}
	return out
}

func TestUnmarshalOptionalAbsent(t *testing.T) {
	md := personSchema(t)
	got, err := codec.Unmarshal(md, newScript([]ev{{codec.ByName("name"), "Ann"}}))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f := got.ByName("age"); f.Has() {
		t.Errorf("age slot is populated, want absent")
	}
	if f := got.ByName("tag"); len(f.List()) != 0 {
		t.Errorf("tag slot has %d values, want none", len(f.List()))
	}
}

// TestUnmarshalDeepNesting decodes three levels of messages, each applying
// its own cardinality rules.
func TestUnmarshalDeepNesting(t *testing.T) {
	m3 := mustMessage(t, "M3", []schema.Field{
		{Name: "leaf", Number: 1, Cardinality: schema.Required, Kind: schema.Int64Kind},
	})
	m2 := mustMessage(t, "M2", []schema.Field{
		{Name: "m3", Number: 1, Cardinality: schema.Repeated, Kind: schema.MessageKind, MessageType: m3},
	})
	m1 := mustMessage(t, "M1", []schema.Field{
		{Name: "m2", Number: 1, Cardinality: schema.Optional, Kind: schema.MessageKind, MessageType: m2},
	})

	events := []ev{
		{codec.ByName("m2"), []ev{
			{codec.ByName("m3"), []ev{{codec.ByName("leaf"), int64(1)}}},
			{codec.ByName("m3"), []ev{{codec.ByName("leaf"), int64(2)}}},
		}},
	}
	got, err := codec.Unmarshal(m1, newScript(events))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := map[string]interface{}{
		"m2": map[string]interface{}{
			"m3": []interface{}{
				map[string]interface{}{"leaf": int64(1)},
				map[string]interface{}{"leaf": int64(2)},
			},
		},
	}
	if diff := cmp.Diff(want, unwrap(got)); diff != "" {
		t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalMaxDepth(t *testing.T) {
	inner := mustMessage(t, "Inner", []schema.Field{
		{Name: "leaf", Number: 1, Cardinality: schema.Optional, Kind: schema.BoolKind},
	})
	mid := mustMessage(t, "Mid", []schema.Field{
		{Name: "inner", Number: 1, Cardinality: schema.Optional, Kind: schema.MessageKind, MessageType: inner},
	})
	outer := mustMessage(t, "Outer", []schema.Field{
		{Name: "mid", Number: 1, Cardinality: schema.Optional, Kind: schema.MessageKind, MessageType: mid},
	})
	events := []ev{
		{codec.ByName("mid"), []ev{
			{codec.ByName("inner"), []ev{{codec.ByName("leaf"), true}}},
		}},
	}

	o := codec.UnmarshalOptions{MaxDepth: 2}
	_, err := o.Unmarshal(outer, newScript(events))
	var ce *codec.Error
	if !errors.As(err, &ce) || ce.Code != codec.DepthExceeded {
		t.Fatalf("Unmarshal error %v, want code %v", err, codec.DepthExceeded)
	}

	// The same input decodes with a sufficient limit.
	o = codec.UnmarshalOptions{MaxDepth: 3}
	if _, err := o.Unmarshal(outer, newScript(events)); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
}

// TestUnmarshalReportError checks that engine errors pass through the
// reader's error channel and keep their identity, and that a reader
// returning nil from ReportError cannot make a failure disappear.
func TestUnmarshalReportError(t *testing.T) {
	md := personSchema(t)

	s := newScript([]ev{{codec.ByName("bogus"), "x"}})
	_, err := codec.Unmarshal(md, s)
	if err == nil || err.Error() != `reader: schemapb: no field with name "bogus"` {
		t.Errorf("Unmarshal error %v, want reader-wrapped lookup error", err)
	}

	s = newScript([]ev{{codec.ByName("bogus"), "x"}})
	s.reportNil = true
	_, err = codec.Unmarshal(md, s)
	var ce *codec.Error
	if !errors.As(err, &ce) || ce.Code != codec.NoFieldWithName {
		t.Errorf("Unmarshal error %v, want code %v", err, codec.NoFieldWithName)
	}
}

// TestUnmarshalConcurrent decodes in parallel, one reader instance per
// call, and expects identical results.
func TestUnmarshalConcurrent(t *testing.T) {
	md := personSchema(t)
	events := []ev{
		{codec.ByName("name"), "Ann"},
		{codec.ByName("tag"), "x"},
		{codec.ByName("age"), int32(30)},
		{codec.ByName("tag"), "y"},
	}
	want := map[string]interface{}{
		"name": "Ann",
		"age":  int64(30),
		"tag":  []interface{}{"x", "y"},
	}

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			evs := make([]ev, len(events))
			copy(evs, events)
			m, err := codec.Unmarshal(md, newScript(evs))
			if err != nil {
				return err
			}
			if diff := cmp.Diff(want, unwrap(m)); diff != "" {
				return fmt.Errorf("mismatch (-want +got):\n%s", diff)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
