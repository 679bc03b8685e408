// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prototext provides a text-format framing capability for the
// codec engine.
//
// Message keys that are identifiers surface as by-name field identities;
// numeric keys surface as by-number identities. Enum values may likewise be
// written as either the value name or the value number.
package prototext

import (
	"github.com/schemapb/schemapb/codec"
	"github.com/schemapb/schemapb/internal/encoding/text"
	"github.com/schemapb/schemapb/internal/errors"
	"github.com/schemapb/schemapb/schema"
)

// Unmarshal decodes one message of schema md from the text format in b.
func Unmarshal(md *schema.Message, b []byte) (*codec.Message, error) {
	r, err := NewReader(b)
	if err != nil {
		return nil, err
	}
	return codec.Unmarshal(md, r)
}

// Reader is a codec.Reader over the text format. A Reader backs exactly one
// codec.Unmarshal call.
type Reader struct {
	stack   []frame
	pending text.Value
	hasPend bool
}

var _ codec.Reader = (*Reader)(nil)

// frame is the field stream of one (possibly nested) message.
type frame struct {
	items []item
	pos   int
}

type item struct {
	key text.Value
	val text.Value
}

// NewReader parses b and returns a Reader positioned at the first field of
// the top-level message.
func NewReader(b []byte) (*Reader, error) {
	v, err := text.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	return &Reader{stack: []frame{{items: flatten(v.Message())}}}, nil
}

// flatten expands list values (`f: [a, b]`) into one field event per
// element, preserving document order.
func flatten(obj [][2]text.Value) []item {
	var items []item
	for _, kv := range obj {
		if kv[1].Type() == text.List {
			for _, el := range kv[1].List() {
				items = append(items, item{key: kv[0], val: el})
			}
			continue
		}
		items = append(items, item{key: kv[0], val: kv[1]})
	}
	return items
}

func (r *Reader) top() *frame { return &r.stack[len(r.stack)-1] }

// MessageEnd implements codec.Reader. Reporting the end of a nested message
// also returns the reader to the enclosing message's field stream.
func (r *Reader) MessageEnd() (bool, error) {
	f := r.top()
	if f.pos < len(f.items) {
		return false, nil
	}
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
	return true, nil
}

// ReadField implements codec.Reader.
func (r *Reader) ReadField() (codec.Ident, error) {
	f := r.top()
	it := f.items[f.pos]
	f.pos++
	r.pending, r.hasPend = it.val, true
	switch it.key.Type() {
	case text.Name:
		name, _ := it.key.Name()
		return codec.ByName(name), nil
	case text.Int, text.Uint:
		n, ok := it.key.Uint(false)
		if !ok {
			return codec.Ident{}, errors.New("invalid field number: %v", it.key)
		}
		return codec.ByNumber(int64(n)), nil
	default:
		return codec.Ident{}, errors.New("invalid message key: %v", it.key)
	}
}

// ReadEnum implements codec.Reader. A numeric literal identifies the enum
// value by number, an identifier by name.
func (r *Reader) ReadEnum() (codec.Ident, error) {
	v, err := r.take()
	if err != nil {
		return codec.Ident{}, err
	}
	if n, ok := v.Int(false); ok {
		return codec.ByNumber(n), nil
	}
	if name, ok := v.Name(); ok {
		return codec.ByName(name), nil
	}
	return codec.Ident{}, errors.New("invalid enum value: %v", v)
}

// EnterMessage implements codec.Reader.
func (r *Reader) EnterMessage() error {
	v, err := r.take()
	if err != nil {
		return err
	}
	if v.Type() != text.Message {
		return errors.New("invalid message value: %v", v)
	}
	r.stack = append(r.stack, frame{items: flatten(v.Message())})
	return nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.take()
	if err != nil {
		return false, err
	}
	if x, ok := v.Bool(); ok {
		return x, nil
	}
	return false, errors.New("invalid bool value: %v", v)
}

func (r *Reader) ReadInt32() (int32, error)    { return r.int32Value() }
func (r *Reader) ReadSint32() (int32, error)   { return r.int32Value() }
func (r *Reader) ReadSfixed32() (int32, error) { return r.int32Value() }
func (r *Reader) ReadInt64() (int64, error)    { return r.int64Value() }
func (r *Reader) ReadSint64() (int64, error)   { return r.int64Value() }
func (r *Reader) ReadSfixed64() (int64, error) { return r.int64Value() }
func (r *Reader) ReadUint32() (uint32, error)  { return r.uint32Value() }
func (r *Reader) ReadFixed32() (uint32, error) { return r.uint32Value() }
func (r *Reader) ReadUint64() (uint64, error)  { return r.uint64Value() }
func (r *Reader) ReadFixed64() (uint64, error) { return r.uint64Value() }

func (r *Reader) ReadFloat() (float32, error) {
	v, err := r.take()
	if err != nil {
		return 0, err
	}
	if x, ok := v.Float32(); ok {
		return x, nil
	}
	return 0, errors.New("invalid float value: %v", v)
}

func (r *Reader) ReadDouble() (float64, error) {
	v, err := r.take()
	if err != nil {
		return 0, err
	}
	if x, ok := v.Float64(); ok {
		return x, nil
	}
	return 0, errors.New("invalid double value: %v", v)
}

func (r *Reader) ReadString() (string, error) {
	v, err := r.take()
	if err != nil {
		return "", err
	}
	if v.Type() != text.String {
		return "", errors.New("invalid string value: %v", v)
	}
	return v.String(), nil
}

func (r *Reader) ReadBytes() ([]byte, error) {
	v, err := r.take()
	if err != nil {
		return nil, err
	}
	if v.Type() != text.String {
		return nil, errors.New("invalid bytes value: %v", v)
	}
	return []byte(v.String()), nil
}

// ReportError implements codec.Reader. The text tree is fully parsed before
// decoding starts, so no positional context remains to attach.
func (r *Reader) ReportError(err error) error { return err }

// take returns the value of the field most recently delivered by ReadField.
func (r *Reader) take() (text.Value, error) {
	if !r.hasPend {
		return text.Value{}, errors.New("no field value pending")
	}
	r.hasPend = false
	return r.pending, nil
}

func (r *Reader) int32Value() (int32, error) {
	v, err := r.take()
	if err != nil {
		return 0, err
	}
	if x, ok := v.Int(false); ok {
		return int32(x), nil
	}
	return 0, errors.New("invalid int32 value: %v", v)
}

func (r *Reader) int64Value() (int64, error) {
	v, err := r.take()
	if err != nil {
		return 0, err
	}
	if x, ok := v.Int(true); ok {
		return x, nil
	}
	return 0, errors.New("invalid int64 value: %v", v)
}

func (r *Reader) uint32Value() (uint32, error) {
	v, err := r.take()
	if err != nil {
		return 0, err
	}
	if x, ok := v.Uint(false); ok {
		return uint32(x), nil
	}
	return 0, errors.New("invalid uint32 value: %v", v)
}

func (r *Reader) uint64Value() (uint64, error) {
	v, err := r.take()
	if err != nil {
		return 0, err
	}
	if x, ok := v.Uint(true); ok {
		return x, nil
	}
	return 0, errors.New("invalid uint64 value: %v", v)
}
