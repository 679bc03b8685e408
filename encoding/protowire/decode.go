// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protowire provides a binary wire-format framing capability for
// the codec engine.
//
// The wire format identifies fields and enum values by number only, so
// every identity this reader produces is numeric. Nested messages are
// length-delimited sub-frames. Packed repeated encodings are not handled;
// each occurrence of a field carries its own tag.
package protowire

import (
	"fmt"
	"math"

	"github.com/schemapb/schemapb/codec"
	"github.com/schemapb/schemapb/internal/encoding/wire"
	"github.com/schemapb/schemapb/internal/errors"
	"github.com/schemapb/schemapb/schema"
)

// Unmarshal decodes one message of schema md from the wire format in b.
func Unmarshal(md *schema.Message, b []byte) (*codec.Message, error) {
	return codec.Unmarshal(md, NewReader(b))
}

// Reader is a codec.Reader over the binary wire format. A Reader backs
// exactly one codec.Unmarshal call.
type Reader struct {
	b    []byte
	pos  int
	ends []int     // end offset per open frame; the root frame is len(b)
	typ  wire.Type // wire type of the pending field value
}

var _ codec.Reader = (*Reader)(nil)

// NewReader returns a Reader over the wire-format message in b.
func NewReader(b []byte) *Reader {
	return &Reader{b: b, ends: []int{len(b)}}
}

func (r *Reader) rest() []byte {
	return r.b[r.pos:r.ends[len(r.ends)-1]]
}

// MessageEnd implements codec.Reader. Reporting the end of a nested frame
// also returns the reader to the enclosing frame.
func (r *Reader) MessageEnd() (bool, error) {
	end := r.ends[len(r.ends)-1]
	if r.pos > end {
		return false, errors.New("at offset %d: frame overrun", r.pos)
	}
	if r.pos < end {
		return false, nil
	}
	if len(r.ends) > 1 {
		r.ends = r.ends[:len(r.ends)-1]
	}
	return true, nil
}

// ReadField implements codec.Reader.
func (r *Reader) ReadField() (codec.Ident, error) {
	num, typ, n, err := wire.ConsumeTag(r.rest())
	if err != nil {
		return codec.Ident{}, errors.New("at offset %d: %v", r.pos, err)
	}
	if typ == wire.StartGroupType || typ == wire.EndGroupType {
		return codec.Ident{}, errors.New("at offset %d: group wire types are not supported", r.pos)
	}
	r.pos += n
	r.typ = typ
	return codec.ByNumber(int64(num)), nil
}

// ReadEnum implements codec.Reader. Enum values are varints on the wire and
// are always identified by number.
func (r *Reader) ReadEnum() (codec.Ident, error) {
	v, err := r.varint()
	if err != nil {
		return codec.Ident{}, err
	}
	return codec.ByNumber(int64(int32(v))), nil
}

// EnterMessage implements codec.Reader. The nested frame spans the
// length-delimited payload of the pending field.
func (r *Reader) EnterMessage() error {
	if r.typ != wire.BytesType {
		return r.typeMismatch(wire.BytesType)
	}
	v, n, err := wire.ConsumeBytes(r.rest())
	if err != nil {
		return errors.New("at offset %d: %v", r.pos, err)
	}
	r.pos += n - len(v)
	r.ends = append(r.ends, r.pos+len(v))
	return nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.varint()
	if err != nil {
		return false, err
	}
	return wire.DecodeBool(v), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.varint()
	return int32(v), err
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.varint()
	return int64(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	v, err := r.varint()
	return uint32(v), err
}

func (r *Reader) ReadUint64() (uint64, error) {
	return r.varint()
}

func (r *Reader) ReadSint32() (int32, error) {
	v, err := r.varint()
	return int32(wire.DecodeZigZag(v & math.MaxUint32)), err
}

func (r *Reader) ReadSint64() (int64, error) {
	v, err := r.varint()
	return wire.DecodeZigZag(v), err
}

func (r *Reader) ReadFixed32() (uint32, error) {
	return r.fixed32()
}

func (r *Reader) ReadFixed64() (uint64, error) {
	return r.fixed64()
}

func (r *Reader) ReadSfixed32() (int32, error) {
	v, err := r.fixed32()
	return int32(v), err
}

func (r *Reader) ReadSfixed64() (int64, error) {
	v, err := r.fixed64()
	return int64(v), err
}

func (r *Reader) ReadFloat() (float32, error) {
	v, err := r.fixed32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadDouble() (float64, error) {
	v, err := r.fixed64()
	return math.Float64frombits(v), err
}

func (r *Reader) ReadString() (string, error) {
	v, err := r.bytes()
	return string(v), err
}

func (r *Reader) ReadBytes() ([]byte, error) {
	return r.bytes()
}

// ReportError implements codec.Reader, attaching the current byte offset.
func (r *Reader) ReportError(err error) error {
	return fmt.Errorf("%w (at offset %d)", err, r.pos)
}

func (r *Reader) varint() (uint64, error) {
	if r.typ != wire.VarintType {
		return 0, r.typeMismatch(wire.VarintType)
	}
	v, n, err := wire.ConsumeVarint(r.rest())
	if err != nil {
		return 0, errors.New("at offset %d: %v", r.pos, err)
	}
	r.pos += n
	return v, nil
}

func (r *Reader) fixed32() (uint32, error) {
	if r.typ != wire.Fixed32Type {
		return 0, r.typeMismatch(wire.Fixed32Type)
	}
	v, n, err := wire.ConsumeFixed32(r.rest())
	if err != nil {
		return 0, errors.New("at offset %d: %v", r.pos, err)
	}
	r.pos += n
	return v, nil
}

func (r *Reader) fixed64() (uint64, error) {
	if r.typ != wire.Fixed64Type {
		return 0, r.typeMismatch(wire.Fixed64Type)
	}
	v, n, err := wire.ConsumeFixed64(r.rest())
	if err != nil {
		return 0, errors.New("at offset %d: %v", r.pos, err)
	}
	r.pos += n
	return v, nil
}

func (r *Reader) bytes() ([]byte, error) {
	if r.typ != wire.BytesType {
		return nil, r.typeMismatch(wire.BytesType)
	}
	v, n, err := wire.ConsumeBytes(r.rest())
	if err != nil {
		return nil, errors.New("at offset %d: %v", r.pos, err)
	}
	r.pos += n
	return v, nil
}

func (r *Reader) typeMismatch(want wire.Type) error {
	return errors.New("at offset %d: unexpected wire type %v, expected %v", r.pos, r.typ, want)
}
