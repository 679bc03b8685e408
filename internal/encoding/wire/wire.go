// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire parses the low-level binary wire format.
// This package has no semantic understanding of messages and deals only
// with tags, varints, fixed-width integers, and length-delimited payloads.
package wire

import (
	"io"

	"github.com/schemapb/schemapb/internal/errors"
)

// Number represents the field number.
type Number int32

const (
	MinValidNumber Number = 1
	MaxValidNumber Number = 1<<29 - 1
)

// IsValid reports whether the field number is semantically valid.
func (n Number) IsValid() bool {
	return MinValidNumber <= n && n <= MaxValidNumber
}

// Type represents the wire type.
type Type int8

const (
	VarintType     Type = 0
	Fixed64Type    Type = 1
	BytesType      Type = 2
	StartGroupType Type = 3
	EndGroupType   Type = 4
	Fixed32Type    Type = 5
)

func (t Type) String() string {
	switch t {
	case VarintType:
		return "varint"
	case Fixed64Type:
		return "fixed64"
	case BytesType:
		return "bytes"
	case StartGroupType:
		return "start_group"
	case EndGroupType:
		return "end_group"
	case Fixed32Type:
		return "fixed32"
	default:
		return "<unknown>"
	}
}

var (
	errFieldNumber = errors.New("invalid field number")
	errOverflow    = errors.New("variable length integer overflow")
	errReserved    = errors.New("cannot parse reserved wire type")
)

// ConsumeTag parses b as a varint-encoded tag, reporting its length.
func ConsumeTag(b []byte) (Number, Type, int, error) {
	v, n, err := ConsumeVarint(b)
	if err != nil {
		return 0, 0, 0, err
	}
	num, typ := Number(v>>3), Type(v&7)
	if !num.IsValid() {
		return 0, 0, 0, errFieldNumber
	}
	return num, typ, n, nil
}

// ConsumeVarint parses b as a varint-encoded uint64, reporting its length.
func ConsumeVarint(b []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < len(b); i++ {
		if i == 10 {
			return 0, 0, errOverflow
		}
		c := b[i]
		v |= uint64(c&0x7f) << uint(7*i)
		if c < 0x80 {
			return v, i + 1, nil
		}
	}
	return 0, 0, io.ErrUnexpectedEOF
}

// ConsumeFixed32 parses b as a little-endian uint32, reporting its length.
func ConsumeFixed32(b []byte) (uint32, int, error) {
	if len(b) < 4 {
		return 0, 0, io.ErrUnexpectedEOF
	}
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return v, 4, nil
}

// ConsumeFixed64 parses b as a little-endian uint64, reporting its length.
func ConsumeFixed64(b []byte) (uint64, int, error) {
	if len(b) < 8 {
		return 0, 0, io.ErrUnexpectedEOF
	}
	v := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	return v, 8, nil
}

// ConsumeBytes parses b as a length-prefixed payload, reporting the total
// consumed length (prefix included).
func ConsumeBytes(b []byte) ([]byte, int, error) {
	m, n, err := ConsumeVarint(b)
	if err != nil {
		return nil, 0, err
	}
	if m > uint64(len(b[n:])) {
		return nil, 0, io.ErrUnexpectedEOF
	}
	return b[n:][:m], n + int(m), nil
}

// ConsumeFieldValue skips over the value of a field with the given wire
// type, reporting its length. Group wire types are reserved here; the
// framing layer rejects them before skipping.
func ConsumeFieldValue(typ Type, b []byte) (int, error) {
	switch typ {
	case VarintType:
		_, n, err := ConsumeVarint(b)
		return n, err
	case Fixed32Type:
		_, n, err := ConsumeFixed32(b)
		return n, err
	case Fixed64Type:
		_, n, err := ConsumeFixed64(b)
		return n, err
	case BytesType:
		_, n, err := ConsumeBytes(b)
		return n, err
	default:
		return 0, errReserved
	}
}

// DecodeZigZag decodes a zig-zag-encoded uint64 as an int64.
//
//	Input:  {…,  5,  3,  1,  0,  2,  4,  6, …}
//	Output: {…, -3, -2, -1,  0, +1, +2, +3, …}
func DecodeZigZag(x uint64) int64 {
	return int64(x>>1) ^ int64(x)<<63>>63
}

// DecodeBool decodes a uint64 as a bool.
//
//	Input:  {    0,    1,    2, …}
//	Output: {false, true, true, …}
func DecodeBool(x uint64) bool {
	return x != 0
}
