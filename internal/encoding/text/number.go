// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package text

import (
	"bytes"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// These regular expressions were derived from the protobuf text grammar
// as implemented by the C++ tokenizer.
var (
	literals = map[string]interface{}{
		"t":     true,
		"true":  true,
		"True":  true,
		"f":     false,
		"false": false,
		"False": false,

		"nan":  math.NaN(),
		"inf":  math.Inf(+1),
		"-inf": math.Inf(-1),
	}
	literalRegexp = regexp.MustCompile("^-?[a-zA-Z]+")
	intRegexp     = regexp.MustCompile("^-?([1-9][0-9]*|0[xX][0-9a-fA-F]+|0[0-7]*)")
	floatRegexp   = regexp.MustCompile("^-?((0|[1-9][0-9]*)?([.][0-9]*)?([eE][+-]?[0-9]+)?[fF]?)")
)

// unmarshalNumber decodes a Bool, Int, Uint, or Float from the input.
func (p *decoder) unmarshalNumber() (Value, error) {
	v, n, err := consumeNumber(p.in)
	p.consume(n)
	return v, err
}

func consumeNumber(in []byte) (Value, int, error) {
	if len(in) == 0 {
		return Value{}, 0, io.ErrUnexpectedEOF
	}
	if n := matchWithDelim(literalRegexp, in); n > 0 {
		if v, ok := literals[string(in[:n])]; ok {
			return rawValueOf(v, in[:n:n]), n, nil
		}
	}
	if n := matchWithDelim(floatRegexp, in); n > 0 {
		if bytes.ContainsAny(in[:n], ".eEfF") {
			s := strings.TrimRight(string(in[:n]), "fF")
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Value{}, 0, err
			}
			return rawValueOf(f, in[:n:n]), n, nil
		}
	}
	if n := matchWithDelim(intRegexp, in); n > 0 {
		if in[0] == '-' {
			v, err := strconv.ParseInt(string(in[:n]), 0, 64)
			if err != nil {
				return Value{}, 0, err
			}
			return rawValueOf(v, in[:n:n]), n, nil
		}
		v, err := strconv.ParseUint(string(in[:n]), 0, 64)
		if err != nil {
			return Value{}, 0, err
		}
		return rawValueOf(v, in[:n:n]), n, nil
	}
	return Value{}, 0, newSyntaxError("invalid %q as number or bool", errRegexp.Find(in))
}
