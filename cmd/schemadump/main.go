// Copyright 2026 The SchemaPB Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// schemadump is a tool for decoding wire- or text-format messages against a
// schema described in a TOML document.
//
// If no inputs are specified, the data is read from stdin; otherwise the
// contents of each specified input file are concatenated and treated as one
// large message.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/schemapb/schemapb/codec"
	"github.com/schemapb/schemapb/encoding/prototext"
	"github.com/schemapb/schemapb/encoding/protowire"
	"github.com/schemapb/schemapb/schema"
	"github.com/schemapb/schemapb/schemafile"
)

func main() {
	schemaPath := flag.String("schema", "", "Path to the TOML schema document")
	format := flag.String("format", "wire", "Input format: wire or text")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -schema FILE [-format wire|text] [INPUTS]...\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(os.Stderr, "Print structured representations of encoded messages.")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if *schemaPath == "" {
		flag.Usage()
		log.Fatal().Msg("missing -schema")
	}
	f, err := schemafile.Load(*schemaPath)
	if err != nil {
		log.Fatal().Err(err).Str("schema", *schemaPath).Msg("cannot load schema")
	}
	log.Debug().Str("root", string(f.Root().FullName())).Msg("schema loaded")

	var in []byte
	if flag.NArg() == 0 {
		in, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot read stdin")
		}
	} else {
		for _, path := range flag.Args() {
			b, err := os.ReadFile(path)
			if err != nil {
				log.Fatal().Err(err).Str("input", path).Msg("cannot read input")
			}
			in = append(in, b...)
		}
	}

	var m *codec.Message
	switch *format {
	case "wire":
		m, err = protowire.Unmarshal(f.Root(), in)
	case "text":
		m, err = prototext.Unmarshal(f.Root(), in)
	default:
		log.Fatal().Str("format", *format).Msg("unknown format")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("cannot decode message")
	}
	log.Debug().Int("bytes", len(in)).Int("fields", m.Len()).Msg("message decoded")

	var sb strings.Builder
	formatMessage(&sb, m, "")
	os.Stdout.WriteString(sb.String())
}

func formatMessage(sb *strings.Builder, m *codec.Message, indent string) {
	for i := 0; i < m.Len(); i++ {
		fld := m.Get(i)
		fd := fld.Descriptor()
		if fd.Cardinality == schema.Repeated {
			for _, v := range fld.List() {
				formatField(sb, fd, v, indent)
			}
			continue
		}
		if fld.Has() {
			formatField(sb, fd, fld.Value(), indent)
		}
	}
}

func formatField(sb *strings.Builder, fd *schema.Field, v codec.Value, indent string) {
	switch fd.Kind {
	case schema.MessageKind:
		fmt.Fprintf(sb, "%s%s: {\n", indent, fd.Name)
		formatMessage(sb, v.Message(), indent+"\t")
		fmt.Fprintf(sb, "%s}\n", indent)
	case schema.EnumKind:
		ev := fd.EnumType.Values().Get(v.Enum())
		fmt.Fprintf(sb, "%s%s: %s\n", indent, fd.Name, ev.Name)
	case schema.StringKind:
		fmt.Fprintf(sb, "%s%s: %q\n", indent, fd.Name, v.String())
	case schema.BytesKind:
		fmt.Fprintf(sb, "%s%s: %q\n", indent, fd.Name, v.Bytes())
	default:
		fmt.Fprintf(sb, "%s%s: %v\n", indent, fd.Name, v.Interface())
	}
}
