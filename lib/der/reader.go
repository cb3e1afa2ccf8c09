/*
 * Copyright (c) SAS Institute Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package der implements the small subset of ASN.1 DER needed to move private
// keys between container formats. Unlike encoding/asn1 every structural
// failure is reported as a distinct sentinel error, and BER-only encodings
// are rejected rather than tolerated.
package der

import (
	"encoding/asn1"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
)

const (
	TagInteger     byte = 0x02
	TagBitString   byte = 0x03
	TagOctetString byte = 0x04
	TagNull        byte = 0x05
	TagOID         byte = 0x06
	TagSequence    byte = 0x30

	classContext    byte = 0x80
	flagConstructed byte = 0x20
)

// MaxDepth bounds how deeply constructed values may nest
const MaxDepth = 16

// ContextExplicit returns the identifier octet of a constructed
// context-specific tag such as [0] or [1]
func ContextExplicit(n int) byte {
	return classContext | flagConstructed | byte(n)
}

// ContextImplicit returns the identifier octet of a primitive
// context-specific tag
func ContextImplicit(n int) byte {
	return classContext | byte(n)
}

// Value is a single decoded TLV. Content and Raw alias the input buffer.
type Value struct {
	Tag     byte
	Content []byte
	Raw     []byte
}

func (v Value) Constructed() bool {
	return v.Tag&flagConstructed != 0
}

// ReadTLV reads one tag-length-value starting at offset and returns the value
// along with the offset of the byte following it.
func ReadTLV(data []byte, offset int) (Value, int, error) {
	if offset < 0 || offset >= len(data) {
		return Value{}, 0, fmt.Errorf("%w: missing tag at offset %d", ErrTruncatedInput, offset)
	}
	tag := data[offset]
	if tag&0x1f == 0x1f {
		return Value{}, 0, fmt.Errorf("%w: high tag number form at offset %d", ErrMalformedStructure, offset)
	}
	pos := offset + 1
	if pos >= len(data) {
		return Value{}, 0, fmt.Errorf("%w: missing length at offset %d", ErrTruncatedInput, pos)
	}
	first := data[pos]
	pos++
	var length int
	switch {
	case first < 0x80:
		length = int(first)
	case first == 0x80:
		return Value{}, 0, fmt.Errorf("%w: indefinite length at offset %d", ErrMalformedStructure, pos-1)
	case first == 0xff:
		return Value{}, 0, fmt.Errorf("%w: reserved length octet at offset %d", ErrMalformedStructure, pos-1)
	default:
		n := int(first & 0x7f)
		if pos+n > len(data) {
			return Value{}, 0, fmt.Errorf("%w: length octets overrun input at offset %d", ErrTruncatedInput, pos)
		}
		lenBytes := data[pos : pos+n]
		pos += n
		if lenBytes[0] == 0 {
			return Value{}, 0, fmt.Errorf("%w: leading zero in length at offset %d", ErrNonMinimalLength, offset)
		}
		if n > 4 {
			// nothing that large can follow
			return Value{}, 0, fmt.Errorf("%w: %d-octet length at offset %d", ErrTruncatedInput, n, offset)
		}
		for _, b := range lenBytes {
			length = length<<8 | int(b)
		}
		if length < 0 {
			return Value{}, 0, fmt.Errorf("%w: length overflows at offset %d", ErrTruncatedInput, offset)
		}
		if length < 0x80 {
			return Value{}, 0, fmt.Errorf("%w: long form used for length %d at offset %d", ErrNonMinimalLength, length, offset)
		}
	}
	if length > len(data)-pos {
		return Value{}, 0, fmt.Errorf("%w: declared length %d exceeds %d remaining bytes at offset %d", ErrTruncatedInput, length, len(data)-pos, offset)
	}
	end := pos + length
	return Value{
		Tag:     tag,
		Content: data[pos:end],
		Raw:     data[offset:end],
	}, end, nil
}

// Parse reads exactly one value spanning all of data and checks that every
// constructed value inside it is well formed and nested no deeper than
// MaxDepth.
func Parse(data []byte) (Value, error) {
	v, next, err := ReadTLV(data, 0)
	if err != nil {
		return Value{}, err
	}
	if next != len(data) {
		return Value{}, fmt.Errorf("%w: %d bytes of trailing data", ErrMalformedStructure, len(data)-next)
	}
	if err := Validate(v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Validate walks the children of constructed values and fails if any of them
// is malformed or if the tree is deeper than MaxDepth.
func Validate(v Value) error {
	return validate(v, 1)
}

func validate(v Value, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("%w: more than %d levels", ErrExcessiveNesting, MaxDepth)
	}
	if !v.Constructed() {
		return nil
	}
	children, err := ReadSequence(v)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := validate(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// ReadSequence splits the content of a constructed value into its children
func ReadSequence(v Value) ([]Value, error) {
	if !v.Constructed() {
		return nil, fmt.Errorf("%w: tag 0x%02x is not constructed", ErrMalformedStructure, v.Tag)
	}
	var children []Value
	for pos := 0; pos < len(v.Content); {
		child, next, err := ReadTLV(v.Content, pos)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		pos = next
	}
	return children, nil
}

// ReadExplicit unwraps an explicitly tagged value, which must contain exactly
// one child
func ReadExplicit(v Value, n int) (Value, error) {
	if v.Tag != ContextExplicit(n) {
		return Value{}, fmt.Errorf("%w: expected [%d], got tag 0x%02x", ErrMalformedStructure, n, v.Tag)
	}
	children, err := ReadSequence(v)
	if err != nil {
		return Value{}, err
	}
	if len(children) != 1 {
		return Value{}, fmt.Errorf("%w: [%d] holds %d values", ErrMalformedStructure, n, len(children))
	}
	return children[0], nil
}

func expectTag(v Value, tag byte, name string) error {
	if v.Tag != tag {
		return fmt.Errorf("%w: expected %s, got tag 0x%02x", ErrMalformedStructure, name, v.Tag)
	}
	return nil
}

// IntegerBytes returns the big-endian magnitude of a non-negative INTEGER with
// any sign padding removed
func IntegerBytes(v Value) ([]byte, error) {
	if err := expectTag(v, TagInteger, "INTEGER"); err != nil {
		return nil, err
	}
	c := v.Content
	switch {
	case len(c) == 0:
		return nil, fmt.Errorf("%w: empty INTEGER", ErrMalformedStructure)
	case c[0]&0x80 != 0:
		return nil, fmt.Errorf("%w: negative INTEGER", ErrMalformedStructure)
	case len(c) > 1 && c[0] == 0 && c[1]&0x80 == 0:
		return nil, fmt.Errorf("%w: INTEGER is not minimally encoded", ErrMalformedStructure)
	case c[0] == 0:
		return c[1:], nil
	}
	return c, nil
}

// ReadInteger decodes a non-negative INTEGER
func ReadInteger(v Value) (*big.Int, error) {
	mag, err := IntegerBytes(v)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(mag), nil
}

// ReadSmallInt decodes a non-negative INTEGER that must fit in an int, such as
// a structure version
func ReadSmallInt(v Value) (int, error) {
	mag, err := IntegerBytes(v)
	if err != nil {
		return 0, err
	}
	if len(mag) > 4 {
		return 0, fmt.Errorf("%w: INTEGER too large", ErrMalformedStructure)
	}
	n := 0
	for _, b := range mag {
		n = n<<8 | int(b)
	}
	return n, nil
}

func ReadOctetString(v Value) ([]byte, error) {
	if err := expectTag(v, TagOctetString, "OCTET STRING"); err != nil {
		return nil, err
	}
	return v.Content, nil
}

func ReadBitString(v Value) (asn1.BitString, error) {
	if err := expectTag(v, TagBitString, "BIT STRING"); err != nil {
		return asn1.BitString{}, err
	}
	var bits asn1.BitString
	s := cryptobyte.String(v.Raw)
	if !s.ReadASN1BitString(&bits) {
		return asn1.BitString{}, fmt.Errorf("%w: invalid BIT STRING", ErrMalformedStructure)
	}
	return bits, nil
}

func ReadNull(v Value) error {
	if err := expectTag(v, TagNull, "NULL"); err != nil {
		return err
	}
	if len(v.Content) != 0 {
		return fmt.Errorf("%w: NULL with content", ErrMalformedStructure)
	}
	return nil
}

// ReadObjectIdentifier decodes the base-128 arcs of an OBJECT IDENTIFIER
func ReadObjectIdentifier(v Value) (asn1.ObjectIdentifier, error) {
	if err := expectTag(v, TagOID, "OBJECT IDENTIFIER"); err != nil {
		return nil, err
	}
	var oid asn1.ObjectIdentifier
	s := cryptobyte.String(v.Raw)
	if !s.ReadASN1ObjectIdentifier(&oid) {
		return nil, fmt.Errorf("%w: invalid OBJECT IDENTIFIER", ErrMalformedStructure)
	}
	return oid, nil
}
