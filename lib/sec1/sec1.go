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

// Package sec1 handles the ECPrivateKey structure from RFC 5915:
//
//	ECPrivateKey ::= SEQUENCE {
//	  version        INTEGER { ecPrivkeyVer1(1) },
//	  privateKey     OCTET STRING,
//	  parameters [0] ECParameters {{ NamedCurve }} OPTIONAL,
//	  publicKey  [1] BIT STRING OPTIONAL
//	}
package sec1

import (
	"encoding/asn1"
	"errors"
	"fmt"

	"github.com/sassoftware/keyconv/lib/der"
	"github.com/sassoftware/keyconv/lib/x509tools"
)

const Version = 1

var ErrMissingCurveIdentifier = errors.New("sec1: missing named curve parameters")

type ECPrivateKey struct {
	Version    int
	PrivateKey []byte
	// NamedCurve is nil when the parameters field is absent
	NamedCurve asn1.ObjectIdentifier
	// PublicKey is nil when the publicKey field is absent
	PublicKey *asn1.BitString
}

// Parse decodes a DER ECPrivateKey. The named curve is required because it is
// the only place the key records which curve it belongs to.
func Parse(blob []byte) (*ECPrivateKey, error) {
	key, err := parse(blob)
	if err != nil {
		return nil, err
	}
	if key.NamedCurve == nil {
		return nil, ErrMissingCurveIdentifier
	}
	if err := key.checkScalar(); err != nil {
		return nil, err
	}
	return key, nil
}

// ParseWithCurve decodes an ECPrivateKey whose curve is recorded elsewhere,
// such as inside a PKCS#8 wrapper. If the key also names a curve it must agree.
func ParseWithCurve(blob []byte, curve asn1.ObjectIdentifier) (*ECPrivateKey, error) {
	key, err := parse(blob)
	if err != nil {
		return nil, err
	}
	if key.NamedCurve != nil && !key.NamedCurve.Equal(curve) {
		return nil, fmt.Errorf("%w: key names curve %s but %s was expected", der.ErrMalformedStructure, key.NamedCurve, curve)
	}
	key.NamedCurve = curve
	if err := key.checkScalar(); err != nil {
		return nil, err
	}
	return key, nil
}

func parse(blob []byte) (*ECPrivateKey, error) {
	v, err := der.Parse(blob)
	if err != nil {
		return nil, err
	}
	if v.Tag != der.TagSequence {
		return nil, fmt.Errorf("sec1: %w: expected SEQUENCE", der.ErrMalformedStructure)
	}
	fields, err := der.ReadSequence(v)
	if err != nil {
		return nil, err
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("sec1: %w: %d fields", der.ErrMalformedStructure, len(fields))
	}
	key := new(ECPrivateKey)
	if key.Version, err = der.ReadSmallInt(fields[0]); err != nil {
		return nil, fmt.Errorf("sec1: version: %w", err)
	}
	if key.Version != Version {
		return nil, fmt.Errorf("sec1: %w %d", der.ErrUnsupportedVersion, key.Version)
	}
	if key.PrivateKey, err = der.ReadOctetString(fields[1]); err != nil {
		return nil, fmt.Errorf("sec1: privateKey: %w", err)
	}
	if len(key.PrivateKey) == 0 {
		return nil, fmt.Errorf("sec1: privateKey: %w: empty", der.ErrMalformedStructure)
	}
	// [0] and [1] are each optional but must appear at most once and in order
	last := -1
	for _, field := range fields[2:] {
		switch field.Tag {
		case der.ContextExplicit(0):
			if last >= 0 {
				return nil, fmt.Errorf("sec1: %w: parameters out of order or repeated", der.ErrMalformedStructure)
			}
			inner, err := der.ReadExplicit(field, 0)
			if err != nil {
				return nil, fmt.Errorf("sec1: parameters: %w", err)
			}
			if key.NamedCurve, err = der.ReadObjectIdentifier(inner); err != nil {
				return nil, fmt.Errorf("sec1: parameters: %w", err)
			}
			last = 0
		case der.ContextExplicit(1):
			if last >= 1 {
				return nil, fmt.Errorf("sec1: %w: publicKey repeated", der.ErrMalformedStructure)
			}
			inner, err := der.ReadExplicit(field, 1)
			if err != nil {
				return nil, fmt.Errorf("sec1: publicKey: %w", err)
			}
			bits, err := der.ReadBitString(inner)
			if err != nil {
				return nil, fmt.Errorf("sec1: publicKey: %w", err)
			}
			key.PublicKey = &bits
			last = 1
		default:
			return nil, fmt.Errorf("sec1: %w: unexpected tag 0x%02x", der.ErrMalformedStructure, field.Tag)
		}
	}
	return key, nil
}

// Scalars of curves we know must be exactly the width of the curve order.
// Unknown curves are carried through unchecked.
func (key *ECPrivateKey) checkScalar() error {
	def, err := x509tools.CurveByOid(key.NamedCurve)
	if err != nil {
		return nil
	}
	if len(key.PrivateKey) != def.ScalarSize() {
		return fmt.Errorf("sec1: privateKey: %w: %d bytes for %s, expected %d", der.ErrMalformedStructure, len(key.PrivateKey), def.Name, def.ScalarSize())
	}
	return nil
}

// WithoutCurve returns a copy of the key with the parameters field cleared
func (key *ECPrivateKey) WithoutCurve() *ECPrivateKey {
	stripped := *key
	stripped.NamedCurve = nil
	return &stripped
}

// Marshal encodes the key as DER, including whichever optional fields are set
func (key *ECPrivateKey) Marshal() ([]byte, error) {
	fields := [][]byte{
		der.WriteInteger(int64(key.Version)),
		der.WriteOctetString(key.PrivateKey),
	}
	if key.NamedCurve != nil {
		oid, err := der.WriteObjectIdentifier(key.NamedCurve)
		if err != nil {
			return nil, fmt.Errorf("sec1: parameters: %w", err)
		}
		fields = append(fields, der.WriteExplicit(0, oid))
	}
	if key.PublicKey != nil {
		fields = append(fields, der.WriteExplicit(1, der.WriteBitString(*key.PublicKey)))
	}
	return der.WriteSequence(fields...), nil
}
