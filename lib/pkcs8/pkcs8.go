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

package pkcs8

import (
	"encoding/asn1"
	"errors"
	"fmt"

	"github.com/sassoftware/keyconv/lib/der"
	"github.com/sassoftware/keyconv/lib/pemcodec"
	"github.com/sassoftware/keyconv/lib/pkcs1"
	"github.com/sassoftware/keyconv/lib/sec1"
	"github.com/sassoftware/keyconv/lib/x509tools"
)

type AlgorithmIdentifier struct {
	Algorithm asn1.ObjectIdentifier
	// Parameters is the complete DER of the parameters, or nil if absent
	Parameters []byte
}

type PrivateKeyInfo struct {
	Version             int
	PrivateKeyAlgorithm AlgorithmIdentifier
	PrivateKey          []byte
}

// FromPKCS1 wraps an RSA key. The PKCS#1 bytes are carried over untouched.
func FromPKCS1(key *pkcs1.RSAPrivateKey) (*PrivateKeyInfo, error) {
	inner, err := key.Bytes()
	if err != nil {
		return nil, err
	}
	return &PrivateKeyInfo{
		Version: 0,
		PrivateKeyAlgorithm: AlgorithmIdentifier{
			Algorithm:  x509tools.OidPublicKeyRSA,
			Parameters: der.WriteNull(),
		},
		PrivateKey: inner,
	}, nil
}

// FromSEC1 wraps an EC key. The named curve moves to the algorithm identifier
// and is left out of the inner ECPrivateKey.
func FromSEC1(key *sec1.ECPrivateKey) (*PrivateKeyInfo, error) {
	if key.NamedCurve == nil {
		return nil, sec1.ErrMissingCurveIdentifier
	}
	params, err := der.WriteObjectIdentifier(key.NamedCurve)
	if err != nil {
		return nil, err
	}
	inner, err := key.WithoutCurve().Marshal()
	if err != nil {
		return nil, err
	}
	return &PrivateKeyInfo{
		Version: 0,
		PrivateKeyAlgorithm: AlgorithmIdentifier{
			Algorithm:  x509tools.OidPublicKeyECDSA,
			Parameters: params,
		},
		PrivateKey: inner,
	}, nil
}

// New wraps any of the supported key models
func New(key interface{}) (*PrivateKeyInfo, error) {
	switch pkey := key.(type) {
	case *pkcs1.RSAPrivateKey:
		return FromPKCS1(pkey)
	case *sec1.ECPrivateKey:
		return FromSEC1(pkey)
	default:
		return nil, errors.New("unsupported key type")
	}
}

func (info *PrivateKeyInfo) Marshal() ([]byte, error) {
	oid, err := der.WriteObjectIdentifier(info.PrivateKeyAlgorithm.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("pkcs8: algorithm: %w", err)
	}
	alg := [][]byte{oid}
	if info.PrivateKeyAlgorithm.Parameters != nil {
		alg = append(alg, info.PrivateKeyAlgorithm.Parameters)
	}
	return der.WriteSequence(
		der.WriteInteger(int64(info.Version)),
		der.WriteSequence(alg...),
		der.WriteOctetString(info.PrivateKey),
	), nil
}

// MarshalPEM encodes the structure as a PRIVATE KEY block
func (info *PrivateKeyInfo) MarshalPEM() (string, error) {
	blob, err := info.Marshal()
	if err != nil {
		return "", err
	}
	return pemcodec.Encode(pemcodec.LabelPrivateKey, blob), nil
}

// Parse decodes a PrivateKeyInfo, or a OneAsymmetricKey from RFC 5958 whose
// attributes and public key are checked for shape and then dropped.
func Parse(blob []byte) (*PrivateKeyInfo, error) {
	v, err := der.Parse(blob)
	if err != nil {
		return nil, err
	}
	if v.Tag != der.TagSequence {
		return nil, fmt.Errorf("pkcs8: %w: expected SEQUENCE", der.ErrMalformedStructure)
	}
	fields, err := der.ReadSequence(v)
	if err != nil {
		return nil, err
	}
	if len(fields) < 3 {
		return nil, fmt.Errorf("pkcs8: %w: %d fields", der.ErrMalformedStructure, len(fields))
	}
	info := new(PrivateKeyInfo)
	if info.Version, err = der.ReadSmallInt(fields[0]); err != nil {
		return nil, fmt.Errorf("pkcs8: version: %w", err)
	}
	if info.Version > 1 {
		return nil, fmt.Errorf("pkcs8: %w %d", der.ErrUnsupportedVersion, info.Version)
	}
	if info.PrivateKeyAlgorithm, err = parseAlgorithm(fields[1]); err != nil {
		return nil, fmt.Errorf("pkcs8: privateKeyAlgorithm: %w", err)
	}
	if info.PrivateKey, err = der.ReadOctetString(fields[2]); err != nil {
		return nil, fmt.Errorf("pkcs8: privateKey: %w", err)
	}
	last := -1
	for _, field := range fields[3:] {
		switch {
		case field.Tag == der.ContextExplicit(0) && last < 0:
			last = 0
		case (field.Tag == der.ContextImplicit(1) || field.Tag == der.ContextExplicit(1)) && last < 1 && info.Version == 1:
			last = 1
		default:
			return nil, fmt.Errorf("pkcs8: %w: unexpected tag 0x%02x", der.ErrMalformedStructure, field.Tag)
		}
	}
	return info, nil
}

func parseAlgorithm(v der.Value) (AlgorithmIdentifier, error) {
	var alg AlgorithmIdentifier
	if v.Tag != der.TagSequence {
		return alg, fmt.Errorf("%w: expected SEQUENCE", der.ErrMalformedStructure)
	}
	children, err := der.ReadSequence(v)
	if err != nil {
		return alg, err
	}
	if len(children) < 1 || len(children) > 2 {
		return alg, fmt.Errorf("%w: %d fields", der.ErrMalformedStructure, len(children))
	}
	if alg.Algorithm, err = der.ReadObjectIdentifier(children[0]); err != nil {
		return alg, err
	}
	if len(children) == 2 {
		alg.Parameters = children[1].Raw
	}
	return alg, nil
}

// NamedCurve returns the curve of an EC key from its algorithm parameters
func (info *PrivateKeyInfo) NamedCurve() (asn1.ObjectIdentifier, error) {
	if !info.PrivateKeyAlgorithm.Algorithm.Equal(x509tools.OidPublicKeyECDSA) {
		return nil, fmt.Errorf("pkcs8: not an EC key: %s", info.PrivateKeyAlgorithm.Algorithm)
	}
	if info.PrivateKeyAlgorithm.Parameters == nil {
		return nil, sec1.ErrMissingCurveIdentifier
	}
	v, err := der.Parse(info.PrivateKeyAlgorithm.Parameters)
	if err != nil {
		return nil, err
	}
	return der.ReadObjectIdentifier(v)
}

// Key decodes the inner key according to the algorithm identifier, returning
// a *pkcs1.RSAPrivateKey or a *sec1.ECPrivateKey
func (info *PrivateKeyInfo) Key() (interface{}, error) {
	alg := info.PrivateKeyAlgorithm
	switch {
	case alg.Algorithm.Equal(x509tools.OidPublicKeyRSA):
		if alg.Parameters != nil {
			v, err := der.Parse(alg.Parameters)
			if err != nil {
				return nil, err
			}
			if err := der.ReadNull(v); err != nil {
				return nil, fmt.Errorf("pkcs8: RSA parameters: %w", err)
			}
		}
		return pkcs1.Parse(info.PrivateKey)
	case alg.Algorithm.Equal(x509tools.OidPublicKeyECDSA):
		curve, err := info.NamedCurve()
		if err != nil {
			return nil, err
		}
		return sec1.ParseWithCurve(info.PrivateKey, curve)
	default:
		return nil, fmt.Errorf("pkcs8: unsupported key algorithm %s", alg.Algorithm)
	}
}
