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

// Package pkcs1 handles the RSAPrivateKey structure from RFC 8017 appendix
// A.1.2. Key material is validated for shape only; no arithmetic is done on it.
package pkcs1

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/sassoftware/keyconv/lib/der"
)

const (
	VersionTwoPrime   = 0
	VersionMultiPrime = 1
)

var fieldNames = [...]string{"modulus", "publicExponent", "privateExponent", "prime1", "prime2", "exponent1", "exponent2", "coefficient"}

type RSAPrivateKey struct {
	Version     int
	N           *big.Int
	E           *big.Int
	D           *big.Int
	P           *big.Int
	Q           *big.Int
	Dp          *big.Int
	Dq          *big.Int
	Qinv        *big.Int
	OtherPrimes []OtherPrimeInfo
	// Raw holds the DER the key was parsed from
	Raw []byte
}

type OtherPrimeInfo struct {
	Prime       *big.Int
	Exponent    *big.Int
	Coefficient *big.Int
}

func (key *RSAPrivateKey) fields() []**big.Int {
	return []**big.Int{&key.N, &key.E, &key.D, &key.P, &key.Q, &key.Dp, &key.Dq, &key.Qinv}
}

// Parse fully decodes a DER RSAPrivateKey. otherPrimeInfos must be present
// exactly when the version says the key is multi-prime.
func Parse(blob []byte) (*RSAPrivateKey, error) {
	v, err := der.Parse(blob)
	if err != nil {
		return nil, err
	}
	if v.Tag != der.TagSequence {
		return nil, fmt.Errorf("pkcs1: %w: expected SEQUENCE", der.ErrMalformedStructure)
	}
	children, err := der.ReadSequence(v)
	if err != nil {
		return nil, err
	}
	if len(children) < 1+len(fieldNames) {
		return nil, fmt.Errorf("pkcs1: %w: %d fields", der.ErrMalformedStructure, len(children))
	}
	key := &RSAPrivateKey{Raw: v.Raw}
	if key.Version, err = der.ReadSmallInt(children[0]); err != nil {
		return nil, fmt.Errorf("pkcs1: version: %w", err)
	}
	if key.Version != VersionTwoPrime && key.Version != VersionMultiPrime {
		return nil, fmt.Errorf("pkcs1: %w %d", der.ErrUnsupportedVersion, key.Version)
	}
	for i, dest := range key.fields() {
		if *dest, err = der.ReadInteger(children[i+1]); err != nil {
			return nil, fmt.Errorf("pkcs1: %s: %w", fieldNames[i], err)
		}
	}
	rest := children[1+len(fieldNames):]
	switch key.Version {
	case VersionTwoPrime:
		if len(rest) != 0 {
			return nil, fmt.Errorf("pkcs1: %w: two-prime key has %d extra fields", der.ErrMalformedStructure, len(rest))
		}
	case VersionMultiPrime:
		if len(rest) != 1 {
			return nil, fmt.Errorf("pkcs1: %w: multi-prime key needs otherPrimeInfos", der.ErrMalformedStructure)
		}
		if key.OtherPrimes, err = parseOtherPrimes(rest[0]); err != nil {
			return nil, fmt.Errorf("pkcs1: otherPrimeInfos: %w", err)
		}
	}
	return key, nil
}

func parseOtherPrimes(v der.Value) ([]OtherPrimeInfo, error) {
	if v.Tag != der.TagSequence {
		return nil, fmt.Errorf("%w: expected SEQUENCE", der.ErrMalformedStructure)
	}
	entries, err := der.ReadSequence(v)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty", der.ErrMalformedStructure)
	}
	primes := make([]OtherPrimeInfo, len(entries))
	for i, entry := range entries {
		if entry.Tag != der.TagSequence {
			return nil, fmt.Errorf("%w: entry %d is not a SEQUENCE", der.ErrMalformedStructure, i)
		}
		triple, err := der.ReadSequence(entry)
		if err != nil {
			return nil, err
		}
		if len(triple) != 3 {
			return nil, fmt.Errorf("%w: entry %d has %d fields", der.ErrMalformedStructure, i, len(triple))
		}
		info := &primes[i]
		for j, dest := range []**big.Int{&info.Prime, &info.Exponent, &info.Coefficient} {
			if *dest, err = der.ReadInteger(triple[j]); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
		}
	}
	return primes, nil
}

// Marshal encodes the key fields as DER. It does not check that the version
// agrees with OtherPrimes, so it can produce keys that Parse rejects.
func (key *RSAPrivateKey) Marshal() ([]byte, error) {
	out := [][]byte{der.WriteInteger(int64(key.Version))}
	for i, field := range key.fields() {
		if *field == nil {
			return nil, fmt.Errorf("pkcs1: %s is not set", fieldNames[i])
		}
		out = append(out, der.WriteBigInt(*field))
	}
	if len(key.OtherPrimes) != 0 {
		entries := make([][]byte, len(key.OtherPrimes))
		for i, info := range key.OtherPrimes {
			if info.Prime == nil || info.Exponent == nil || info.Coefficient == nil {
				return nil, errors.New("pkcs1: incomplete otherPrimeInfos entry")
			}
			entries[i] = der.WriteSequence(
				der.WriteBigInt(info.Prime),
				der.WriteBigInt(info.Exponent),
				der.WriteBigInt(info.Coefficient),
			)
		}
		out = append(out, der.WriteSequence(entries...))
	}
	return der.WriteSequence(out...), nil
}

// Bytes returns the original DER if the key was parsed, or a fresh encoding
func (key *RSAPrivateKey) Bytes() ([]byte, error) {
	if key.Raw != nil {
		return key.Raw, nil
	}
	return key.Marshal()
}
