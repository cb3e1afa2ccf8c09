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

package x509tools

import (
	"encoding/asn1"
	"fmt"
	"strings"

	"github.com/sassoftware/keyconv/lib/der"
)

// CurveDefinition describes a named curve that can appear in a SEC1 key
type CurveDefinition struct {
	Name string
	Bits uint
	Oid  asn1.ObjectIdentifier
}

var DefinedCurves = []CurveDefinition{
	{"P-224", 224, asn1.ObjectIdentifier{1, 3, 132, 0, 33}},
	{"P-256", 256, asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}},
	{"P-384", 384, asn1.ObjectIdentifier{1, 3, 132, 0, 34}},
	{"P-521", 521, asn1.ObjectIdentifier{1, 3, 132, 0, 35}},
	{"secp256k1", 256, asn1.ObjectIdentifier{1, 3, 132, 0, 10}},
}

// ScalarSize is the fixed width in bytes of a private scalar on this curve
func (def *CurveDefinition) ScalarSize() int {
	return int(def.Bits+7) / 8
}

func (def *CurveDefinition) ToDer() []byte {
	blob, err := der.WriteObjectIdentifier(def.Oid)
	if err != nil {
		panic(err)
	}
	return blob
}

func SupportedCurves() string {
	names := make([]string, len(DefinedCurves))
	for i, def := range DefinedCurves {
		names[i] = def.Name
	}
	return strings.Join(names, ", ")
}

func CurveByOid(oid asn1.ObjectIdentifier) (*CurveDefinition, error) {
	for _, def := range DefinedCurves {
		if oid.Equal(def.Oid) {
			return &def, nil
		}
	}
	return nil, fmt.Errorf("unsupported ECDSA curve with OID: %s (supported curves: %s)", oid, SupportedCurves())
}

func CurveByName(name string) (*CurveDefinition, error) {
	for _, def := range DefinedCurves {
		if strings.EqualFold(name, def.Name) {
			return &def, nil
		}
	}
	return nil, fmt.Errorf("unsupported ECDSA curve: %s (supported curves: %s)", name, SupportedCurves())
}
