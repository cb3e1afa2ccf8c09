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

package keyconv

import "errors"

// Stage says which half of a conversion failed
type Stage int

const (
	// Deserialize covers PEM framing, base64 and all structural checks of
	// the source key
	Deserialize Stage = iota
	// Serialize covers building and encoding the PKCS#8 result
	Serialize
)

func (s Stage) String() string {
	switch s {
	case Deserialize:
		return "deserialize"
	case Serialize:
		return "serialize"
	default:
		return "unknown"
	}
}

// ErrUnsupportedCurve is returned when KnownCurvesOnly is set and the key uses
// a curve missing from x509tools.DefinedCurves
var ErrUnsupportedCurve = errors.New("unsupported named curve")

// ConvertSEC1Error is returned by FromSEC1PEM
type ConvertSEC1Error struct {
	Stage Stage
	Err   error
}

func (e *ConvertSEC1Error) Error() string {
	if e.Stage == Serialize {
		return "failed to serialize private key to PKCS#8 PEM: " + e.Err.Error()
	}
	return "failed to deserialize SEC1 private key from PEM: " + e.Err.Error()
}

func (e *ConvertSEC1Error) Unwrap() error {
	return e.Err
}

// ConvertPKCS1Error is returned by FromPKCS1PEM
type ConvertPKCS1Error struct {
	Stage Stage
	Err   error
}

func (e *ConvertPKCS1Error) Error() string {
	if e.Stage == Serialize {
		return "failed to serialize private key to PKCS#8 PEM: " + e.Err.Error()
	}
	return "failed to deserialize PKCS#1 private key from PEM: " + e.Err.Error()
}

func (e *ConvertPKCS1Error) Unwrap() error {
	return e.Err
}
