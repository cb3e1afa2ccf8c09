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

// Package keyconv converts SEC1 and PKCS#1 private keys in PEM form to PKCS#8
// PEM. Conversions are pure functions of their input and safe to call
// concurrently.
package keyconv

import (
	"fmt"

	"github.com/sassoftware/keyconv/lib/pemcodec"
	"github.com/sassoftware/keyconv/lib/pkcs1"
	"github.com/sassoftware/keyconv/lib/pkcs8"
	"github.com/sassoftware/keyconv/lib/sec1"
	"github.com/sassoftware/keyconv/lib/x509tools"
)

// Converter holds conversion policy. The zero value accepts any named curve.
type Converter struct {
	// KnownCurvesOnly rejects EC keys on curves not in x509tools.DefinedCurves
	KnownCurvesOnly bool
}

// FromSEC1PEM converts an EC PRIVATE KEY block to a PRIVATE KEY block using
// the default policy. Errors are of type *ConvertSEC1Error.
func FromSEC1PEM(text string) (string, error) {
	return Converter{}.FromSEC1PEM(text)
}

// FromPKCS1PEM converts an RSA PRIVATE KEY block to a PRIVATE KEY block.
// Errors are of type *ConvertPKCS1Error.
func FromPKCS1PEM(text string) (string, error) {
	return Converter{}.FromPKCS1PEM(text)
}

func (c Converter) FromSEC1PEM(text string) (string, error) {
	block, err := pemcodec.DecodeLabel(text, pemcodec.LabelECPrivateKey)
	if err != nil {
		return "", &ConvertSEC1Error{Stage: Deserialize, Err: err}
	}
	return c.convertSEC1(block.Body)
}

func (c Converter) FromPKCS1PEM(text string) (string, error) {
	block, err := pemcodec.DecodeLabel(text, pemcodec.LabelRSAPrivateKey)
	if err != nil {
		return "", &ConvertPKCS1Error{Stage: Deserialize, Err: err}
	}
	return c.convertPKCS1(block.Body)
}

// Convert picks the conversion from the label of the input block. Input that
// is already PKCS#8 is validated and re-encoded.
func (c Converter) Convert(text string) (string, error) {
	block, err := pemcodec.Decode(text)
	if err != nil {
		return "", err
	}
	switch block.Label {
	case pemcodec.LabelECPrivateKey:
		return c.convertSEC1(block.Body)
	case pemcodec.LabelRSAPrivateKey:
		return c.convertPKCS1(block.Body)
	case pemcodec.LabelPrivateKey:
		return c.normalize(block.Body)
	default:
		return "", fmt.Errorf("%w: %q is not a supported private key type", pemcodec.ErrUnexpectedLabel, block.Label)
	}
}

func (c Converter) convertSEC1(blob []byte) (string, error) {
	key, err := sec1.Parse(blob)
	if err != nil {
		return "", &ConvertSEC1Error{Stage: Deserialize, Err: err}
	}
	if err := c.checkCurve(key); err != nil {
		return "", &ConvertSEC1Error{Stage: Serialize, Err: err}
	}
	info, err := pkcs8.FromSEC1(key)
	if err != nil {
		return "", &ConvertSEC1Error{Stage: Serialize, Err: err}
	}
	out, err := info.MarshalPEM()
	if err != nil {
		return "", &ConvertSEC1Error{Stage: Serialize, Err: err}
	}
	return out, nil
}

func (c Converter) convertPKCS1(blob []byte) (string, error) {
	key, err := pkcs1.Parse(blob)
	if err != nil {
		return "", &ConvertPKCS1Error{Stage: Deserialize, Err: err}
	}
	info, err := pkcs8.FromPKCS1(key)
	if err != nil {
		return "", &ConvertPKCS1Error{Stage: Serialize, Err: err}
	}
	out, err := info.MarshalPEM()
	if err != nil {
		return "", &ConvertPKCS1Error{Stage: Serialize, Err: err}
	}
	return out, nil
}

func (c Converter) normalize(blob []byte) (string, error) {
	info, err := pkcs8.Parse(blob)
	if err != nil {
		return "", err
	}
	key, err := info.Key()
	if err != nil {
		return "", err
	}
	if eckey, ok := key.(*sec1.ECPrivateKey); ok {
		if err := c.checkCurve(eckey); err != nil {
			return "", err
		}
	}
	rebuilt, err := pkcs8.New(key)
	if err != nil {
		return "", err
	}
	return rebuilt.MarshalPEM()
}

func (c Converter) checkCurve(key *sec1.ECPrivateKey) error {
	if !c.KnownCurvesOnly {
		return nil
	}
	if _, err := x509tools.CurveByOid(key.NamedCurve); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedCurve, err)
	}
	return nil
}
