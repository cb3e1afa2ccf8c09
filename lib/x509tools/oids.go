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

import "encoding/asn1"

var (
	OidPublicKeyRSA   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	OidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
)

// AlgorithmName returns a short human readable name for a key algorithm OID
func AlgorithmName(oid asn1.ObjectIdentifier) string {
	switch {
	case oid.Equal(OidPublicKeyRSA):
		return "rsaEncryption"
	case oid.Equal(OidPublicKeyECDSA):
		return "id-ecPublicKey"
	default:
		return oid.String()
	}
}
