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

package der

import (
	"encoding/asn1"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// cryptobyte always emits the shortest length form, which is what DER
// requires of every writer below.
func build(f func(b *cryptobyte.Builder)) []byte {
	var b cryptobyte.Builder
	f(&b)
	return b.BytesOrPanic()
}

// WriteTLV wraps content in the given tag
func WriteTLV(tag byte, content []byte) []byte {
	return build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.Tag(tag), func(b *cryptobyte.Builder) {
			b.AddBytes(content)
		})
	})
}

// WriteSequence concatenates already encoded children inside a SEQUENCE
func WriteSequence(children ...[]byte) []byte {
	return build(func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			for _, child := range children {
				b.AddBytes(child)
			}
		})
	})
}

// WriteExplicit wraps one encoded value in a constructed context-specific tag
func WriteExplicit(n int, inner []byte) []byte {
	return WriteTLV(ContextExplicit(n), inner)
}

func WriteInteger(n int64) []byte {
	return build(func(b *cryptobyte.Builder) {
		b.AddASN1Int64(n)
	})
}

func WriteBigInt(n *big.Int) []byte {
	return build(func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(n)
	})
}

func WriteOctetString(content []byte) []byte {
	return WriteTLV(TagOctetString, content)
}

func WriteBitString(bits asn1.BitString) []byte {
	unused := (8 - bits.BitLength%8) % 8
	content := make([]byte, 1, len(bits.Bytes)+1)
	content[0] = byte(unused)
	content = append(content, bits.Bytes...)
	return WriteTLV(TagBitString, content)
}

func WriteNull() []byte {
	return []byte{TagNull, 0}
}

// WriteObjectIdentifier encodes each arc in base 128, folding the first two
// arcs into one as X.690 requires
func WriteObjectIdentifier(oid asn1.ObjectIdentifier) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1ObjectIdentifier(oid)
	der, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot encode OID %s", ErrMalformedStructure, oid)
	}
	return der, nil
}
