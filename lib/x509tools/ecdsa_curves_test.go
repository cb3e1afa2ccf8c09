package x509tools

import (
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveByOid(t *testing.T) {
	def, err := CurveByOid(asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7})
	require.NoError(t, err)
	assert.Equal(t, "P-256", def.Name)
	assert.Equal(t, 32, def.ScalarSize())
	assert.Equal(t, []byte{0x06, 0x08, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x03, 0x01, 0x07}, def.ToDer())

	def, err = CurveByOid(asn1.ObjectIdentifier{1, 3, 132, 0, 35})
	require.NoError(t, err)
	assert.Equal(t, 66, def.ScalarSize())

	_, err = CurveByOid(asn1.ObjectIdentifier{1, 2, 3, 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P-384")
}

func TestCurveByName(t *testing.T) {
	def, err := CurveByName("secp256k1")
	require.NoError(t, err)
	assert.Equal(t, asn1.ObjectIdentifier{1, 3, 132, 0, 10}, def.Oid)
	def, err = CurveByName("p-384")
	require.NoError(t, err)
	assert.Equal(t, 48, def.ScalarSize())
	_, err = CurveByName("P-192")
	require.Error(t, err)
}

func TestAlgorithmName(t *testing.T) {
	assert.Equal(t, "rsaEncryption", AlgorithmName(OidPublicKeyRSA))
	assert.Equal(t, "id-ecPublicKey", AlgorithmName(OidPublicKeyECDSA))
	assert.Equal(t, "1.2.3", AlgorithmName(asn1.ObjectIdentifier{1, 2, 3}))
}
