package pkcs1

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sassoftware/keyconv/lib/der"
)

func generate(t *testing.T) (*rsa.PrivateKey, []byte) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return priv, x509.MarshalPKCS1PrivateKey(priv)
}

func TestParse(t *testing.T) {
	priv, blob := generate(t)
	key, err := Parse(blob)
	require.NoError(t, err)
	assert.Equal(t, VersionTwoPrime, key.Version)
	assert.Equal(t, 0, priv.N.Cmp(key.N))
	assert.Equal(t, int64(priv.E), key.E.Int64())
	assert.Equal(t, 0, priv.D.Cmp(key.D))
	assert.Equal(t, 0, priv.Primes[0].Cmp(key.P))
	assert.Equal(t, 0, priv.Primes[1].Cmp(key.Q))
	assert.Equal(t, 0, priv.Precomputed.Dp.Cmp(key.Dp))
	assert.Equal(t, 0, priv.Precomputed.Dq.Cmp(key.Dq))
	assert.Equal(t, 0, priv.Precomputed.Qinv.Cmp(key.Qinv))
	assert.Empty(t, key.OtherPrimes)
	assert.Equal(t, blob, key.Raw)

	remarshalled, err := key.Marshal()
	require.NoError(t, err)
	assert.Equal(t, blob, remarshalled)
	raw, err := key.Bytes()
	require.NoError(t, err)
	assert.Equal(t, blob, raw)
}

func TestMultiPrime(t *testing.T) {
	_, blob := generate(t)
	key, err := Parse(blob)
	require.NoError(t, err)

	key.Raw = nil
	key.Version = VersionMultiPrime
	key.OtherPrimes = []OtherPrimeInfo{{big.NewInt(7), big.NewInt(3), big.NewInt(5)}}
	multi, err := key.Bytes()
	require.NoError(t, err)
	parsed, err := Parse(multi)
	require.NoError(t, err)
	require.Len(t, parsed.OtherPrimes, 1)
	assert.Equal(t, int64(7), parsed.OtherPrimes[0].Prime.Int64())
	assert.Equal(t, int64(3), parsed.OtherPrimes[0].Exponent.Int64())
	assert.Equal(t, int64(5), parsed.OtherPrimes[0].Coefficient.Int64())

	// version 1 without otherPrimeInfos
	key.OtherPrimes = nil
	missing, err := key.Marshal()
	require.NoError(t, err)
	_, err = Parse(missing)
	assert.ErrorIs(t, err, der.ErrMalformedStructure)

	// version 0 with otherPrimeInfos
	key.Version = VersionTwoPrime
	key.OtherPrimes = []OtherPrimeInfo{{big.NewInt(7), big.NewInt(3), big.NewInt(5)}}
	extra, err := key.Marshal()
	require.NoError(t, err)
	_, err = Parse(extra)
	assert.ErrorIs(t, err, der.ErrMalformedStructure)
}

func TestParseErrors(t *testing.T) {
	ints := func(n int) [][]byte {
		out := make([][]byte, n)
		for i := range out {
			out[i] = der.WriteInteger(int64(i + 3))
		}
		return out
	}
	withVersion := func(v int64, rest ...[]byte) []byte {
		return der.WriteSequence(append([][]byte{der.WriteInteger(v)}, rest...)...)
	}
	badTriple := der.WriteSequence(der.WriteSequence(der.WriteInteger(1), der.WriteInteger(2)))

	cases := []struct {
		name string
		blob []byte
		err  error
	}{
		{"Version2", withVersion(2, ints(8)...), der.ErrUnsupportedVersion},
		{"TooFewFields", withVersion(0, ints(7)...), der.ErrMalformedStructure},
		{"TooManyFields", withVersion(0, ints(9)...), der.ErrMalformedStructure},
		{"WrongFieldType", withVersion(0, append(ints(7), der.WriteOctetString([]byte{1}))...), der.ErrMalformedStructure},
		{"NegativeField", withVersion(0, append(ints(7), []byte{0x02, 0x01, 0xff})...), der.ErrMalformedStructure},
		{"EmptyOtherPrimes", withVersion(1, append(ints(8), der.WriteSequence())...), der.ErrMalformedStructure},
		{"ShortTriple", withVersion(1, append(ints(8), badTriple)...), der.ErrMalformedStructure},
		{"OtherPrimesNotSequence", withVersion(1, append(ints(8), der.WriteInteger(1))...), der.ErrMalformedStructure},
		{"NotSequence", der.WriteInteger(0), der.ErrMalformedStructure},
		{"Truncated", withVersion(0, ints(8)...)[:10], der.ErrTruncatedInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.blob)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestMarshalIncomplete(t *testing.T) {
	_, err := (&RSAPrivateKey{N: big.NewInt(1)}).Marshal()
	assert.Error(t, err)
}
