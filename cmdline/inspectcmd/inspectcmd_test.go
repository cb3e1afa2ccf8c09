package inspectcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) string {
	blob, err := os.ReadFile(filepath.Join("..", "..", "lib", "keyconv", "testdata", name))
	require.NoError(t, err)
	return string(blob)
}

func TestDescribeEC(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Describe(&buf, fixture(t, "p256.pkcs8.pem")))
	out := buf.String()
	assert.Contains(t, out, "Version:   0\n")
	assert.Contains(t, out, "id-ecPublicKey (1.2.840.10045.2.1)")
	assert.Contains(t, out, "Curve:     P-256\n")
	assert.Contains(t, out, "PublicKey: true\n")
}

func TestDescribeRSA(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Describe(&buf, fixture(t, "rsa2048.pkcs8.pem")))
	out := buf.String()
	assert.Contains(t, out, "rsaEncryption (1.2.840.113549.1.1.1)")
	assert.Contains(t, out, "Modulus:   2048 bits\n")
	assert.NotContains(t, out, "Primes:")
}

func TestDescribeWrongLabel(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Describe(&buf, fixture(t, "p256.pem")))
	assert.Empty(t, buf.String())
}
