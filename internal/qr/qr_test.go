package qr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusevents/campus-client/pkg/apperrors"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G'}

func TestPNG(t *testing.T) {
	data, err := PNG("qr-token-1", 0)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, pngSignature, data[:4])
}

func TestPNG_EmptyToken(t *testing.T) {
	_, err := PNG("", 256)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.png")
	require.NoError(t, WritePNG("qr-token-1", path, 128))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngSignature, data[:4])
}

func TestWritePNG_EmptyToken(t *testing.T) {
	err := WritePNG("", filepath.Join(t.TempDir(), "token.png"), 128)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("qr-token-1")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestTerminal_EmptyToken(t *testing.T) {
	_, err := Terminal("")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSameTokenSameCode(t *testing.T) {
	a, err := PNG("qr-token-1", 128)
	require.NoError(t, err)
	b, err := PNG("qr-token-1", 128)
	require.NoError(t, err)
	assert.Equal(t, a, b, "rendering is deterministic for a stable token")
}
