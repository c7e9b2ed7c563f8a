package qr

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	artifact, err := Render("https://tickets.example.com/verify/tok-1")

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(artifact, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(artifact, "data:image/png;base64,"))
	require.NoError(t, err)

	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw[:4])
}
