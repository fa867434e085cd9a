package embedprovider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNone_Encode_ReturnsEmptyVectorsPerInput(t *testing.T) {
	n := NewNone()
	out, err := n.Encode(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Empty(t, out[0])
	assert.Empty(t, out[1])
}

func TestNone_DimIsZero(t *testing.T) {
	n := NewNone()
	assert.Equal(t, 0, n.Dim())
}

func TestNone_NeverAvailable(t *testing.T) {
	n := NewNone()
	assert.False(t, n.Available(context.Background()))
}

func TestNone_Name(t *testing.T) {
	assert.Equal(t, "none", NewNone().Name())
}
