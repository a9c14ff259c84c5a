package secret

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntropy(t *testing.T, tag byte) *Entropy {
	t.Helper()
	buf := make([]byte, 32)
	for i := range buf {
		buf[i] = tag + byte(i)
	}
	e, err := EntropyFromBytes(buf)
	require.NoError(t, err)
	return e
}

func TestGeneratorDeterminism(t *testing.T) {
	gen1, err := NewGenerator(testEntropy(t, 1))
	require.NoError(t, err)
	defer gen1.Burn()
	gen2, err := NewGenerator(testEntropy(t, 1))
	require.NoError(t, err)
	defer gen2.Burn()

	for i := 0; i < 8; i++ {
		a, b := gen1.Draw(), gen2.Draw()
		assert.True(t, bytes.Equal(a.Bytes(), b.Bytes()), "draw %d differs", i)
		a.Burn()
		b.Burn()
	}
}

func TestGeneratorDistinctSeeds(t *testing.T) {
	gen, err := NewGenerator(testEntropy(t, 2))
	require.NoError(t, err)
	defer gen.Burn()

	a, b := gen.Draw(), gen.Draw()
	defer a.Burn()
	defer b.Burn()
	assert.False(t, bytes.Equal(a.Bytes(), b.Bytes()))
}

func TestGeneratorDependsOnEntropy(t *testing.T) {
	gen1, err := NewGenerator(testEntropy(t, 3))
	require.NoError(t, err)
	defer gen1.Burn()
	gen2, err := NewGenerator(testEntropy(t, 4))
	require.NoError(t, err)
	defer gen2.Burn()

	a, b := gen1.Draw(), gen2.Draw()
	defer a.Burn()
	defer b.Burn()
	assert.False(t, bytes.Equal(a.Bytes(), b.Bytes()))
}

func TestBurnZeroizes(t *testing.T) {
	e := testEntropy(t, 5)
	e.Burn()
	assert.Equal(t, make([]byte, 32), e.Bytes())

	gen, err := NewGenerator(testEntropy(t, 5))
	require.NoError(t, err)
	s := gen.Draw()
	s.Burn()
	assert.Equal(t, make([]byte, 32), s.Bytes())
	gen.Burn()

	tau, err := TauFromBytes(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)
	tau.Burn()
	assert.Equal(t, make([]byte, 32), tau.Bytes())
}

func TestEntropyLength(t *testing.T) {
	_, err := EntropyFromBytes(make([]byte, 31))
	assert.Error(t, err)
	_, err = TauFromBytes(make([]byte, 33))
	assert.Error(t, err)
}

func TestRedactedStrings(t *testing.T) {
	e := testEntropy(t, 6)
	defer e.Burn()
	assert.NotContains(t, e.String(), "06")
	assert.Equal(t, "Entropy{…}", e.String())
}
