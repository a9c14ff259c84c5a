package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanso/kzg-ceremony-sequencer/internal/test"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/engine"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
)

func drawTau(t *testing.T, e engine.Engine, tag byte) *secret.Tau {
	t.Helper()
	entropy := test.Entropy(tag)
	defer entropy.Burn()
	gen, err := secret.NewGenerator(entropy)
	require.NoError(t, err)
	defer gen.Burn()
	seed := gen.Draw()
	defer seed.Burn()
	tau, err := e.GenerateTau(seed)
	require.NoError(t, err)
	return tau
}

func freshG1(n int) []engine.G1 {
	out := make([]engine.G1, n)
	for i := range out {
		out[i] = engine.G1Generator()
	}
	return out
}

func freshG2(n int) []engine.G2 {
	out := make([]engine.G2, n)
	for i := range out {
		out[i] = engine.G2Generator()
	}
	return out
}

func TestGenerateTauDeterministic(t *testing.T) {
	tau1 := drawTau(t, engine.Gnark{}, 1)
	defer tau1.Burn()
	tau2 := drawTau(t, engine.Gnark{}, 1)
	defer tau2.Burn()
	assert.Equal(t, tau1.Bytes(), tau2.Bytes())

	other := drawTau(t, engine.Gnark{}, 2)
	defer other.Burn()
	assert.NotEqual(t, tau1.Bytes(), other.Bytes())
}

func TestGenerateTauAgreesAcrossBackends(t *testing.T) {
	tauG := drawTau(t, engine.Gnark{}, 3)
	defer tauG.Burn()
	tauC := drawTau(t, engine.Circl{}, 3)
	defer tauC.Burn()
	assert.Equal(t, tauG.Bytes(), tauC.Bytes())
}

func TestAddTauAgreesAcrossBackends(t *testing.T) {
	tau := drawTau(t, engine.Gnark{}, 4)
	defer tau.Burn()

	g1A, g1B := freshG1(5), freshG1(5)
	require.NoError(t, engine.Gnark{}.AddTauG1(tau, g1A))
	require.NoError(t, engine.Circl{}.AddTauG1(tau, g1B))
	assert.Equal(t, g1A, g1B)

	g2A, g2B := freshG2(3), freshG2(3)
	require.NoError(t, engine.Gnark{}.AddTauG2(tau, g2A))
	require.NoError(t, engine.Circl{}.AddTauG2(tau, g2B))
	assert.Equal(t, g2A, g2B)

	// The zeroth power is tau^0 and must be untouched.
	assert.Equal(t, engine.G1Generator(), g1A[0])
	assert.Equal(t, engine.G2Generator(), g2A[0])
}

func TestSignIdentityAgreesAcrossBackends(t *testing.T) {
	tau := drawTau(t, engine.Gnark{}, 5)
	defer tau.Burn()

	msg := []byte("eth|0x000102030405060708090a0b0c0d0e0f10111213")
	sigG, err := engine.Gnark{}.SignIdentity(tau, msg)
	require.NoError(t, err)
	sigC, err := engine.Circl{}.SignIdentity(tau, msg)
	require.NoError(t, err)
	assert.Equal(t, sigG, sigC)
}

func TestVerifyG1(t *testing.T) {
	tau := drawTau(t, engine.Gnark{}, 6)
	defer tau.Burn()

	powers := freshG1(6)
	require.NoError(t, engine.Gnark{}.AddTauG1(tau, powers))
	acc := freshG2(2)
	require.NoError(t, engine.Gnark{}.AddTauG2(tau, acc))
	tauG2 := acc[1]

	for _, e := range []engine.Engine{engine.Gnark{}, engine.Circl{}} {
		assert.NoError(t, e.VerifyG1(powers, tauG2), e.Name())
	}

	// Swapping two powers breaks the progression.
	powers[2], powers[3] = powers[3], powers[2]
	for _, e := range []engine.Engine{engine.Gnark{}, engine.Circl{}} {
		assert.ErrorIs(t, e.VerifyG1(powers, tauG2), engine.ErrPairingCheckFailed, e.Name())
	}
}

func TestVerifyG2(t *testing.T) {
	tau := drawTau(t, engine.Gnark{}, 7)
	defer tau.Burn()

	g1 := freshG1(3)
	g2 := freshG2(3)
	require.NoError(t, engine.Gnark{}.AddTauG1(tau, g1))
	require.NoError(t, engine.Gnark{}.AddTauG2(tau, g2))

	for _, e := range []engine.Engine{engine.Gnark{}, engine.Circl{}} {
		assert.NoError(t, e.VerifyG2(g1, g2), e.Name())
	}

	other := drawTau(t, engine.Gnark{}, 8)
	defer other.Burn()
	wrong := freshG2(3)
	require.NoError(t, engine.Gnark{}.AddTauG2(other, wrong))
	for _, e := range []engine.Engine{engine.Gnark{}, engine.Circl{}} {
		assert.ErrorIs(t, e.VerifyG2(g1, wrong), engine.ErrPairingCheckFailed, e.Name())
	}
}

func TestVerifyPubKey(t *testing.T) {
	tau := drawTau(t, engine.Gnark{}, 9)
	defer tau.Burn()

	// previous = g1, new = [tau]g1, pubkey = [tau]g2.
	g1 := freshG1(2)
	require.NoError(t, engine.Gnark{}.AddTauG1(tau, g1))
	g2 := freshG2(2)
	require.NoError(t, engine.Gnark{}.AddTauG2(tau, g2))

	for _, e := range []engine.Engine{engine.Gnark{}, engine.Circl{}} {
		assert.NoError(t, e.VerifyPubKey(g1[1], engine.G1Generator(), g2[1]), e.Name())
		assert.ErrorIs(t,
			e.VerifyPubKey(engine.G1Generator(), engine.G1Generator(), g2[1]),
			engine.ErrPairingCheckFailed, e.Name())
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	var bad engine.G1
	for i := range bad {
		bad[i] = 0xFF
	}
	var badG2 engine.G2
	for i := range badG2 {
		badG2[i] = 0xFF
	}
	for _, e := range []engine.Engine{engine.Gnark{}, engine.Circl{}} {
		assert.ErrorIs(t, e.ValidateG1([]engine.G1{bad}), engine.ErrInvalidPoint, e.Name())
		assert.ErrorIs(t, e.ValidateG2([]engine.G2{badG2}), engine.ErrInvalidPoint, e.Name())
		assert.NoError(t, e.ValidateG1([]engine.G1{engine.G1Generator()}), e.Name())
		assert.NoError(t, e.ValidateG2([]engine.G2{engine.G2Generator()}), e.Name())
	}
}

func TestBothMatchesEitherBackend(t *testing.T) {
	both := engine.Both{A: engine.Gnark{}, B: engine.Circl{}}
	tau := drawTau(t, both, 10)
	defer tau.Burn()

	single := freshG1(5)
	require.NoError(t, engine.Gnark{}.AddTauG1(tau, single))
	dual := freshG1(5)
	require.NoError(t, both.AddTauG1(tau, dual))
	assert.Equal(t, single, dual)

	singleG2 := freshG2(3)
	require.NoError(t, engine.Circl{}.AddTauG2(tau, singleG2))
	dualG2 := freshG2(3)
	require.NoError(t, both.AddTauG2(tau, dualG2))
	assert.Equal(t, singleG2, dualG2)

	assert.NoError(t, both.ValidateG1(dual))
	assert.NoError(t, both.VerifyG1(dual, dualG2[1]))
}

func TestBothRejectsDisagreement(t *testing.T) {
	both := engine.Both{A: engine.Gnark{}, B: test.BrokenEngine{}}
	tau := drawTau(t, engine.Gnark{}, 11)
	defer tau.Burn()

	_, err := both.GenerateTau(&secret.Seed{})
	assert.ErrorIs(t, err, engine.ErrEngineMismatch)

	powers := freshG1(3)
	assert.ErrorIs(t, both.AddTauG1(tau, powers), engine.ErrEngineMismatch)
	// A failed composite mutation leaves the input untouched.
	assert.Equal(t, freshG1(3), powers)

	powersG2 := freshG2(2)
	assert.ErrorIs(t, both.AddTauG2(tau, powersG2), engine.ErrEngineMismatch)

	assert.ErrorIs(t, both.ValidateG1(freshG1(1)), engine.ErrEngineMismatch)
	assert.ErrorIs(t, both.ValidateG2(freshG2(1)), engine.ErrEngineMismatch)
	assert.ErrorIs(t,
		both.VerifyPubKey(engine.G1Generator(), engine.G1Generator(), engine.G2Generator()),
		engine.ErrEngineMismatch)
	assert.ErrorIs(t, both.VerifyG2(freshG1(1), freshG2(1)), engine.ErrEngineMismatch)

	_, err = both.SignIdentity(tau, []byte("eth|0x00"))
	assert.ErrorIs(t, err, engine.ErrEngineMismatch)
}

func TestBothIsComposable(t *testing.T) {
	// The composite is generic over any two engines, including another Both.
	nested := engine.Both{
		A: engine.Both{A: engine.Gnark{}, B: engine.Circl{}},
		B: engine.Gnark{},
	}
	tau := drawTau(t, nested, 12)
	defer tau.Burn()

	powers := freshG1(4)
	require.NoError(t, nested.AddTauG1(tau, powers))

	plain := freshG1(4)
	require.NoError(t, engine.Circl{}.AddTauG1(tau, plain))
	assert.Equal(t, plain, powers)
}

func TestPointEncoding(t *testing.T) {
	g := engine.G1Generator()
	data, err := g.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"0x`)

	var back engine.G1
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, g, back)

	assert.Error(t, back.UnmarshalJSON([]byte(`"97f1d3"`)), "missing prefix")
	assert.Error(t, back.UnmarshalJSON([]byte(`"0xzz"`)), "not hex")

	cb, err := engine.G2Generator().MarshalCBOR()
	require.NoError(t, err)
	var g2 engine.G2
	require.NoError(t, g2.UnmarshalCBOR(cb))
	assert.Equal(t, engine.G2Generator(), g2)
}
