package engine

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
)

var (
	gnarkG1Gen bls12381.G1Affine
	gnarkG2Gen bls12381.G2Affine

	// g1GenWire and g2GenWire are the compressed generators; they double as
	// the starting value of every accumulator slot.
	g1GenWire G1
	g2GenWire G2
)

func init() {
	_, _, gnarkG1Gen, gnarkG2Gen = bls12381.Generators()
	g1GenWire = gnarkG1Gen.Bytes()
	g2GenWire = gnarkG2Gen.Bytes()
}

// G1Generator returns the compressed G1 generator.
func G1Generator() G1 { return g1GenWire }

// G2Generator returns the compressed G2 generator.
func G2Generator() G2 { return g2GenWire }

// Gnark is the backend built on consensys/gnark-crypto.
type Gnark struct{}

// Name implements Engine.
func (Gnark) Name() string { return "gnark" }

// GenerateTau implements Engine.
func (Gnark) GenerateTau(seed *secret.Seed) (*secret.Tau, error) {
	return generateTau(seed)
}

// AddTauG1 implements Engine.
func (Gnark) AddTauG1(tau *secret.Tau, powers []G1) error {
	scalars := gnarkTauPowers(tau, len(powers))
	defer wipeFr(scalars)

	var k big.Int
	for i := 1; i < len(powers); i++ {
		var p bls12381.G1Affine
		if _, err := p.SetBytes(powers[i][:]); err != nil {
			return fmt.Errorf("power %d: %w", i, ErrInvalidPoint)
		}
		scalars[i].BigInt(&k)
		p.ScalarMultiplication(&p, &k)
		powers[i] = p.Bytes()
	}
	k.SetInt64(0)
	return nil
}

// AddTauG2 implements Engine.
func (Gnark) AddTauG2(tau *secret.Tau, powers []G2) error {
	scalars := gnarkTauPowers(tau, len(powers))
	defer wipeFr(scalars)

	var k big.Int
	for i := 1; i < len(powers); i++ {
		var p bls12381.G2Affine
		if _, err := p.SetBytes(powers[i][:]); err != nil {
			return fmt.Errorf("power %d: %w", i, ErrInvalidPoint)
		}
		scalars[i].BigInt(&k)
		p.ScalarMultiplication(&p, &k)
		powers[i] = p.Bytes()
	}
	k.SetInt64(0)
	return nil
}

// ValidateG1 implements Engine.
func (Gnark) ValidateG1(points []G1) error {
	for i := range points {
		var p bls12381.G1Affine
		if _, err := p.SetBytes(points[i][:]); err != nil {
			return fmt.Errorf("point %d: %w", i, ErrInvalidPoint)
		}
		if p.IsInfinity() {
			return fmt.Errorf("point %d: %w", i, ErrIdentityPoint)
		}
	}
	return nil
}

// ValidateG2 implements Engine.
func (Gnark) ValidateG2(points []G2) error {
	for i := range points {
		var p bls12381.G2Affine
		if _, err := p.SetBytes(points[i][:]); err != nil {
			return fmt.Errorf("point %d: %w", i, ErrInvalidPoint)
		}
		if p.IsInfinity() {
			return fmt.Errorf("point %d: %w", i, ErrIdentityPoint)
		}
	}
	return nil
}

// VerifyPubKey implements Engine: e(tau, g2) == e(previous, pubkey).
func (Gnark) VerifyPubKey(tau, previous G1, pubkey G2) error {
	var tauP, prevP bls12381.G1Affine
	var pubP bls12381.G2Affine
	if _, err := tauP.SetBytes(tau[:]); err != nil {
		return fmt.Errorf("tau power: %w", ErrInvalidPoint)
	}
	if _, err := prevP.SetBytes(previous[:]); err != nil {
		return fmt.Errorf("previous power: %w", ErrInvalidPoint)
	}
	if _, err := pubP.SetBytes(pubkey[:]); err != nil {
		return fmt.Errorf("pot pubkey: %w", ErrInvalidPoint)
	}
	prevP.Neg(&prevP)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{tauP, prevP},
		[]bls12381.G2Affine{gnarkG2Gen, pubP},
	)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("pot pubkey: %w", ErrPairingCheckFailed)
	}
	return nil
}

// VerifyG1 implements Engine. The check is the usual random linear
// combination: with random factors ρ, e(Σ ρ_i P_i, tauG2) must equal
// e(Σ ρ_i P_{i+1}, g2).
func (Gnark) VerifyG1(powers []G1, tauG2 G2) error {
	if len(powers) < 2 {
		return nil
	}
	pts := make([]bls12381.G1Affine, len(powers))
	for i := range powers {
		if _, err := pts[i].SetBytes(powers[i][:]); err != nil {
			return fmt.Errorf("power %d: %w", i, ErrInvalidPoint)
		}
	}
	var tauP bls12381.G2Affine
	if _, err := tauP.SetBytes(tauG2[:]); err != nil {
		return fmt.Errorf("tau commitment: %w", ErrInvalidPoint)
	}

	factors, err := randomFr(len(powers) - 1)
	if err != nil {
		return err
	}
	var lhs, rhs bls12381.G1Affine
	if _, err := lhs.MultiExp(pts[:len(pts)-1], factors, ecc.MultiExpConfig{}); err != nil {
		return err
	}
	if _, err := rhs.MultiExp(pts[1:], factors, ecc.MultiExpConfig{}); err != nil {
		return err
	}
	rhs.Neg(&rhs)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{lhs, rhs},
		[]bls12381.G2Affine{tauP, gnarkG2Gen},
	)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("g1 powers: %w", ErrPairingCheckFailed)
	}
	return nil
}

// VerifyG2 implements Engine: for every i, e(g1[i], g2) == e(g1gen, g2[i]),
// aggregated with a random linear combination.
func (Gnark) VerifyG2(g1 []G1, g2 []G2) error {
	if len(g1) != len(g2) {
		return fmt.Errorf("%w: %d G1 vs %d G2", ErrLengthMismatch, len(g1), len(g2))
	}
	if len(g1) == 0 {
		return nil
	}
	ptsG1 := make([]bls12381.G1Affine, len(g1))
	ptsG2 := make([]bls12381.G2Affine, len(g2))
	for i := range g1 {
		if _, err := ptsG1[i].SetBytes(g1[i][:]); err != nil {
			return fmt.Errorf("g1 power %d: %w", i, ErrInvalidPoint)
		}
		if _, err := ptsG2[i].SetBytes(g2[i][:]); err != nil {
			return fmt.Errorf("g2 power %d: %w", i, ErrInvalidPoint)
		}
	}

	factors, err := randomFr(len(g1))
	if err != nil {
		return err
	}
	var lhs bls12381.G1Affine
	if _, err := lhs.MultiExp(ptsG1, factors, ecc.MultiExpConfig{}); err != nil {
		return err
	}
	var rhs bls12381.G2Affine
	if _, err := rhs.MultiExp(ptsG2, factors, ecc.MultiExpConfig{}); err != nil {
		return err
	}
	var negGen bls12381.G1Affine
	negGen.Neg(&gnarkG1Gen)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{lhs, negGen},
		[]bls12381.G2Affine{gnarkG2Gen, rhs},
	)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("g2 powers: %w", ErrPairingCheckFailed)
	}
	return nil
}

// SignIdentity implements Engine.
func (Gnark) SignIdentity(tau *secret.Tau, msg []byte) (G1, error) {
	h, err := bls12381.HashToG1(msg, []byte(signatureDST))
	if err != nil {
		return G1{}, err
	}
	var t fr.Element
	t.SetBytes(tau.Bytes())
	var k big.Int
	t.BigInt(&k)
	h.ScalarMultiplication(&h, &k)
	t.SetZero()
	k.SetInt64(0)
	return h.Bytes(), nil
}

// gnarkTauPowers returns [1, tau, tau^2, …] of length n.
func gnarkTauPowers(tau *secret.Tau, n int) []fr.Element {
	var t fr.Element
	t.SetBytes(tau.Bytes())
	powers := make([]fr.Element, n)
	if n > 0 {
		powers[0].SetOne()
	}
	for i := 1; i < n; i++ {
		powers[i].Mul(&powers[i-1], &t)
	}
	t.SetZero()
	return powers
}

func wipeFr(els []fr.Element) {
	for i := range els {
		els[i].SetZero()
	}
}

// randomFr samples n uniform factors from crypto/rand. Verification
// randomness is not secret and not required to be deterministic.
func randomFr(n int) ([]fr.Element, error) {
	out := make([]fr.Element, n)
	for i := range out {
		if _, err := out[i].SetRandom(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
