package engine

import (
	"crypto/rand"
	"fmt"

	circl "github.com/cloudflare/circl/ecc/bls12381"

	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
)

// Circl is the backend built on cloudflare/circl. It is implemented
// independently of gnark-crypto, which is the whole point: the composite
// engine runs both and turns a defect in either into a visible failure.
type Circl struct{}

// Name implements Engine.
func (Circl) Name() string { return "circl" }

// GenerateTau implements Engine.
func (Circl) GenerateTau(seed *secret.Seed) (*secret.Tau, error) {
	return generateTau(seed)
}

// AddTauG1 implements Engine.
func (Circl) AddTauG1(tau *secret.Tau, powers []G1) error {
	scalars, err := circlTauPowers(tau, len(powers))
	if err != nil {
		return err
	}
	defer wipeScalars(scalars)

	for i := 1; i < len(powers); i++ {
		p := new(circl.G1)
		if err := p.SetBytes(powers[i][:]); err != nil {
			return fmt.Errorf("power %d: %w", i, ErrInvalidPoint)
		}
		p.ScalarMult(&scalars[i], p)
		copy(powers[i][:], p.BytesCompressed())
	}
	return nil
}

// AddTauG2 implements Engine.
func (Circl) AddTauG2(tau *secret.Tau, powers []G2) error {
	scalars, err := circlTauPowers(tau, len(powers))
	if err != nil {
		return err
	}
	defer wipeScalars(scalars)

	for i := 1; i < len(powers); i++ {
		p := new(circl.G2)
		if err := p.SetBytes(powers[i][:]); err != nil {
			return fmt.Errorf("power %d: %w", i, ErrInvalidPoint)
		}
		p.ScalarMult(&scalars[i], p)
		copy(powers[i][:], p.BytesCompressed())
	}
	return nil
}

// ValidateG1 implements Engine.
func (Circl) ValidateG1(points []G1) error {
	for i := range points {
		p := new(circl.G1)
		if err := p.SetBytes(points[i][:]); err != nil {
			return fmt.Errorf("point %d: %w", i, ErrInvalidPoint)
		}
		if p.IsIdentity() {
			return fmt.Errorf("point %d: %w", i, ErrIdentityPoint)
		}
	}
	return nil
}

// ValidateG2 implements Engine.
func (Circl) ValidateG2(points []G2) error {
	for i := range points {
		p := new(circl.G2)
		if err := p.SetBytes(points[i][:]); err != nil {
			return fmt.Errorf("point %d: %w", i, ErrInvalidPoint)
		}
		if p.IsIdentity() {
			return fmt.Errorf("point %d: %w", i, ErrIdentityPoint)
		}
	}
	return nil
}

// VerifyPubKey implements Engine: e(tau, g2) == e(previous, pubkey).
func (Circl) VerifyPubKey(tau, previous G1, pubkey G2) error {
	tauP := new(circl.G1)
	if err := tauP.SetBytes(tau[:]); err != nil {
		return fmt.Errorf("tau power: %w", ErrInvalidPoint)
	}
	prevP := new(circl.G1)
	if err := prevP.SetBytes(previous[:]); err != nil {
		return fmt.Errorf("previous power: %w", ErrInvalidPoint)
	}
	pubP := new(circl.G2)
	if err := pubP.SetBytes(pubkey[:]); err != nil {
		return fmt.Errorf("pot pubkey: %w", ErrInvalidPoint)
	}
	lhs := circl.Pair(tauP, circl.G2Generator())
	rhs := circl.Pair(prevP, pubP)
	if !lhs.IsEqual(rhs) {
		return fmt.Errorf("pot pubkey: %w", ErrPairingCheckFailed)
	}
	return nil
}

// VerifyG1 implements Engine.
func (Circl) VerifyG1(powers []G1, tauG2 G2) error {
	if len(powers) < 2 {
		return nil
	}
	pts := make([]*circl.G1, len(powers))
	for i := range powers {
		pts[i] = new(circl.G1)
		if err := pts[i].SetBytes(powers[i][:]); err != nil {
			return fmt.Errorf("power %d: %w", i, ErrInvalidPoint)
		}
	}
	tauP := new(circl.G2)
	if err := tauP.SetBytes(tauG2[:]); err != nil {
		return fmt.Errorf("tau commitment: %w", ErrInvalidPoint)
	}

	factors, err := randomScalars(len(powers) - 1)
	if err != nil {
		return err
	}
	lhs := circlSumG1(pts[:len(pts)-1], factors)
	rhs := circlSumG1(pts[1:], factors)
	if !circl.Pair(lhs, tauP).IsEqual(circl.Pair(rhs, circl.G2Generator())) {
		return fmt.Errorf("g1 powers: %w", ErrPairingCheckFailed)
	}
	return nil
}

// VerifyG2 implements Engine.
func (Circl) VerifyG2(g1 []G1, g2 []G2) error {
	if len(g1) != len(g2) {
		return fmt.Errorf("%w: %d G1 vs %d G2", ErrLengthMismatch, len(g1), len(g2))
	}
	if len(g1) == 0 {
		return nil
	}
	ptsG1 := make([]*circl.G1, len(g1))
	ptsG2 := make([]*circl.G2, len(g2))
	for i := range g1 {
		ptsG1[i] = new(circl.G1)
		if err := ptsG1[i].SetBytes(g1[i][:]); err != nil {
			return fmt.Errorf("g1 power %d: %w", i, ErrInvalidPoint)
		}
		ptsG2[i] = new(circl.G2)
		if err := ptsG2[i].SetBytes(g2[i][:]); err != nil {
			return fmt.Errorf("g2 power %d: %w", i, ErrInvalidPoint)
		}
	}

	factors, err := randomScalars(len(g1))
	if err != nil {
		return err
	}
	lhs := circlSumG1(ptsG1, factors)
	rhs := circlSumG2(ptsG2, factors)
	if !circl.Pair(lhs, circl.G2Generator()).IsEqual(circl.Pair(circl.G1Generator(), rhs)) {
		return fmt.Errorf("g2 powers: %w", ErrPairingCheckFailed)
	}
	return nil
}

// SignIdentity implements Engine.
func (Circl) SignIdentity(tau *secret.Tau, msg []byte) (G1, error) {
	var k circl.Scalar
	if err := k.UnmarshalBinary(tau.Bytes()); err != nil {
		return G1{}, err
	}
	h := new(circl.G1)
	h.Hash(msg, []byte(signatureDST))
	h.ScalarMult(&k, h)
	k.SetUint64(0)
	var out G1
	copy(out[:], h.BytesCompressed())
	return out, nil
}

// circlTauPowers returns [1, tau, tau^2, …] of length n.
func circlTauPowers(tau *secret.Tau, n int) ([]circl.Scalar, error) {
	var t circl.Scalar
	if err := t.UnmarshalBinary(tau.Bytes()); err != nil {
		return nil, err
	}
	powers := make([]circl.Scalar, n)
	if n > 0 {
		powers[0].SetUint64(1)
	}
	for i := 1; i < n; i++ {
		powers[i].Mul(&powers[i-1], &t)
	}
	t.SetUint64(0)
	return powers, nil
}

func wipeScalars(scalars []circl.Scalar) {
	for i := range scalars {
		scalars[i].SetUint64(0)
	}
}

func randomScalars(n int) ([]circl.Scalar, error) {
	out := make([]circl.Scalar, n)
	for i := range out {
		if err := out[i].Random(rand.Reader); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func circlSumG1(pts []*circl.G1, factors []circl.Scalar) *circl.G1 {
	acc := new(circl.G1)
	acc.SetIdentity()
	tmp := new(circl.G1)
	for i := range pts {
		tmp.ScalarMult(&factors[i], pts[i])
		acc.Add(acc, tmp)
	}
	return acc
}

func circlSumG2(pts []*circl.G2, factors []circl.Scalar) *circl.G2 {
	acc := new(circl.G2)
	acc.SetIdentity()
	tmp := new(circl.G2)
	for i := range pts {
		tmp.ScalarMult(&factors[i], pts[i])
		acc.Add(acc, tmp)
	}
	return acc
}
