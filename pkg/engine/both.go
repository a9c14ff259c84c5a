package engine

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
)

// Both runs every operation against two independent engines and requires
// them to agree, bit-for-bit for results and check-for-check for
// verifications. Mutating operations run on private copies and are only
// written back once both sides produced identical output, so a divergence
// never leaves half-written state behind.
//
// Both is generic over any two engines of the interface, including another
// Both.
type Both struct {
	A, B Engine
}

// Name implements Engine.
func (e Both) Name() string {
	return fmt.Sprintf("both(%s,%s)", e.A.Name(), e.B.Name())
}

// GenerateTau implements Engine.
func (e Both) GenerateTau(seed *secret.Seed) (*secret.Tau, error) {
	tauA, errA := e.A.GenerateTau(seed)
	tauB, errB := e.B.GenerateTau(seed)
	if err := e.agree("GenerateTau", errA, errB); err != nil {
		burnTaus(tauA, tauB)
		return nil, err
	}
	if errA != nil {
		return nil, errA
	}
	if !bytes.Equal(tauA.Bytes(), tauB.Bytes()) {
		burnTaus(tauA, tauB)
		return nil, e.mismatch("GenerateTau")
	}
	tauB.Burn()
	return tauA, nil
}

// AddTauG1 implements Engine.
func (e Both) AddTauG1(tau *secret.Tau, powers []G1) error {
	sideA := append([]G1(nil), powers...)
	sideB := append([]G1(nil), powers...)
	errA := e.A.AddTauG1(tau, sideA)
	errB := e.B.AddTauG1(tau, sideB)
	if err := e.agree("AddTauG1", errA, errB); err != nil {
		return err
	}
	if errA != nil {
		return errA
	}
	for i := range sideA {
		if sideA[i] != sideB[i] {
			return e.mismatch("AddTauG1")
		}
	}
	copy(powers, sideA)
	return nil
}

// AddTauG2 implements Engine.
func (e Both) AddTauG2(tau *secret.Tau, powers []G2) error {
	sideA := append([]G2(nil), powers...)
	sideB := append([]G2(nil), powers...)
	errA := e.A.AddTauG2(tau, sideA)
	errB := e.B.AddTauG2(tau, sideB)
	if err := e.agree("AddTauG2", errA, errB); err != nil {
		return err
	}
	if errA != nil {
		return errA
	}
	for i := range sideA {
		if sideA[i] != sideB[i] {
			return e.mismatch("AddTauG2")
		}
	}
	copy(powers, sideA)
	return nil
}

// ValidateG1 implements Engine.
func (e Both) ValidateG1(points []G1) error {
	return e.check("ValidateG1", e.A.ValidateG1(points), e.B.ValidateG1(points))
}

// ValidateG2 implements Engine.
func (e Both) ValidateG2(points []G2) error {
	return e.check("ValidateG2", e.A.ValidateG2(points), e.B.ValidateG2(points))
}

// VerifyPubKey implements Engine.
func (e Both) VerifyPubKey(tau, previous G1, pubkey G2) error {
	return e.check("VerifyPubKey",
		e.A.VerifyPubKey(tau, previous, pubkey),
		e.B.VerifyPubKey(tau, previous, pubkey))
}

// VerifyG1 implements Engine.
func (e Both) VerifyG1(powers []G1, tauG2 G2) error {
	return e.check("VerifyG1", e.A.VerifyG1(powers, tauG2), e.B.VerifyG1(powers, tauG2))
}

// VerifyG2 implements Engine.
func (e Both) VerifyG2(g1 []G1, g2 []G2) error {
	return e.check("VerifyG2", e.A.VerifyG2(g1, g2), e.B.VerifyG2(g1, g2))
}

// SignIdentity implements Engine.
func (e Both) SignIdentity(tau *secret.Tau, msg []byte) (G1, error) {
	sigA, errA := e.A.SignIdentity(tau, msg)
	sigB, errB := e.B.SignIdentity(tau, msg)
	if err := e.agree("SignIdentity", errA, errB); err != nil {
		return G1{}, err
	}
	if errA != nil {
		return G1{}, errA
	}
	if sigA != sigB {
		return G1{}, e.mismatch("SignIdentity")
	}
	return sigA, nil
}

// agree rejects operations where one engine failed and the other did not.
// When both failed, the caller surfaces A's error: both sides rejected the
// input, which is a normal-operation failure, not a divergence.
func (e Both) agree(op string, errA, errB error) error {
	if (errA == nil) != (errB == nil) {
		return fmt.Errorf("%s: %s vs %s: %w (%v / %v)",
			op, e.A.Name(), e.B.Name(), ErrEngineMismatch, errA, errB)
	}
	return nil
}

// check is agree for read-only operations, passing through the shared verdict.
func (e Both) check(op string, errA, errB error) error {
	if err := e.agree(op, errA, errB); err != nil {
		return err
	}
	return errA
}

func (e Both) mismatch(op string) error {
	return fmt.Errorf("%s: %s vs %s: %w", op, e.A.Name(), e.B.Name(), ErrEngineMismatch)
}

func burnTaus(taus ...*secret.Tau) {
	for _, t := range taus {
		if t != nil {
			t.Burn()
		}
	}
}

// IsMismatch reports whether err stems from a backend disagreement.
func IsMismatch(err error) bool {
	return errors.Is(err, ErrEngineMismatch)
}
