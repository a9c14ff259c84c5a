// Package contribution implements the participant side of a KZG
// powers-of-tau ceremony: the batch of independent sub-ceremony
// accumulators one participant updates with secret-derived taus, validates,
// signs and hands back to the sequencer.
package contribution

import (
	"errors"
	"fmt"

	"github.com/asanso/kzg-ceremony-sequencer/pkg/engine"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/signature"
)

// PowersOfTau is the accumulated state of one sub-ceremony:
// G1Powers[i] = [tau_acc^i]g1 and G2Powers[i] = [tau_acc^i]g2, where
// tau_acc is the product of every participant's tau so far.
type PowersOfTau struct {
	G1Powers []engine.G1 `json:"G1Powers" cbor:"1,keyasint"`
	G2Powers []engine.G2 `json:"G2Powers" cbor:"2,keyasint"`
}

// NewPowersOfTau returns the fresh accumulator: every slot starts at its
// group's generator.
func NewPowersOfTau(numG1, numG2 int) PowersOfTau {
	p := PowersOfTau{
		G1Powers: make([]engine.G1, numG1),
		G2Powers: make([]engine.G2, numG2),
	}
	for i := range p.G1Powers {
		p.G1Powers[i] = engine.G1Generator()
	}
	for i := range p.G2Powers {
		p.G2Powers[i] = engine.G2Generator()
	}
	return p
}

// Contribution is the state of one sub-ceremony accumulator at a point in
// the ceremony, together with the pot pubkey committing to the scalar this
// participant multiplied in, and an optional BLS signature binding that
// scalar to an identity.
type Contribution struct {
	NumG1Powers  int         `json:"numG1Powers" cbor:"1,keyasint"`
	NumG2Powers  int         `json:"numG2Powers" cbor:"2,keyasint"`
	PowersOfTau  PowersOfTau `json:"powersOfTau" cbor:"3,keyasint"`
	PotPubkey    engine.G2   `json:"potPubkey" cbor:"4,keyasint"`
	BLSSignature engine.G1   `json:"blsSignature" cbor:"5,keyasint"`
}

// NewContribution returns a fresh sub-ceremony of the given size.
func NewContribution(numG1, numG2 int) Contribution {
	return Contribution{
		NumG1Powers: numG1,
		NumG2Powers: numG2,
		PowersOfTau: NewPowersOfTau(numG1, numG2),
		PotPubkey:   engine.G2Generator(),
	}
}

// AddTau multiplies the i-th power by tau^i in both groups, recomputes the
// pot pubkey, and, for an attested identity, BLS-signs the identity string
// under tau. The new state is derivable from the old state and exactly one
// secret scalar; tau itself is not retained.
func (c *Contribution) AddTau(e engine.Engine, tau *secret.Tau, id signature.Identity) error {
	if c.NumG1Powers != len(c.PowersOfTau.G1Powers) || c.NumG2Powers != len(c.PowersOfTau.G2Powers) {
		return errors.New("contribution: power counts do not match declared sizes")
	}
	if err := e.AddTauG1(tau, c.PowersOfTau.G1Powers); err != nil {
		return fmt.Errorf("add tau to G1 powers: %w", err)
	}
	if err := e.AddTauG2(tau, c.PowersOfTau.G2Powers); err != nil {
		return fmt.Errorf("add tau to G2 powers: %w", err)
	}

	// The pot pubkey is [tau]g2, obtained by running the same accumulation
	// over a fresh two-element accumulator.
	pubkey := []engine.G2{engine.G2Generator(), engine.G2Generator()}
	if err := e.AddTauG2(tau, pubkey); err != nil {
		return fmt.Errorf("compute pot pubkey: %w", err)
	}
	c.PotPubkey = pubkey[1]

	if !signature.IsNone(id) {
		sig, err := e.SignIdentity(tau, []byte(id.String()))
		if err != nil {
			return fmt.Errorf("sign identity: %w", err)
		}
		c.BLSSignature = sig
	} else {
		c.BLSSignature = engine.G1{}
	}
	return nil
}

// Validate checks the internal consistency of the accumulator without
// knowledge of any scalar: declared sizes, points decode into the
// prime-order subgroup, the pot pubkey is non-trivial, and both power
// vectors form geometric progressions with the same ratio, committed in
// G2Powers[1]. It does not mutate the contribution.
func (c *Contribution) Validate(e engine.Engine) error {
	if c.NumG1Powers != len(c.PowersOfTau.G1Powers) || c.NumG2Powers != len(c.PowersOfTau.G2Powers) {
		return errors.New("contribution: power counts do not match declared sizes")
	}
	if c.NumG2Powers < 2 {
		return errors.New("contribution: need at least two G2 powers")
	}
	if c.NumG1Powers < c.NumG2Powers {
		return errors.New("contribution: fewer G1 than G2 powers")
	}
	if c.PowersOfTau.G1Powers[0] != engine.G1Generator() {
		return errors.New("contribution: zeroth G1 power is not the generator")
	}
	if c.PowersOfTau.G2Powers[0] != engine.G2Generator() {
		return errors.New("contribution: zeroth G2 power is not the generator")
	}
	if err := e.ValidateG1(c.PowersOfTau.G1Powers); err != nil {
		return fmt.Errorf("G1 powers: %w", err)
	}
	if err := e.ValidateG2(c.PowersOfTau.G2Powers); err != nil {
		return fmt.Errorf("G2 powers: %w", err)
	}
	if err := e.ValidateG2([]engine.G2{c.PotPubkey}); err != nil {
		return fmt.Errorf("pot pubkey: %w", err)
	}
	if c.BLSSignature != (engine.G1{}) {
		if err := e.ValidateG1([]engine.G1{c.BLSSignature}); err != nil {
			return fmt.Errorf("bls signature: %w", err)
		}
	}
	if err := e.VerifyG1(c.PowersOfTau.G1Powers, c.PowersOfTau.G2Powers[1]); err != nil {
		return err
	}
	return e.VerifyG2(c.PowersOfTau.G1Powers[:c.NumG2Powers], c.PowersOfTau.G2Powers)
}
