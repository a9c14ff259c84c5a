// Package test provides deterministic fixtures for ceremony tests: fixed
// entropies, small accumulator sizes, and a deliberately broken engine for
// exercising the composite backend's disagreement path.
package test

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/asanso/kzg-ceremony-sequencer/internal/params"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/contribution"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/engine"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/signature"
)

// Entropy returns a fixed, test-only entropy derived from tag. Real
// participants draw from crypto/rand; tests need reproducibility.
func Entropy(tag byte) *secret.Entropy {
	var buf [params.EntropyBytes]byte
	for i := range buf {
		buf[i] = tag ^ byte(i*7+1)
	}
	e, err := secret.EntropyFromBytes(buf[:])
	if err != nil {
		panic(err)
	}
	return e
}

// Sizes returns small sub-ceremony dimensions so tests stay fast while
// still covering several independent items.
func Sizes() []contribution.Size {
	return []contribution.Size{
		{NumG1Powers: 8, NumG2Powers: 3},
		{NumG1Powers: 6, NumG2Powers: 2},
		{NumG1Powers: 4, NumG2Powers: 2},
		{NumG1Powers: 5, NumG2Powers: 3},
	}
}

// Participant returns a fixed participant: a signer over a deterministic
// secp256k1 key and the matching attested Ethereum address.
func Participant() (signature.Signer, signature.Identity) {
	keyBytes := make([]byte, 32)
	for i := range keyBytes {
		keyBytes[i] = byte(i + 1)
	}
	key := secp256k1.PrivKeyFromBytes(keyBytes)
	id := signature.EthAddress{Address: signature.EthAddressFromPubKey(key.PubKey())}
	return signature.NewKeySigner(key), id
}

// ErrBroken is what every operation of a BrokenEngine reports.
var ErrBroken = errors.New("test: broken engine")

// BrokenEngine fails every operation. Paired with a working engine inside
// a composite it must surface a backend disagreement for each of them.
type BrokenEngine struct{}

func (BrokenEngine) Name() string { return "broken" }

func (BrokenEngine) GenerateTau(seed *secret.Seed) (*secret.Tau, error) {
	return nil, ErrBroken
}

func (BrokenEngine) AddTauG1(tau *secret.Tau, powers []engine.G1) error { return ErrBroken }

func (BrokenEngine) AddTauG2(tau *secret.Tau, powers []engine.G2) error { return ErrBroken }

func (BrokenEngine) ValidateG1(points []engine.G1) error { return ErrBroken }

func (BrokenEngine) ValidateG2(points []engine.G2) error { return ErrBroken }

func (BrokenEngine) VerifyPubKey(tau, previous engine.G1, pubkey engine.G2) error {
	return ErrBroken
}

func (BrokenEngine) VerifyG1(powers []engine.G1, tauG2 engine.G2) error { return ErrBroken }

func (BrokenEngine) VerifyG2(g1 []engine.G1, g2 []engine.G2) error { return ErrBroken }

func (BrokenEngine) SignIdentity(tau *secret.Tau, msg []byte) (engine.G1, error) {
	return engine.G1{}, ErrBroken
}
