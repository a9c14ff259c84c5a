// Package engine defines the elliptic-curve capability a powers-of-tau
// ceremony runs on, and a closed set of implementations: Gnark
// (consensys/gnark-crypto), Circl (cloudflare/circl), and Both, which runs
// two engines side by side and treats any divergence as a defect.
//
// All points cross the interface in wire form (compressed bytes), so two
// independent implementations can be compared bit-for-bit.
package engine

import (
	"errors"

	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
)

// Errors originated by the engines. Backend failures never carry secret
// material; they describe the public state that was rejected.
var (
	// ErrInvalidPoint indicates a point that failed to decode, is not on
	// the curve, or is outside the prime-order subgroup.
	ErrInvalidPoint = errors.New("engine: invalid point encoding")

	// ErrIdentityPoint indicates a point that is the group identity where
	// a non-trivial element is required.
	ErrIdentityPoint = errors.New("engine: unexpected identity point")

	// ErrPairingCheckFailed indicates an accumulator consistency check
	// that did not hold.
	ErrPairingCheckFailed = errors.New("engine: pairing check failed")

	// ErrLengthMismatch indicates slices whose lengths do not line up.
	ErrLengthMismatch = errors.New("engine: length mismatch")

	// ErrEngineMismatch indicates the two engines of a composite produced
	// inconsistent results for the same operation. This is an
	// implementation defect in at least one of them, never a
	// normal-operation failure.
	ErrEngineMismatch = errors.New("engine: backends disagree")
)

// Engine is the pluggable curve backend consumed by the contribution and
// transcript packages.
//
// AddTauG1 and AddTauG2 multiply powers[i] by tau^i in place; the zeroth
// power is untouched. ValidateG1 and ValidateG2 decode every point and
// reject malformed, out-of-subgroup and identity elements. VerifyPubKey
// checks e(tau, g2) == e(previous, pubkey), the link between two adjacent
// accumulator states. VerifyG1 checks that powers form a geometric
// progression whose ratio is committed in tauG2, and VerifyG2 checks that
// the G1 and G2 sides carry the same exponents. SignIdentity produces a
// BLS signature over msg under tau as signing key, binding the scalar to a
// participant identity.
type Engine interface {
	Name() string
	GenerateTau(seed *secret.Seed) (*secret.Tau, error)
	AddTauG1(tau *secret.Tau, powers []G1) error
	AddTauG2(tau *secret.Tau, powers []G2) error
	ValidateG1(points []G1) error
	ValidateG2(points []G2) error
	VerifyPubKey(tau, previous G1, pubkey G2) error
	VerifyG1(powers []G1, tauG2 G2) error
	VerifyG2(g1 []G1, g2 []G2) error
	SignIdentity(tau *secret.Tau, msg []byte) (G1, error)
}

// signatureDST is the hash-to-curve domain separation tag for identity
// signatures, the proof-of-possession ciphersuite both backends implement.
const signatureDST = "BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_POP_"
