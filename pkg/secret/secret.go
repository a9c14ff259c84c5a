// Package secret holds the secret material of one contribution act: the
// participant's master entropy, the per-sub-ceremony seeds drawn from it,
// and the derived tau scalars.
//
// Every type in this package owns a fixed-size buffer and exposes Burn,
// which overwrites the buffer in place. Callers are expected to defer Burn
// as soon as a value is created, so that no secret outlives the scope that
// needs it. None of these types marshal themselves, and their String
// methods redact.
package secret

import (
	"errors"
	"io"

	"github.com/asanso/kzg-ceremony-sequencer/internal/params"
)

// Entropy is the 32-byte master secret supplied by the participant.
// It is the sole root of randomness for one contribution round.
type Entropy struct {
	buf [params.EntropyBytes]byte
}

// NewEntropy reads a fresh Entropy from r, typically crypto/rand.Reader.
func NewEntropy(r io.Reader) (*Entropy, error) {
	e := &Entropy{}
	if _, err := io.ReadFull(r, e.buf[:]); err != nil {
		return nil, err
	}
	return e, nil
}

// EntropyFromBytes copies b into a new Entropy. The caller keeps ownership
// of b and should wipe it.
func EntropyFromBytes(b []byte) (*Entropy, error) {
	if len(b) != params.EntropyBytes {
		return nil, errors.New("secret: entropy must be exactly 32 bytes")
	}
	e := &Entropy{}
	copy(e.buf[:], b)
	return e, nil
}

// Bytes exposes the underlying secret. The returned slice aliases the
// Entropy's buffer and must not escape the caller's scope.
func (e *Entropy) Bytes() []byte { return e.buf[:] }

// Burn overwrites the entropy in place.
func (e *Entropy) Burn() { wipe(e.buf[:]) }

func (e *Entropy) String() string { return "Entropy{…}" }

// Seed is one 32-byte secret drawn from the entropy-seeded generator.
type Seed struct {
	buf [params.SeedBytes]byte
}

// Bytes exposes the underlying secret; the slice aliases the Seed's buffer.
func (s *Seed) Bytes() []byte { return s.buf[:] }

// Burn overwrites the seed in place.
func (s *Seed) Burn() { wipe(s.buf[:]) }

func (s *Seed) String() string { return "Seed{…}" }

// Tau is an ephemeral secret scalar in canonical form: 32 bytes big-endian,
// strictly below the BLS12-381 scalar field order. Its lifetime is bounded
// to the single accumulator update that consumes it.
type Tau struct {
	buf [params.TauBytes]byte
}

// TauFromBytes copies a canonical scalar into a new Tau. It is the
// engine's job to guarantee the bytes are reduced.
func TauFromBytes(b []byte) (*Tau, error) {
	if len(b) != params.TauBytes {
		return nil, errors.New("secret: tau must be exactly 32 bytes")
	}
	t := &Tau{}
	copy(t.buf[:], b)
	return t, nil
}

// Bytes exposes the canonical scalar; the slice aliases the Tau's buffer.
func (t *Tau) Bytes() []byte { return t.buf[:] }

// Burn overwrites the scalar in place.
func (t *Tau) Burn() { wipe(t.buf[:]) }

func (t *Tau) String() string { return "Tau{…}" }

// Wipe overwrites b with zeros. It is exported for callers that hold
// secret-derived material in plain byte slices.
func Wipe(b []byte) { wipe(b) }

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
