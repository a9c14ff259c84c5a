package secret

import (
	"golang.org/x/crypto/chacha20"

	"github.com/asanso/kzg-ceremony-sequencer/internal/params"
)

// Generator draws a deterministic sequence of Seeds from a master Entropy.
//
// The sequence is the ChaCha20 keystream under the entropy as key, read in
// fixed 32-byte increments starting at block zero. Re-deriving with the same
// entropy reproduces the same seeds bit-for-bit, which is what makes
// contribution audits and the dual-backend cross-check possible. There is no
// prefix-compatibility guarantee between runs that draw different counts;
// the number of draws is fixed per contribution.
//
// A Generator must stay confined to the scope that derives taus: never store
// one in a struct, and always defer Burn. Burn wipes the key copy and every
// buffer this package owns; the cipher's internal key schedule is the one
// piece of derived state the primitive does not expose for wiping, which is
// why confinement matters.
type Generator struct {
	key    [params.EntropyBytes]byte
	stream *chacha20.Cipher
}

// NewGenerator seeds a Generator with the given entropy. The entropy is
// copied; the caller remains responsible for burning its own copy.
func NewGenerator(entropy *Entropy) (*Generator, error) {
	g := &Generator{}
	copy(g.key[:], entropy.Bytes())

	var nonce [chacha20.NonceSize]byte
	stream, err := chacha20.NewUnauthenticatedCipher(g.key[:], nonce[:])
	if err != nil {
		wipe(g.key[:])
		return nil, err
	}
	g.stream = stream
	return g, nil
}

// Draw returns the next Seed in the sequence. The caller owns the seed and
// must burn it.
func (g *Generator) Draw() *Seed {
	s := &Seed{}
	// XOR over zeros yields the raw keystream.
	g.stream.XORKeyStream(s.buf[:], s.buf[:])
	return s
}

// Burn wipes the generator's key copy.
func (g *Generator) Burn() {
	wipe(g.key[:])
	g.stream = nil
}
