package engine

import (
	"encoding/hex"

	"github.com/cronokirby/saferith"

	"github.com/asanso/kzg-ceremony-sequencer/internal/params"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
)

// scalarOrderHex is the BLS12-381 scalar field order r.
const scalarOrderHex = "73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"

var scalarOrder = mustModulus(scalarOrderHex)

func mustModulus(s string) *saferith.Modulus {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return saferith.ModulusFromBytes(b)
}

// generateTau reduces a drawn seed modulo the scalar order, in constant
// time, yielding the canonical big-endian form every engine starts from.
// The derivation is defined curve-wide rather than per-library so that the
// taus of a composite engine are bit-identical by construction; the
// cross-check then exercises the arithmetic that can actually diverge.
func generateTau(seed *secret.Seed) (*secret.Tau, error) {
	n := new(saferith.Nat).SetBytes(seed.Bytes())
	n.Mod(n, scalarOrder)

	buf := make([]byte, params.TauBytes)
	defer secret.Wipe(buf)
	n.FillBytes(buf)
	return secret.TauFromBytes(buf)
}
