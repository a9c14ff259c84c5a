package contribution

import (
	"errors"
	"fmt"

	"github.com/asanso/kzg-ceremony-sequencer/internal/params"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/engine"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/pool"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/secret"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/signature"
)

// BatchContribution is the ordered, fixed-length set of sub-ceremony
// contributions one participant produces in one round, plus one signature
// binding the whole batch to their identity. Index position identifies the
// sub-ceremony; error reporting is index-addressed.
type BatchContribution struct {
	Contributions  []Contribution           `json:"contributions" cbor:"1,keyasint"`
	EcdsaSignature signature.EcdsaSignature `json:"ecdsaSignature" cbor:"2,keyasint"`
}

// Size describes one sub-ceremony's accumulator dimensions.
type Size struct {
	NumG1Powers int
	NumG2Powers int
}

// NewBatchContribution returns a fresh, unsigned batch with every
// accumulator at the generators.
func NewBatchContribution(sizes []Size) *BatchContribution {
	b := &BatchContribution{Contributions: make([]Contribution, len(sizes))}
	for i, s := range sizes {
		b.Contributions[i] = NewContribution(s.NumG1Powers, s.NumG2Powers)
	}
	return b
}

// Receipt returns, in item order, the pot pubkey of every sub-ceremony:
// the public, non-secret record of what was contributed.
func (b *BatchContribution) Receipt() []engine.G2 {
	receipt := make([]engine.G2, len(b.Contributions))
	for i := range b.Contributions {
		receipt[i] = b.Contributions[i].PotPubkey
	}
	return receipt
}

// AddEntropy derives one tau per sub-ceremony from the participant's
// entropy and applies tau[i] to contributions[i], fanned out over pl. All
// secret material is burned before returning, whatever the outcome.
//
// On success every item has been updated and, when signer is non-nil and
// the identity is attested, the batch signature has been recomputed over
// the new receipt. On failure an index-tagged InvalidCeremonyError is
// returned and the batch is left partially mutated; callers must discard
// it rather than salvage items, and must supply fresh entropy for any
// retry.
func (b *BatchContribution) AddEntropy(
	e engine.Engine,
	entropy *secret.Entropy,
	id signature.Identity,
	signer signature.Signer,
	pl *pool.Pool,
) error {
	// Whatever happens below, the old signature no longer covers the batch.
	b.EcdsaSignature = nil

	taus, err := deriveTaus(e, entropy, len(b.Contributions))
	if err != nil {
		return err
	}
	defer burnTaus(taus)

	results := pl.Parallelize(len(b.Contributions), func(i int) interface{} {
		if err := b.Contributions[i].AddTau(e, taus[i], id); err != nil {
			return &InvalidCeremonyError{Index: i, Err: err}
		}
		return nil
	})
	if err := firstError(results); err != nil {
		return err
	}

	if signer != nil && !signature.IsNone(id) {
		sig, err := signer.Sign(signature.ReceiptDigest(id, b.Receipt()))
		if err != nil {
			return fmt.Errorf("sign receipt: %w", err)
		}
		b.EcdsaSignature = sig
	}
	return nil
}

// Validate checks every sub-ceremony's internal consistency in parallel,
// with the same index-tagged error semantics as AddEntropy. It is called
// both by a participant self-checking before submission and by the
// sequencer on an incoming batch. On success the batch is unchanged.
func (b *BatchContribution) Validate(e engine.Engine, pl *pool.Pool) error {
	results := pl.Parallelize(len(b.Contributions), func(i int) interface{} {
		if err := b.Contributions[i].Validate(e); err != nil {
			return &InvalidCeremonyError{Index: i, Err: err}
		}
		return nil
	})
	return firstError(results)
}

// GetPotPubkeys previews what the given entropy would contribute: the pot
// pubkeys of params.NumPotPubkeys derived taus, each computed against a
// fresh two-element identity accumulator. No Contribution is constructed
// or mutated, and every tau is burned as soon as its pubkey exists.
func GetPotPubkeys(e engine.Engine, entropy *secret.Entropy, pl *pool.Pool) ([]engine.G2, error) {
	taus, err := deriveTaus(e, entropy, params.NumPotPubkeys)
	if err != nil {
		return nil, err
	}
	defer burnTaus(taus)

	results := pl.Parallelize(params.NumPotPubkeys, func(i int) interface{} {
		acc := []engine.G2{engine.G2Generator(), engine.G2Generator()}
		if err := e.AddTauG2(taus[i], acc); err != nil {
			return &InvalidCeremonyError{Index: i, Err: err}
		}
		return acc[1]
	})
	if err := firstError(results); err != nil {
		return nil, err
	}
	pubkeys := make([]engine.G2, params.NumPotPubkeys)
	for i, r := range results {
		pubkeys[i] = r.(engine.G2)
	}
	return pubkeys, nil
}

// deriveTaus draws n seeds from the entropy-seeded generator, in index
// order, and turns each into a tau. The same entropy and n always
// reproduce the same taus bit-for-bit; nothing beyond the returned taus
// retains secret state.
func deriveTaus(e engine.Engine, entropy *secret.Entropy, n int) ([]*secret.Tau, error) {
	if entropy == nil {
		return nil, errors.New("contribution: nil entropy")
	}
	gen, err := secret.NewGenerator(entropy)
	if err != nil {
		return nil, err
	}
	defer gen.Burn()

	taus := make([]*secret.Tau, n)
	for i := range taus {
		seed := gen.Draw()
		tau, err := e.GenerateTau(seed)
		seed.Burn()
		if err != nil {
			burnTaus(taus[:i])
			return nil, fmt.Errorf("derive tau %d: %w", i, err)
		}
		taus[i] = tau
	}
	return taus, nil
}

func burnTaus(taus []*secret.Tau) {
	for _, t := range taus {
		if t != nil {
			t.Burn()
		}
	}
}
