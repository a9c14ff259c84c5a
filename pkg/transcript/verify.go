package transcript

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/asanso/kzg-ceremony-sequencer/pkg/contribution"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/engine"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/signature"
)

// VerifyAdd checks an incoming batch contribution against the current
// transcript and, if every check holds, absorbs it: the accumulators move
// to the participant's new powers and the witness gains one entry per
// sub-ceremony.
//
// Sub-ceremonies are verified concurrently; as with the participant-side
// batch operations, one index-tagged error surfaces and it is not
// guaranteed to be the lowest failing index. The transcript is only
// mutated after the whole batch verified, so a failed VerifyAdd leaves it
// untouched.
func (t *BatchTranscript) VerifyAdd(
	b *contribution.BatchContribution,
	id signature.Identity,
	e engine.Engine,
) error {
	if len(b.Contributions) != len(t.Transcripts) {
		return fmt.Errorf("transcript: batch has %d contributions, ceremony has %d",
			len(b.Contributions), len(t.Transcripts))
	}
	if b.EcdsaSignature.IsSet() {
		if err := signature.VerifyReceipt(b.EcdsaSignature, id, b.Receipt()); err != nil {
			return err
		}
	}

	var g errgroup.Group
	for i := range b.Contributions {
		i := i
		g.Go(func() error {
			if err := t.verifyOne(i, &b.Contributions[i], e); err != nil {
				return &contribution.InvalidCeremonyError{Index: i, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range b.Contributions {
		c := &b.Contributions[i]
		tr := &t.Transcripts[i]
		tr.PowersOfTau = contribution.PowersOfTau{
			G1Powers: append([]engine.G1(nil), c.PowersOfTau.G1Powers...),
			G2Powers: append([]engine.G2(nil), c.PowersOfTau.G2Powers...),
		}
		tr.Witness.RunningProducts = append(tr.Witness.RunningProducts, c.PowersOfTau.G1Powers[1])
		tr.Witness.PotPubkeys = append(tr.Witness.PotPubkeys, c.PotPubkey)
		tr.Witness.BLSSignatures = append(tr.Witness.BLSSignatures, c.BLSSignature)
	}
	idString := ""
	if id != nil {
		idString = id.String()
	}
	t.ParticipantIDs = append(t.ParticipantIDs, idString)
	t.ParticipantEcdsaSignatures = append(t.ParticipantEcdsaSignatures, b.EcdsaSignature)
	return nil
}

// verifyOne checks sub-ceremony i of the batch against its transcript:
// shape, internal consistency, a non-trivial update, and the pairing link
// e(newFirstPower, g2) == e(oldFirstPower, potPubkey) proving the new
// state is the old state advanced by exactly the committed scalar.
func (t *BatchTranscript) verifyOne(i int, c *contribution.Contribution, e engine.Engine) error {
	tr := &t.Transcripts[i]
	if c.NumG1Powers != tr.NumG1Powers || c.NumG2Powers != tr.NumG2Powers {
		return fmt.Errorf("transcript: contribution sized %d/%d, ceremony requires %d/%d",
			c.NumG1Powers, c.NumG2Powers, tr.NumG1Powers, tr.NumG2Powers)
	}
	if err := c.Validate(e); err != nil {
		return err
	}
	// A pot pubkey equal to the generator means tau = 1: the participant
	// contributed nothing and the previous state would be replayed.
	if c.PotPubkey == engine.G2Generator() {
		return errors.New("transcript: trivial pot pubkey")
	}
	oldFirst := tr.PowersOfTau.G1Powers[1]
	newFirst := c.PowersOfTau.G1Powers[1]
	return e.VerifyPubKey(newFirst, oldFirst, c.PotPubkey)
}
