package transcript_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanso/kzg-ceremony-sequencer/internal/test"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/contribution"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/engine"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/signature"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/transcript"
)

var gnark = engine.Gnark{}

func contribute(t *testing.T, bt *transcript.BatchTranscript, tag byte, id signature.Identity) *contribution.BatchContribution {
	t.Helper()
	b := bt.Contribution()
	entropy := test.Entropy(tag)
	defer entropy.Burn()
	require.NoError(t, b.AddEntropy(gnark, entropy, id, nil, nil))
	return b
}

func TestVerifyAddAcceptsHonestContributions(t *testing.T) {
	bt := transcript.NewBatchTranscript(test.Sizes())

	first := contribute(t, bt, 20, signature.None{})
	require.NoError(t, bt.VerifyAdd(first, signature.None{}, gnark))

	_, id := test.Participant()
	second := contribute(t, bt, 21, id)
	require.NoError(t, bt.VerifyAdd(second, id, gnark))

	for i := range bt.Transcripts {
		w := bt.Transcripts[i].Witness
		assert.Len(t, w.RunningProducts, 3, "item %d", i)
		assert.Len(t, w.PotPubkeys, 3, "item %d", i)
		assert.Equal(t, second.Contributions[i].PotPubkey, w.PotPubkeys[2], "item %d", i)
		assert.Equal(t, second.Contributions[i].PowersOfTau, bt.Transcripts[i].PowersOfTau, "item %d", i)
	}
	assert.Equal(t, []string{"", id.String()}, bt.ParticipantIDs)
}

func TestVerifyAddRejectsReplayedState(t *testing.T) {
	bt := transcript.NewBatchTranscript(test.Sizes())

	// An untouched contribution has the trivial pot pubkey.
	replay := bt.Contribution()
	err := bt.VerifyAdd(replay, signature.None{}, gnark)
	require.Error(t, err)
	var icErr *contribution.InvalidCeremonyError
	assert.ErrorAs(t, err, &icErr)
}

func TestVerifyAddRejectsTamperedPowers(t *testing.T) {
	bt := transcript.NewBatchTranscript(test.Sizes())
	b := contribute(t, bt, 22, signature.None{})

	// Swap the updated powers of item 1 back to the previous state while
	// keeping its pot pubkey: the pairing link must fail.
	b.Contributions[1].PowersOfTau = contribution.NewPowersOfTau(
		b.Contributions[1].NumG1Powers, b.Contributions[1].NumG2Powers)

	err := bt.VerifyAdd(b, signature.None{}, gnark)
	require.Error(t, err)
	var icErr *contribution.InvalidCeremonyError
	require.ErrorAs(t, err, &icErr)
	assert.Equal(t, 1, icErr.Index)
}

func TestVerifyAddRejectsWrongBatchLength(t *testing.T) {
	bt := transcript.NewBatchTranscript(test.Sizes())
	b := bt.Contribution()
	b.Contributions = b.Contributions[:len(b.Contributions)-1]
	assert.Error(t, bt.VerifyAdd(b, signature.None{}, gnark))
}

func TestVerifyAddLeavesTranscriptUntouchedOnFailure(t *testing.T) {
	bt := transcript.NewBatchTranscript(test.Sizes())
	good := contribute(t, bt, 23, signature.None{})
	require.NoError(t, bt.VerifyAdd(good, signature.None{}, gnark))

	before, err := transcript.EncodeBinary(bt)
	require.NoError(t, err)

	bad := contribute(t, bt, 24, signature.None{})
	bad.Contributions[0].PotPubkey = engine.G2Generator()
	require.Error(t, bt.VerifyAdd(bad, signature.None{}, gnark))

	after, err := transcript.EncodeBinary(bt)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestVerifyAddChecksEcdsaSignature(t *testing.T) {
	bt := transcript.NewBatchTranscript(test.Sizes())
	signer, id := test.Participant()

	b := bt.Contribution()
	entropy := test.Entropy(25)
	defer entropy.Burn()
	require.NoError(t, b.AddEntropy(gnark, entropy, id, signer, nil))
	require.True(t, b.EcdsaSignature.IsSet())
	require.NoError(t, bt.VerifyAdd(b, id, gnark))

	// The same signed batch under a different claimed identity must fail.
	bt2 := transcript.NewBatchTranscript(test.Sizes())
	assert.Error(t, bt2.VerifyAdd(b, signature.EthAddress{}, gnark))
}

func TestContributionIsACopy(t *testing.T) {
	bt := transcript.NewBatchTranscript(test.Sizes())
	b := bt.Contribution()
	for i := range b.Contributions[0].PowersOfTau.G1Powers[1] {
		b.Contributions[0].PowersOfTau.G1Powers[1][i] = 0xFF
	}
	assert.Equal(t, engine.G1Generator(), bt.Transcripts[0].PowersOfTau.G1Powers[1])
}

func TestTranscriptJSONRoundTrip(t *testing.T) {
	bt := transcript.NewBatchTranscript(test.Sizes())
	b := contribute(t, bt, 26, signature.None{})
	require.NoError(t, bt.VerifyAdd(b, signature.None{}, gnark))

	var buf bytes.Buffer
	require.NoError(t, transcript.EncodeBatchTranscript(&buf, bt))
	back, err := transcript.DecodeBatchTranscript(&buf)
	require.NoError(t, err)
	assert.Equal(t, bt, back)
}
