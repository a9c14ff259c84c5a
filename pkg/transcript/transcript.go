// Package transcript holds the sequencer-side ceremony record: per
// sub-ceremony accumulators plus the witness trail proving every accepted
// contribution follows from the previous state. It is what incoming batch
// contributions are verified against.
package transcript

import (
	"github.com/asanso/kzg-ceremony-sequencer/pkg/contribution"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/engine"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/signature"
)

// Witness is the audit trail of one sub-ceremony: after the k-th accepted
// contribution, RunningProducts[k] is [tau_1·…·tau_k]g1 and PotPubkeys[k]
// is [tau_k]g2. Anyone can replay the pairing checks without any secret.
type Witness struct {
	RunningProducts []engine.G1 `json:"runningProducts" cbor:"1,keyasint"`
	PotPubkeys      []engine.G2 `json:"potPubkeys" cbor:"2,keyasint"`
	BLSSignatures   []engine.G1 `json:"blsSignatures" cbor:"3,keyasint"`
}

// Transcript is the full history of one sub-ceremony.
type Transcript struct {
	NumG1Powers int                      `json:"numG1Powers" cbor:"1,keyasint"`
	NumG2Powers int                      `json:"numG2Powers" cbor:"2,keyasint"`
	PowersOfTau contribution.PowersOfTau `json:"powersOfTau" cbor:"3,keyasint"`
	Witness     Witness                  `json:"witness" cbor:"4,keyasint"`
}

// BatchTranscript is the ceremony-wide record: one transcript per
// sub-ceremony plus the ordered list of participants and their batch
// signatures.
type BatchTranscript struct {
	Transcripts                []Transcript               `json:"transcripts" cbor:"1,keyasint"`
	ParticipantIDs             []string                   `json:"participantIds" cbor:"2,keyasint"`
	ParticipantEcdsaSignatures []signature.EcdsaSignature `json:"participantEcdsaSignatures" cbor:"3,keyasint"`
}

// NewBatchTranscript starts a ceremony of the given sizes, with every
// accumulator at the generators and a trivial witness.
func NewBatchTranscript(sizes []contribution.Size) *BatchTranscript {
	t := &BatchTranscript{
		Transcripts:                make([]Transcript, len(sizes)),
		ParticipantIDs:             []string{},
		ParticipantEcdsaSignatures: []signature.EcdsaSignature{},
	}
	for i, s := range sizes {
		t.Transcripts[i] = Transcript{
			NumG1Powers: s.NumG1Powers,
			NumG2Powers: s.NumG2Powers,
			PowersOfTau: contribution.NewPowersOfTau(s.NumG1Powers, s.NumG2Powers),
			Witness: Witness{
				RunningProducts: []engine.G1{engine.G1Generator()},
				PotPubkeys:      []engine.G2{engine.G2Generator()},
				BLSSignatures:   []engine.G1{{}},
			},
		}
	}
	return t
}

// Contribution returns the batch handed to the next participant: a copy of
// every current accumulator, unsigned, with a placeholder pot pubkey.
func (t *BatchTranscript) Contribution() *contribution.BatchContribution {
	b := &contribution.BatchContribution{
		Contributions: make([]contribution.Contribution, len(t.Transcripts)),
	}
	for i := range t.Transcripts {
		tr := &t.Transcripts[i]
		b.Contributions[i] = contribution.Contribution{
			NumG1Powers: tr.NumG1Powers,
			NumG2Powers: tr.NumG2Powers,
			PowersOfTau: contribution.PowersOfTau{
				G1Powers: append([]engine.G1(nil), tr.PowersOfTau.G1Powers...),
				G2Powers: append([]engine.G2(nil), tr.PowersOfTau.G2Powers...),
			},
			PotPubkey: engine.G2Generator(),
		}
	}
	return b
}
