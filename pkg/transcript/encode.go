package transcript

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	if err != nil {
		panic(err)
	}
	cborDec, err = cbor.DecOptions{ExtraReturnErrors: cbor.ExtraDecErrorUnknownField}.DecMode()
	if err != nil {
		panic(err)
	}
}

// DecodeBatchTranscript reads a transcript from its JSON wire form,
// rejecting unknown fields.
func DecodeBatchTranscript(r io.Reader) (*BatchTranscript, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	t := &BatchTranscript{}
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("decode batch transcript: %w", err)
	}
	return t, nil
}

// EncodeBatchTranscript writes the transcript in its JSON wire form.
func EncodeBatchTranscript(w io.Writer, t *BatchTranscript) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode batch transcript: %w", err)
	}
	return nil
}

// EncodeBinary returns the canonical CBOR encoding of the transcript.
func EncodeBinary(t *BatchTranscript) ([]byte, error) {
	return cborEnc.Marshal(t)
}

// DecodeBinary parses a CBOR-encoded transcript, rejecting unknown fields.
func DecodeBinary(data []byte) (*BatchTranscript, error) {
	t := &BatchTranscript{}
	if err := cborDec.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode batch transcript: %w", err)
	}
	return t, nil
}
