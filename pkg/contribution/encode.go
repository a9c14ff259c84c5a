package contribution

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// The sequencer exchanges batches as camelCase JSON; CBOR is the compact
// binary form. Both decoders run strict: a batch carrying fields this
// schema does not know is rejected, so unexpected ceremony state cannot be
// smuggled past verification.

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

// DecodeBatchContribution reads a batch from its JSON wire form,
// rejecting unknown fields.
func DecodeBatchContribution(r io.Reader) (*BatchContribution, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	b := &BatchContribution{}
	if err := dec.Decode(b); err != nil {
		return nil, fmt.Errorf("decode batch contribution: %w", err)
	}
	return b, nil
}

// EncodeBatchContribution writes the batch in its JSON wire form.
func EncodeBatchContribution(w io.Writer, b *BatchContribution) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode batch contribution: %w", err)
	}
	return nil
}

// EncodeBinary returns the canonical CBOR encoding of the batch.
func EncodeBinary(b *BatchContribution) ([]byte, error) {
	return cborEnc.Marshal(b)
}

// DecodeBinary parses a CBOR-encoded batch, rejecting unknown fields.
func DecodeBinary(data []byte) (*BatchContribution, error) {
	b := &BatchContribution{}
	if err := cborDec.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("decode batch contribution: %w", err)
	}
	return b, nil
}
