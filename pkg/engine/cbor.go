package engine

import "github.com/fxamacker/cbor/v2"

// CBOR encodes points as fixed-length byte strings rather than arrays of
// integers.

// MarshalCBOR implements cbor.Marshaler.
func (p G1) MarshalCBOR() ([]byte, error) { return cbor.Marshal(p[:]) }

// UnmarshalCBOR implements cbor.Unmarshaler.
func (p *G1) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	return p.UnmarshalBinary(raw)
}

// MarshalCBOR implements cbor.Marshaler.
func (p G2) MarshalCBOR() ([]byte, error) { return cbor.Marshal(p[:]) }

// UnmarshalCBOR implements cbor.Unmarshaler.
func (p *G2) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	return p.UnmarshalBinary(raw)
}
