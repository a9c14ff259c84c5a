package engine

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/asanso/kzg-ceremony-sequencer/internal/params"
)

// G1 and G2 are wire-level BLS12-381 group elements in the standard
// compressed encoding. They are plain byte arrays so that batches can be
// moved, compared and hashed without touching a backend; engines decode
// them on use and re-encode results canonically, which is what makes the
// dual-backend comparison bit-for-bit meaningful.
type (
	G1 [params.BytesG1]byte
	G2 [params.BytesG2]byte
)

// MarshalJSON encodes the point as a 0x-prefixed hex string, the format
// used by the hosted ceremony transcript.
func (p G1) MarshalJSON() ([]byte, error) { return hexMarshal(p[:]) }

// UnmarshalJSON decodes a 0x-prefixed hex string of exactly 48 bytes.
func (p *G1) UnmarshalJSON(data []byte) error { return hexUnmarshal(data, p[:]) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (p G1) MarshalBinary() ([]byte, error) {
	out := make([]byte, params.BytesG1)
	copy(out, p[:])
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *G1) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesG1 {
		return errors.New("engine: G1 must be exactly 48 bytes")
	}
	copy(p[:], data)
	return nil
}

// WriteTo implements io.WriterTo.
func (p G1) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p[:])
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (p G1) Domain() string { return "bls12381.G1" }

func (p G1) String() string { return "0x" + hex.EncodeToString(p[:]) }

// MarshalJSON encodes the point as a 0x-prefixed hex string.
func (p G2) MarshalJSON() ([]byte, error) { return hexMarshal(p[:]) }

// UnmarshalJSON decodes a 0x-prefixed hex string of exactly 96 bytes.
func (p *G2) UnmarshalJSON(data []byte) error { return hexUnmarshal(data, p[:]) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (p G2) MarshalBinary() ([]byte, error) {
	out := make([]byte, params.BytesG2)
	copy(out, p[:])
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *G2) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesG2 {
		return errors.New("engine: G2 must be exactly 96 bytes")
	}
	copy(p[:], data)
	return nil
}

// WriteTo implements io.WriterTo.
func (p G2) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p[:])
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (p G2) Domain() string { return "bls12381.G2" }

func (p G2) String() string { return "0x" + hex.EncodeToString(p[:]) }

func hexMarshal(b []byte) ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(b))
}

func hexUnmarshal(data, dst []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("engine: point is not a string: %w", err)
	}
	if len(s) < 2 || s[:2] != "0x" {
		return errors.New("engine: point is missing 0x prefix")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return fmt.Errorf("engine: point is not hex: %w", err)
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("engine: point has %d bytes, want %d", len(raw), len(dst))
	}
	copy(dst, raw)
	return nil
}
