// Package hash provides the domain-separated digests the ceremony core
// signs: receipt digests binding an identity to the pot pubkeys of a batch.
package hash

import (
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the length of a receipt digest, sized for the
// secp256k1 signing collaborator.
const DigestLengthBytes = 32

// Hash wraps blake3 with domain separation for the ceremony's data types.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash keyed to the contribution receipt domain.
func New() *Hash {
	h := blake3.New()
	_, _ = h.Write([]byte("kzg-ceremony/receipt"))
	return &Hash{h: h}
}

// Sum returns a DigestLengthBytes digest of the current state.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.h.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny writes the given values to the hash state, each wrapped in its
// own domain.
//
// Currently supported types:
//
//   - []byte
//   - string
//   - WriterToWithDomain
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			if err := hash.writeWithDomain(BytesWithDomain{"[]byte", t}); err != nil {
				return fmt.Errorf("hash.Hash: write []byte: %w", err)
			}
		case string:
			if err := hash.writeWithDomain(BytesWithDomain{"string", []byte(t)}); err != nil {
				return fmt.Errorf("hash.Hash: write string: %w", err)
			}
		case WriterToWithDomain:
			if err := hash.writeWithDomain(t); err != nil {
				return fmt.Errorf("hash.Hash: write %q: %w", t.Domain(), err)
			}
		default:
			panic("hash.Hash: unsupported type")
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}

// writeWithDomain writes `(<domain><data>)` so that equal byte strings in
// different roles cannot collide.
func (hash *Hash) writeWithDomain(object WriterToWithDomain) error {
	if _, err := hash.h.Write([]byte("(" + object.Domain())); err != nil {
		return err
	}
	if _, err := object.WriteTo(hash.h); err != nil {
		return err
	}
	_, err := hash.h.Write([]byte(")"))
	return err
}

// WriterToWithDomain represents a type writing itself, and knowing its domain.
type WriterToWithDomain interface {
	io.WriterTo

	// Domain returns a context string, unique per implementor.
	Domain() string
}

// BytesWithDomain annotates a chunk of bytes with a domain.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

// WriteTo implements io.WriterTo.
func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (b BytesWithDomain) Domain() string { return b.TheDomain }
