package signature

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/asanso/kzg-ceremony-sequencer/internal/hash"
	"github.com/asanso/kzg-ceremony-sequencer/internal/params"
	"github.com/asanso/kzg-ceremony-sequencer/pkg/engine"
)

// EcdsaSignature is a compact, recoverable secp256k1 signature over the
// receipt digest of a batch. The empty value means "unsigned".
type EcdsaSignature []byte

// IsSet reports whether a signature is present.
func (s EcdsaSignature) IsSet() bool { return len(s) != 0 }

// MarshalJSON encodes the signature as a 0x-prefixed hex string; the empty
// signature encodes as "".
func (s EcdsaSignature) MarshalJSON() ([]byte, error) {
	if !s.IsSet() {
		return json.Marshal("")
	}
	return json.Marshal("0x" + hex.EncodeToString(s))
}

// UnmarshalJSON decodes "" or a 0x-prefixed 65-byte hex string.
func (s *EcdsaSignature) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("signature: not a string: %w", err)
	}
	if raw == "" {
		*s = nil
		return nil
	}
	if len(raw) < 2 || raw[:2] != "0x" {
		return errors.New("signature: missing 0x prefix")
	}
	b, err := hex.DecodeString(raw[2:])
	if err != nil {
		return fmt.Errorf("signature: not hex: %w", err)
	}
	if len(b) != params.EcdsaSignatureBytes {
		return fmt.Errorf("signature: got %d bytes, want %d", len(b), params.EcdsaSignatureBytes)
	}
	*s = b
	return nil
}

// Signer produces a signature over a receipt digest. It is the boundary to
// the participant's key material; the core never sees the private key.
type Signer interface {
	Sign(digest []byte) (EcdsaSignature, error)
}

// KeySigner signs with an in-memory secp256k1 private key.
type KeySigner struct {
	key *secp256k1.PrivateKey
}

// NewKeySigner wraps a private key.
func NewKeySigner(key *secp256k1.PrivateKey) *KeySigner {
	return &KeySigner{key: key}
}

// Sign implements Signer.
func (s *KeySigner) Sign(digest []byte) (EcdsaSignature, error) {
	if len(digest) != hash.DigestLengthBytes {
		return nil, errors.New("signature: digest has wrong length")
	}
	return ecdsa.SignCompact(s.key, digest, false), nil
}

// ReceiptDigest computes the digest a participant signs: the identity
// followed by every pot pubkey of the batch, in index order.
func ReceiptDigest(id Identity, potPubkeys []engine.G2) []byte {
	h := hash.New()
	idString := ""
	if id != nil {
		idString = id.String()
	}
	if err := h.WriteAny(idString); err != nil {
		panic(fmt.Sprintf("signature: receipt digest: %v", err))
	}
	for _, pk := range potPubkeys {
		if err := h.WriteAny(pk); err != nil {
			panic(fmt.Sprintf("signature: receipt digest: %v", err))
		}
	}
	return h.Sum()
}

// VerifyReceipt checks sig against the receipt digest for id. For an
// EthAddress identity the recovered key must map to the attested address;
// other identities only require a well-formed recoverable signature.
func VerifyReceipt(sig EcdsaSignature, id Identity, potPubkeys []engine.G2) error {
	if !sig.IsSet() {
		return errors.New("signature: batch is unsigned")
	}
	digest := ReceiptDigest(id, potPubkeys)
	pub, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		return fmt.Errorf("signature: recover: %w", err)
	}
	if eth, ok := id.(EthAddress); ok {
		if EthAddressFromPubKey(pub) != eth.Address {
			return errors.New("signature: signer does not match attested address")
		}
	}
	return nil
}

// EthAddressFromPubKey derives the Ethereum address of a secp256k1 public
// key: the last 20 bytes of the Keccak-256 of the uncompressed point.
func EthAddressFromPubKey(pub *secp256k1.PublicKey) [20]byte {
	k := sha3.NewLegacyKeccak256()
	k.Write(pub.SerializeUncompressed()[1:])
	var addr [20]byte
	copy(addr[:], k.Sum(nil)[12:])
	return addr
}
