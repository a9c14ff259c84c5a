// Package signature binds a batch contribution to a participant: the
// attested identity variants consumed during tau application, and the ECDSA
// signature over the batch receipt.
package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Identity is the (possibly absent) attested identity of a contributing
// participant. The set of variants is closed: None, EthAddress and GitHub.
// Its unique string form is what gets bound into BLS identity signatures
// and receipt digests.
type Identity interface {
	fmt.Stringer
	isIdentity()
}

// None is the "no attestation" identity.
type None struct{}

func (None) String() string { return "" }
func (None) isIdentity()    {}

// EthAddress attests a participant by an Ethereum address.
type EthAddress struct {
	Address [20]byte
}

func (e EthAddress) String() string {
	return "eth|0x" + hex.EncodeToString(e.Address[:])
}
func (EthAddress) isIdentity() {}

// GitHub attests a participant by their GitHub account.
type GitHub struct {
	ID     uint64
	Handle string
}

func (g GitHub) String() string {
	return fmt.Sprintf("git|%d|%s", g.ID, g.Handle)
}
func (GitHub) isIdentity() {}

// ParseIdentity parses the unique string form back into a variant. The
// empty string is None.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return None{}, nil
	}
	switch {
	case strings.HasPrefix(s, "eth|0x"):
		raw, err := hex.DecodeString(strings.TrimPrefix(s, "eth|0x"))
		if err != nil {
			return nil, fmt.Errorf("signature: malformed eth identity: %w", err)
		}
		if len(raw) != 20 {
			return nil, errors.New("signature: eth identity must be 20 bytes")
		}
		var id EthAddress
		copy(id.Address[:], raw)
		return id, nil
	case strings.HasPrefix(s, "git|"):
		parts := strings.SplitN(s, "|", 3)
		if len(parts) != 3 {
			return nil, errors.New("signature: malformed git identity")
		}
		n, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("signature: malformed git identity: %w", err)
		}
		return GitHub{ID: n, Handle: parts[2]}, nil
	default:
		return nil, fmt.Errorf("signature: unknown identity scheme in %q", s)
	}
}

// IsNone reports whether id carries no attestation.
func IsNone(id Identity) bool {
	if id == nil {
		return true
	}
	_, ok := id.(None)
	return ok
}
