package params

const (
	// EntropyBytes is the size of the master secret a participant supplies
	// for one contribution round.
	EntropyBytes = 32

	// SeedBytes is the size of one secret drawn from the entropy-seeded
	// generator. One seed is drawn per sub-ceremony.
	SeedBytes = 32

	// TauBytes is the size of a canonical BLS12-381 scalar, big-endian,
	// reduced below the group order.
	TauBytes = 32

	// BytesG1 and BytesG2 are the compressed point sizes on BLS12-381.
	BytesG1 = 48
	BytesG2 = 96

	// NumPotPubkeys is the number of pot pubkeys computed by the standalone
	// preview, matching the number of sub-ceremonies in the hosted ceremony.
	NumPotPubkeys = 4

	// EcdsaSignatureBytes is the length of a compact recoverable secp256k1
	// signature binding a batch to a participant.
	EcdsaSignatureBytes = 65
)
