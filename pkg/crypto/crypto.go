// package crypto provides the lowest-level hash primitives used by docmerkle.
//
// Unlike the transparency-log tool this package is adapted from, this
// module never signs or verifies signatures: there is no key-management or
// authentication concern in a document canonicalization/diff engine, so the
// ed25519 signing/verification helpers and the PublicKey/Signature types are
// dropped and only the SHA-256 Hash type survives.
package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/mmsapre/docmerkle/pkg/hex"
)

const HashSize = sha256.Size

type Hash [HashSize]byte

// HashBytes returns the SHA-256 digest of b.
func HashBytes(b []byte) Hash {
	return sha256.Sum256(b)
}

// Hex returns the lower-case hex encoding of h.
func (h Hash) Hex() string {
	return hex.Serialize(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// HashFromHex parses a lower-case hex string into a Hash.
func HashFromHex(s string) (h Hash, err error) {
	b, err := hex.Deserialize(s)
	if err != nil {
		return h, err
	}
	if len(b) != HashSize {
		return h, fmt.Errorf("unexpected length of hex data, expected %d, got %d", HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}
