package proof

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ComputeCommitmentHash serializes the record in its canonical form and
// returns the SHA-256 digest as lowercase hex. The canonical form is
// the JSON encoding of PrivateParlayRecord with fields in declared
// order and legs in their original order; the digest is a pure function
// of the record's bytes.
func ComputeCommitmentHash(record PrivateParlayRecord) (string, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyCommitment recomputes the commitment hash and compares it to
// expectedHash byte-exact.
func VerifyCommitment(record PrivateParlayRecord, expectedHash string) bool {
	got, err := ComputeCommitmentHash(record)
	if err != nil {
		return false
	}
	return got == expectedHash
}
