package proof

import "encoding/json"

const (
	PayloadType   = "PARLAY_GORILLA_CUSTOM"
	PayloadSchema = "pg_parlay_proof_v2"
)

// PublicProofPayload is the exact on-chain content: a flat object of
// six string fields in this key order. It never contains picks or PII.
type PublicProofPayload struct {
	Type          string `json:"type"`
	Schema        string `json:"schema"`
	AccountNumber string `json:"account_number"`
	ParlayID      string `json:"parlay_id"`
	Hash          string `json:"hash"`
	CreatedAt     string `json:"created_at"`
}

// BuildProofPayload copies the request fields into a fresh payload.
// The four request fields pass through verbatim, with no validation or
// normalization; only type and schema are fixed.
func BuildProofPayload(request ParlayProofRequest) PublicProofPayload {
	return PublicProofPayload{
		Type:          PayloadType,
		Schema:        PayloadSchema,
		AccountNumber: request.AccountNumber,
		ParlayID:      request.ParlayID,
		Hash:          request.Hash,
		CreatedAt:     request.CreatedAtIso,
	}
}

// BuildProofDataString returns the canonical JSON serialization of
// BuildProofPayload(request). Unmarshalling the result yields a payload
// deep-equal to BuildProofPayload(request), stable under repeated
// round-trips.
func BuildProofDataString(request ParlayProofRequest) (string, error) {
	b, err := json.Marshal(BuildProofPayload(request))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
