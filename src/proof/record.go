package proof

// PrivateParlayRecord is the full off-chain record of a parlay,
// picks included. It is never transmitted on-chain; only its
// commitment hash is.
//
// Field order is the canonical serialization order for the commitment
// hash. Do not reorder fields or issued hashes become unverifiable.
type PrivateParlayRecord struct {
	SchemaVersion string      `json:"schema_version"`
	AppVersion    string      `json:"app_version"`
	ParlayID      string      `json:"parlay_id"`
	AccountNumber string      `json:"account_number"`
	CreatedAtUTC  string      `json:"created_at_utc"`
	ParlayType    string      `json:"parlay_type"`
	Legs          []ParlayLeg `json:"legs"`
}

// ParlayLeg is a single pick. All fields are carried as strings so the
// canonical form never depends on number formatting.
type ParlayLeg struct {
	LegID        string `json:"leg_id"`
	Market       string `json:"market"`
	Selection    string `json:"selection"`
	OddsAmerican string `json:"odds_american"`
}

// ParlayProofRequest carries the public fields of an inscription
// request. All values are opaque strings; the payload builder performs
// no validation on them.
type ParlayProofRequest struct {
	ParlayID      string
	AccountNumber string
	Hash          string
	CreatedAtIso  string
}
