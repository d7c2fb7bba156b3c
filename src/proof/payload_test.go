package proof

import (
	"encoding/json"
	"testing"
)

func TestBuildProofPayloadFieldPassThrough(t *testing.T) {
	requests := []ParlayProofRequest{
		{ParlayID: "parlay-1", AccountNumber: "acct-1", Hash: "abc123", CreatedAtIso: "2026-08-30T12:00:00Z"},
		{ParlayID: "", AccountNumber: "", Hash: "", CreatedAtIso: ""},
		{ParlayID: "派对-8", AccountNumber: "compte-ü", Hash: "ハッシュ", CreatedAtIso: "früh"},
		{
			ParlayID:      "p",
			AccountNumber: "a",
			Hash:          "71CC046EFCEA5C4BB081F319E877B855510E4E6FD509905A99A1B5A5E44CBA28",
			CreatedAtIso:  "2026-01-01T00:00:00Z",
		},
	}

	for i, request := range requests {
		payload := BuildProofPayload(request)

		if payload.Type != "PARLAY_GORILLA_CUSTOM" {
			t.Errorf("case %d: type = %q", i, payload.Type)
		}
		if payload.Schema != "pg_parlay_proof_v2" {
			t.Errorf("case %d: schema = %q", i, payload.Schema)
		}
		if payload.ParlayID != request.ParlayID {
			t.Errorf("case %d: parlay_id = %q, want %q", i, payload.ParlayID, request.ParlayID)
		}
		if payload.AccountNumber != request.AccountNumber {
			t.Errorf("case %d: account_number = %q, want %q", i, payload.AccountNumber, request.AccountNumber)
		}
		if payload.Hash != request.Hash {
			t.Errorf("case %d: hash = %q, want %q", i, payload.Hash, request.Hash)
		}
		if payload.CreatedAt != request.CreatedAtIso {
			t.Errorf("case %d: created_at = %q, want %q", i, payload.CreatedAt, request.CreatedAtIso)
		}
	}
}

func TestBuildProofPayloadReturnsIndependentValues(t *testing.T) {
	request := ParlayProofRequest{ParlayID: "p1", AccountNumber: "a1", Hash: "h1", CreatedAtIso: "c1"}

	first := BuildProofPayload(request)
	second := BuildProofPayload(request)

	if first != second {
		t.Fatal("expected two builds of the same request to be equal")
	}

	first.Hash = "tampered"
	if second.Hash != "h1" {
		t.Error("expected builds to be independent values")
	}
}

func TestBuildProofDataStringRoundTrip(t *testing.T) {
	request := ParlayProofRequest{
		ParlayID:      "parlay-9",
		AccountNumber: "acct-42",
		Hash:          "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		CreatedAtIso:  "2026-08-30T09:30:00Z",
	}

	dataString, err := BuildProofDataString(request)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var parsed PublicProofPayload
	if err := json.Unmarshal([]byte(dataString), &parsed); err != nil {
		t.Fatalf("data string is not valid JSON: %v", err)
	}
	if parsed != BuildProofPayload(request) {
		t.Fatalf("parsed payload differs from built payload: %+v", parsed)
	}

	// stable under repeated stringify/parse cycles
	cycled, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(cycled) != dataString {
		t.Fatalf("round-trip not stable:\n%s\n%s", dataString, cycled)
	}
}

func TestBuildProofDataStringKeyOrder(t *testing.T) {
	dataString, err := BuildProofDataString(ParlayProofRequest{
		ParlayID:      "p1",
		AccountNumber: "a1",
		Hash:          "h1",
		CreatedAtIso:  "c1",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := `{"type":"PARLAY_GORILLA_CUSTOM","schema":"pg_parlay_proof_v2","account_number":"a1","parlay_id":"p1","hash":"h1","created_at":"c1"}`
	if dataString != want {
		t.Fatalf("wire format drifted:\ngot  %s\nwant %s", dataString, want)
	}
}
