package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"proof-inscriber/src/proof"
)

func testStoreRecord() proof.PrivateParlayRecord {
	return proof.PrivateParlayRecord{
		SchemaVersion: "1",
		AppVersion:    "2.3.0",
		ParlayID:      "parlay-777",
		AccountNumber: "acct-42",
		CreatedAtUTC:  "2026-08-30T10:00:00Z",
		ParlayType:    "standard",
		Legs: []proof.ParlayLeg{
			{LegID: "leg-1", Market: "moneyline", Selection: "home", OddsAmerican: "-110"},
		},
	}
}

func TestFetchPrivateRecordReturnsRecord(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(testStoreRecord())
	}))
	defer server.Close()

	client := NewRecordClient(server.URL, "Bearer store-token")
	record, err := client.FetchPrivateRecord(context.Background(), "parlay-777")
	if err != nil {
		t.Fatalf("FetchPrivateRecord returned error: %v", err)
	}

	if gotPath != "/internal/parlays/parlay-777/record" {
		t.Errorf("requested path %q", gotPath)
	}
	if gotAuth != "Bearer store-token" {
		t.Errorf("Authorization header %q", gotAuth)
	}
	if record.ParlayID != "parlay-777" || len(record.Legs) != 1 {
		t.Errorf("unexpected record: %+v", record)
	}
}

func TestFetchPrivateRecordRejectsNonSuccessStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
	}{
		{"multiple choices", http.StatusMultipleChoices},
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client := NewRecordClient(server.URL, "token")
			_, err := client.FetchPrivateRecord(context.Background(), "parlay-777")
			if err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if !strings.Contains(err.Error(), "HTTP error") {
				t.Errorf("error %q does not report the HTTP status", err)
			}
		})
	}
}

func TestFetchPrivateRecordRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewRecordClient(server.URL, "token")
	if _, err := client.FetchPrivateRecord(context.Background(), "parlay-777"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
