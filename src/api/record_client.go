package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"proof-inscriber/src/proof"
)

// RecordClient fetches private parlay records from the record store.
// The store is the only holder of full pick data; this worker consumes
// records solely to hash them.
type RecordClient struct {
	BaseURL    string
	AuthToken  string
	HttpClient *http.Client
}

func NewRecordClient(baseURL, authToken string) *RecordClient {
	return &RecordClient{
		BaseURL:    baseURL,
		AuthToken:  authToken,
		HttpClient: &http.Client{},
	}
}

func (rc *RecordClient) FetchPrivateRecord(ctx context.Context, parlayID string) (proof.PrivateParlayRecord, error) {
	var record proof.PrivateParlayRecord

	fullUrl := fmt.Sprintf("%s/internal/parlays/%s/record", rc.BaseURL, parlayID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
	if err != nil {
		return record, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", rc.AuthToken)

	resp, err := rc.HttpClient.Do(req)
	if err != nil {
		return record, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return record, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return record, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if err := json.Unmarshal(responseBody, &record); err != nil {
		return record, err
	}

	return record, nil
}
