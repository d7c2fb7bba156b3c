package queues

import (
	"proof-inscriber/pkg/reasoncodes"
	"proof-inscriber/pkg/utilities"
)

// ProofRequestedDto arrives on parlay.proof.requested. ExpectedHash is
// optional; when present the worker refuses to inscribe a record whose
// recomputed commitment no longer matches it.
type ProofRequestedDto struct {
	EventId       string `json:"event_id"`
	ParlayId      string `json:"parlay_id"`
	AccountNumber string `json:"account_number"`
	CreatedAt     string `json:"created_at"`
	ExpectedHash  string `json:"expected_hash,omitempty"`
}

type ProofCompletedDto struct {
	EventId     string `json:"event_id"`
	ParlayId    string `json:"parlay_id"`
	Txid        string `json:"txid"`
	Hash        string `json:"hash"`
	TxidPending bool   `json:"txid_pending"`
}

func (pc ProofCompletedDto) Serialize() ([]byte, error) {
	return utilities.Serialize[ProofCompletedDto](pc)
}

type ProofFailedDto struct {
	EventId     string                 `json:"event_id"`
	ParlayId    string                 `json:"parlay_id"`
	RequestBody []byte                 `json:"request_body"`
	Error       string                 `json:"error"`
	ReasonCode  reasoncodes.ReasonCode `json:"reason_code"`
}

func (pf ProofFailedDto) Serialize() ([]byte, error) {
	return utilities.Serialize[ProofFailedDto](pf)
}

type ProofFailureFactory struct {
	EventId     string
	ParlayId    string
	RequestBody []byte
}

func NewProofFailureFactory(eventId, parlayId string, requestBody []byte) ProofFailureFactory {
	return ProofFailureFactory{
		EventId:     eventId,
		ParlayId:    parlayId,
		RequestBody: requestBody,
	}
}

func (pff ProofFailureFactory) CreateErrorDto(err error, reasonCode reasoncodes.ReasonCode) utilities.Serializable {
	return ProofFailedDto{
		EventId:     pff.EventId,
		ParlayId:    pff.ParlayId,
		RequestBody: pff.RequestBody,
		Error:       err.Error(),
		ReasonCode:  reasonCode,
	}
}
