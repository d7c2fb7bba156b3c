package inscription

import (
	"errors"
	"fmt"
	"sync"

	"proof-inscriber/src/ledger"

	"github.com/google/uuid"
)

type AttemptState string

const (
	StateIdle       AttemptState = "IDLE"
	StateSubmitting AttemptState = "SUBMITTING"
	StateBroken     AttemptState = "BROKEN"
	StateCompleted  AttemptState = "COMPLETED"
	StateFailed     AttemptState = "FAILED"
)

// ErrAttemptInFlight rejects a second Inscribe for a parlay that is
// already Submitting or Broken. Every submission is a non-refundable
// spend; concurrent attempts for one parlay risk paying twice.
var ErrAttemptInFlight = errors.New("inscription attempt already in flight")

// InscriptionAttempt tracks one inscription of one parlay.
// OutcomeUnknown marks an attempt whose submit call was cancelled while
// in flight: the chain may or may not have accepted it, so the attempt
// must not be restarted blindly.
type InscriptionAttempt struct {
	AttemptID        string
	ParlayID         string
	State            AttemptState
	ResumeCheckpoint *ledger.ResumeCheckpoint
	Txid             string
	TxidPending      bool
	OutcomeUnknown   bool
	LastError        string
}

// AttemptStore keeps the latest attempt per parlay and enforces the
// at-most-one-in-flight rule. In-memory only; attempt history
// persistence belongs to the surrounding product.
type AttemptStore struct {
	mu       sync.Mutex
	attempts map[string]*InscriptionAttempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]*InscriptionAttempt),
	}
}

// Begin registers a fresh Idle attempt for parlayID. It fails with
// ErrAttemptInFlight while a previous attempt is still non-terminal.
func (s *AttemptStore) Begin(parlayID string) (*InscriptionAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.attempts[parlayID]; ok {
		if existing.State != StateCompleted && existing.State != StateFailed {
			return nil, fmt.Errorf("%w: parlay %s is %s", ErrAttemptInFlight, parlayID, existing.State)
		}
	}

	attempt := &InscriptionAttempt{
		AttemptID: uuid.NewString(),
		ParlayID:  parlayID,
		State:     StateIdle,
	}
	s.attempts[parlayID] = attempt
	return attempt, nil
}

// Get returns a copy of the latest attempt for parlayID.
func (s *AttemptStore) Get(parlayID string) (InscriptionAttempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[parlayID]
	if !ok {
		return InscriptionAttempt{}, false
	}
	return *attempt, true
}

// Update applies mutate to the attempt under the store lock so every
// state transition is serialized.
func (s *AttemptStore) Update(parlayID string, mutate func(*InscriptionAttempt)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if attempt, ok := s.attempts[parlayID]; ok {
		mutate(attempt)
	}
}

// Reset drops the tracked attempt for parlayID. Operator escape hatch
// for an attempt stuck with an unknown outcome after investigating the
// chain by hand.
func (s *AttemptStore) Reset(parlayID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, parlayID)
}
