package inscription

import (
	"context"
	"fmt"
	"time"

	"proof-inscriber/pkg/logger"
	"proof-inscriber/src/config"
	"proof-inscriber/src/ledger"
	"proof-inscriber/src/proof"
)

const (
	DefaultMaxResumeAttempts = 3
	DefaultSubmitTimeout     = 90 * time.Second
)

// ProofInput is the public portion of an inscription request. The
// commitment hash is computed from the private record, never supplied.
type ProofInput struct {
	ParlayID      string
	AccountNumber string
	CreatedAtIso  string
}

// Result is a completed inscription. TxidPending is set when the ledger
// accepted the write but its response carried no recognizable id; the
// inscription happened and must not be retried.
type Result struct {
	Txid        string
	Hash        string
	TxidPending bool
}

// Orchestrator drives an inscription through its states:
// Idle → Submitting → {Completed, Broken, Failed}, with
// Broken → Submitting on resume, bounded by MaxResumeAttempts.
type Orchestrator struct {
	Ledger            ledger.Ledger
	Attempts          *AttemptStore
	MaxResumeAttempts int
	SubmitTimeout     time.Duration
}

func NewOrchestrator(l ledger.Ledger) *Orchestrator {
	return &Orchestrator{
		Ledger:            l,
		Attempts:          NewAttemptStore(),
		MaxResumeAttempts: DefaultMaxResumeAttempts,
		SubmitTimeout:     DefaultSubmitTimeout,
	}
}

// Inscribe commits the proof of record on-chain. Credentials are
// validated before any spend; a second call for a parlay that is still
// in flight fails with ErrAttemptInFlight.
func (o *Orchestrator) Inscribe(ctx context.Context, input ProofInput, record proof.PrivateParlayRecord) (Result, error) {
	if err := config.AssertRequired(); err != nil {
		return Result{}, err
	}

	attempt, err := o.Attempts.Begin(input.ParlayID)
	if err != nil {
		return Result{}, err
	}

	hash, err := proof.ComputeCommitmentHash(record)
	if err != nil {
		o.fail(input.ParlayID, err)
		return Result{}, fmt.Errorf("compute commitment hash: %w", err)
	}

	dataString, err := proof.BuildProofDataString(proof.ParlayProofRequest{
		ParlayID:      input.ParlayID,
		AccountNumber: input.AccountNumber,
		Hash:          hash,
		CreatedAtIso:  input.CreatedAtIso,
	})
	if err != nil {
		o.fail(input.ParlayID, err)
		return Result{}, fmt.Errorf("build proof data string: %w", err)
	}

	// cancelled before anything went on the wire: nothing was spent and
	// a fresh attempt is safe
	if ctx.Err() != nil {
		o.fail(input.ParlayID, ctx.Err())
		return Result{}, ctx.Err()
	}

	orchestratorLogger := logger.Default()
	orchestratorLogger.Infof("Submitting proof for parlay %s (attempt %s)", input.ParlayID, attempt.AttemptID)

	o.Attempts.Update(input.ParlayID, func(a *InscriptionAttempt) {
		a.State = StateSubmitting
	})

	result, submitErr := o.callWithTimeout(ctx, func(callCtx context.Context) (any, error) {
		return o.Ledger.Submit(callCtx, dataString)
	})

	resumes := 0
	for {
		if submitErr == nil {
			txid := ledger.ExtractTransactionID(result)
			o.Attempts.Update(input.ParlayID, func(a *InscriptionAttempt) {
				a.State = StateCompleted
				a.Txid = txid
				a.TxidPending = txid == ""
			})
			if txid == "" {
				orchestratorLogger.Warnf("Parlay %s inscribed but the ledger response carried no transaction id", input.ParlayID)
				return Result{Hash: hash, TxidPending: true}, nil
			}
			orchestratorLogger.Infof("Parlay %s inscribed with txid %s", input.ParlayID, txid)
			return Result{Txid: txid, Hash: hash}, nil
		}

		if ctx.Err() != nil {
			// cancelled while a submit was in flight: the outcome is
			// unknown until a response returns, so the attempt stays
			// Submitting and blocks impatient duplicates
			o.Attempts.Update(input.ParlayID, func(a *InscriptionAttempt) {
				a.State = StateSubmitting
				a.OutcomeUnknown = true
				a.LastError = submitErr.Error()
			})
			return Result{}, fmt.Errorf("inscription outcome unknown for parlay %s: %w", input.ParlayID, submitErr)
		}

		checkpoint := ledger.ParseResumeCheckpoint(submitErr)
		if checkpoint == nil {
			o.fail(input.ParlayID, submitErr)
			return Result{}, submitErr
		}

		if resumes >= o.maxResumeAttempts() {
			o.fail(input.ParlayID, submitErr)
			return Result{}, fmt.Errorf("resume budget of %d exhausted for parlay %s: %w", o.maxResumeAttempts(), input.ParlayID, submitErr)
		}

		o.Attempts.Update(input.ParlayID, func(a *InscriptionAttempt) {
			a.State = StateBroken
			a.ResumeCheckpoint = checkpoint
			a.LastError = submitErr.Error()
		})
		orchestratorLogger.Warnf("Parlay %s submission broke at transaction %d, resuming (%d/%d)", input.ParlayID, checkpoint.BrokeNum, resumes+1, o.maxResumeAttempts())

		// cancelled between calls: the checkpoint is recorded, nothing
		// new went on the wire, so the attempt stays Broken
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("cancelled before resume of parlay %s: %w", input.ParlayID, ctx.Err())
		}

		resumes++
		o.Attempts.Update(input.ParlayID, func(a *InscriptionAttempt) {
			a.State = StateSubmitting
		})
		result, submitErr = o.callWithTimeout(ctx, func(callCtx context.Context) (any, error) {
			return o.Ledger.Resume(callCtx, dataString, checkpoint.BrokeNum, checkpoint.BeforeHash)
		})
	}
}

func (o *Orchestrator) callWithTimeout(ctx context.Context, call func(context.Context) (any, error)) (any, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.submitTimeout())
	defer cancel()
	return call(callCtx)
}

func (o *Orchestrator) fail(parlayID string, err error) {
	o.Attempts.Update(parlayID, func(a *InscriptionAttempt) {
		a.State = StateFailed
		a.LastError = err.Error()
	})
}

func (o *Orchestrator) maxResumeAttempts() int {
	if o.MaxResumeAttempts <= 0 {
		return DefaultMaxResumeAttempts
	}
	return o.MaxResumeAttempts
}

func (o *Orchestrator) submitTimeout() time.Duration {
	if o.SubmitTimeout <= 0 {
		return DefaultSubmitTimeout
	}
	return o.SubmitTimeout
}
