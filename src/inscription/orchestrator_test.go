package inscription

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"proof-inscriber/src/config"
	"proof-inscriber/src/ledger"
	"proof-inscriber/src/proof"
)

type resumeCall struct {
	dataString string
	brokeNum   int
	beforeHash string
}

type scriptedLedger struct {
	mu          sync.Mutex
	submit      func(ctx context.Context, dataString string) (any, error)
	resume      func(ctx context.Context, dataString string, brokeNum int, beforeHash string) (any, error)
	submitCalls int
	submitData  string
	resumeCalls []resumeCall
}

func (sl *scriptedLedger) Submit(ctx context.Context, dataString string) (any, error) {
	sl.mu.Lock()
	sl.submitCalls++
	sl.submitData = dataString
	sl.mu.Unlock()
	return sl.submit(ctx, dataString)
}

func (sl *scriptedLedger) Resume(ctx context.Context, dataString string, brokeNum int, beforeHash string) (any, error) {
	sl.mu.Lock()
	sl.resumeCalls = append(sl.resumeCalls, resumeCall{dataString, brokeNum, beforeHash})
	sl.mu.Unlock()
	if sl.resume == nil {
		return nil, errors.New("resume not scripted")
	}
	return sl.resume(ctx, dataString, brokeNum, beforeHash)
}

func setValidCredentials(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvSignerPrivateKey, "4Z7cXSyeFR8wNGMVXUE1TwtKn5D5Vu7FzEv69dokLv7KrQk7h6pu4LF8ZRR9yQBhc7uSM9PiLpAkKktDD8kUmyHT")
	t.Setenv(config.EnvRpcURL, "https://api.mainnet-beta.solana.com")
}

func testInput(parlayID string) ProofInput {
	return ProofInput{
		ParlayID:      parlayID,
		AccountNumber: "acct-1",
		CreatedAtIso:  "2026-08-30T12:00:00Z",
	}
}

func testRecord(parlayID string) proof.PrivateParlayRecord {
	return proof.PrivateParlayRecord{
		SchemaVersion: "2",
		AppVersion:    "1.0.0",
		ParlayID:      parlayID,
		AccountNumber: "acct-1",
		CreatedAtUTC:  "2026-08-30T12:00:00Z",
		ParlayType:    "standard",
		Legs: []proof.ParlayLeg{
			{LegID: "l1", Market: "moneyline", Selection: "home", OddsAmerican: "-110"},
		},
	}
}

func TestInscribeSuccess(t *testing.T) {
	setValidCredentials(t)

	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			return ledger.SubmitResult{Signature: "sig123"}, nil
		},
	}
	o := NewOrchestrator(fake)

	result, err := o.Inscribe(context.Background(), testInput("p-success"), testRecord("p-success"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Txid != "sig123" {
		t.Errorf("txid = %q", result.Txid)
	}

	wantHash, _ := proof.ComputeCommitmentHash(testRecord("p-success"))
	if result.Hash != wantHash {
		t.Errorf("hash = %q, want %q", result.Hash, wantHash)
	}
	if result.TxidPending {
		t.Error("txid should not be pending")
	}

	attempt, ok := o.Attempts.Get("p-success")
	if !ok || attempt.State != StateCompleted {
		t.Errorf("attempt state = %+v", attempt)
	}

	// the submitted data string is the canonical public payload
	if !strings.Contains(fake.submitData, `"type":"PARLAY_GORILLA_CUSTOM"`) ||
		!strings.Contains(fake.submitData, `"hash":"`+wantHash+`"`) {
		t.Errorf("submitted data string: %s", fake.submitData)
	}
}

func TestInscribeResumesBrokenSubmission(t *testing.T) {
	setValidCredentials(t)

	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			return nil, errors.New("Transaction 4 failed, beforeHash:deadbeef")
		},
		resume: func(ctx context.Context, dataString string, brokeNum int, beforeHash string) (any, error) {
			return ledger.SubmitResult{Txid: "tx99"}, nil
		},
	}
	o := NewOrchestrator(fake)

	result, err := o.Inscribe(context.Background(), testInput("p-resume"), testRecord("p-resume"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if result.Txid != "tx99" {
		t.Errorf("txid = %q", result.Txid)
	}

	if len(fake.resumeCalls) != 1 {
		t.Fatalf("expected exactly one resume call, got %d", len(fake.resumeCalls))
	}
	call := fake.resumeCalls[0]
	if call.brokeNum != 4 || call.beforeHash != "deadbeef" {
		t.Errorf("resume called with (%d, %q)", call.brokeNum, call.beforeHash)
	}
	if call.dataString != fake.submitData {
		t.Error("resume must reuse the original data string")
	}

	attempt, _ := o.Attempts.Get("p-resume")
	if attempt.State != StateCompleted {
		t.Errorf("state = %s", attempt.State)
	}
	if attempt.ResumeCheckpoint == nil || attempt.ResumeCheckpoint.BrokeNum != 4 {
		t.Errorf("checkpoint = %+v", attempt.ResumeCheckpoint)
	}
}

func TestInscribeUnrecoverableFailureSurfacesOriginalError(t *testing.T) {
	setValidCredentials(t)

	boom := errors.New("account has insufficient funds")
	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			return nil, boom
		},
	}
	o := NewOrchestrator(fake)

	_, err := o.Inscribe(context.Background(), testInput("p-fail"), testRecord("p-fail"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected the original error unmodified, got %v", err)
	}
	if len(fake.resumeCalls) != 0 {
		t.Errorf("expected no resume calls, got %d", len(fake.resumeCalls))
	}

	attempt, _ := o.Attempts.Get("p-fail")
	if attempt.State != StateFailed {
		t.Errorf("state = %s", attempt.State)
	}
}

func TestInscribeResumeBudgetExhausted(t *testing.T) {
	setValidCredentials(t)

	broken := func() error {
		return &ledger.BrokenSubmitError{BrokeNum: 1, BeforeHash: "aa11", Err: errors.New("rpc reset")}
	}
	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			return nil, broken()
		},
		resume: func(ctx context.Context, dataString string, brokeNum int, beforeHash string) (any, error) {
			return nil, broken()
		},
	}
	o := NewOrchestrator(fake)
	o.MaxResumeAttempts = 2

	_, err := o.Inscribe(context.Background(), testInput("p-budget"), testRecord("p-budget"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "resume budget") {
		t.Errorf("err = %v", err)
	}
	if len(fake.resumeCalls) != 2 {
		t.Errorf("expected 2 resume calls, got %d", len(fake.resumeCalls))
	}

	attempt, _ := o.Attempts.Get("p-budget")
	if attempt.State != StateFailed {
		t.Errorf("state = %s", attempt.State)
	}
}

func TestInscribeRejectsConcurrentAttempt(t *testing.T) {
	setValidCredentials(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var enteredOnce sync.Once
	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			// Submit runs again for the fresh attempt at the end of the
			// test; only the first call may close the signal channel.
			enteredOnce.Do(func() { close(entered) })
			<-release
			return ledger.SubmitResult{Txid: "tx1"}, nil
		},
	}
	o := NewOrchestrator(fake)

	done := make(chan error, 1)
	go func() {
		_, err := o.Inscribe(context.Background(), testInput("p-dup"), testRecord("p-dup"))
		done <- err
	}()

	<-entered

	_, err := o.Inscribe(context.Background(), testInput("p-dup"), testRecord("p-dup"))
	if !errors.Is(err, ErrAttemptInFlight) {
		t.Fatalf("expected ErrAttemptInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first inscribe failed: %v", err)
	}

	// terminal attempt frees the slot for a fresh one
	if _, err := o.Inscribe(context.Background(), testInput("p-dup"), testRecord("p-dup")); err != nil {
		t.Fatalf("expected a new attempt after completion, got %v", err)
	}
}

func TestInscribeCancelledMidSubmitKeepsOutcomeUnknown(t *testing.T) {
	setValidCredentials(t)

	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	o := NewOrchestrator(fake)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := o.Inscribe(ctx, testInput("p-cancel"), testRecord("p-cancel"))
	if err == nil {
		t.Fatal("expected error")
	}

	attempt, _ := o.Attempts.Get("p-cancel")
	if attempt.State != StateSubmitting {
		t.Errorf("state = %s, want %s", attempt.State, StateSubmitting)
	}
	if !attempt.OutcomeUnknown {
		t.Error("expected outcome unknown to be recorded")
	}

	// an impatient caller must not be able to trigger a duplicate
	_, err = o.Inscribe(context.Background(), testInput("p-cancel"), testRecord("p-cancel"))
	if !errors.Is(err, ErrAttemptInFlight) {
		t.Fatalf("expected ErrAttemptInFlight, got %v", err)
	}
}

func TestInscribeTimeoutIsFailedNotResumed(t *testing.T) {
	setValidCredentials(t)

	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	o := NewOrchestrator(fake)
	o.SubmitTimeout = 20 * time.Millisecond

	_, err := o.Inscribe(context.Background(), testInput("p-timeout"), testRecord("p-timeout"))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(fake.resumeCalls) != 0 {
		t.Errorf("an ambiguous hang must not be resumed, got %d resume calls", len(fake.resumeCalls))
	}

	attempt, _ := o.Attempts.Get("p-timeout")
	if attempt.State != StateFailed {
		t.Errorf("state = %s, want %s", attempt.State, StateFailed)
	}
}

func TestInscribeEmptyTxidIsPendingNotRetried(t *testing.T) {
	setValidCredentials(t)

	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			return map[string]any{}, nil
		},
	}
	o := NewOrchestrator(fake)

	result, err := o.Inscribe(context.Background(), testInput("p-pending"), testRecord("p-pending"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !result.TxidPending || result.Txid != "" {
		t.Errorf("result = %+v", result)
	}
	if fake.submitCalls != 1 {
		t.Errorf("a successful write must never be retried, got %d submits", fake.submitCalls)
	}

	attempt, _ := o.Attempts.Get("p-pending")
	if attempt.State != StateCompleted || !attempt.TxidPending {
		t.Errorf("attempt = %+v", attempt)
	}
}

func TestInscribeConfigErrorBeforeAnySpend(t *testing.T) {
	t.Setenv(config.EnvSignerPrivateKey, "")
	t.Setenv(config.EnvRpcURL, "")

	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			return ledger.SubmitResult{Txid: "tx1"}, nil
		},
	}
	o := NewOrchestrator(fake)

	_, err := o.Inscribe(context.Background(), testInput("p-config"), testRecord("p-config"))
	if err == nil {
		t.Fatal("expected error")
	}

	var configErr *config.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected *config.ConfigError, got %T", err)
	}
	if fake.submitCalls != 0 {
		t.Errorf("credential failure must abort before any ledger call, got %d submits", fake.submitCalls)
	}
}

func TestConcurrentInscriptionsForDistinctParlays(t *testing.T) {
	setValidCredentials(t)

	fake := &scriptedLedger{
		submit: func(ctx context.Context, dataString string) (any, error) {
			return ledger.SubmitResult{Signature: "sig"}, nil
		},
	}
	o := NewOrchestrator(fake)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for _, id := range []string{"pa", "pb", "pc", "pd", "pe", "pf", "pg", "ph"} {
		wg.Add(1)
		go func(parlayID string) {
			defer wg.Done()
			_, err := o.Inscribe(context.Background(), testInput(parlayID), testRecord(parlayID))
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("unexpected err: %v", err)
		}
	}
}
