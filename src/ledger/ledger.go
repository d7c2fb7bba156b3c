package ledger

import (
	"context"
	"fmt"
)

// Ledger is the external capability that writes a proof data string to
// the chain. Both calls block for a full round-trip and honor ctx
// cancellation. Each successful call costs real money; callers own the
// at-most-once guarantees.
//
// The success value is deliberately untyped: the SDK surface has
// returned plain signature strings, result objects and maps across
// versions. ExtractTransactionID normalizes all of them.
type Ledger interface {
	Submit(ctx context.Context, dataString string) (any, error)
	Resume(ctx context.Context, dataString string, brokeNum int, beforeHash string) (any, error)
}

// SubmitResult is the structured success shape of the Solana ledger.
type SubmitResult struct {
	Txid        string
	Signature   string
	Transaction string
}

// BrokenSubmitError reports a submission that landed some but not all
// of its transactions. BrokeNum is the 1-based ordinal of the failed
// transaction, BeforeHash the signature of the last one that landed.
type BrokenSubmitError struct {
	BrokeNum   int
	BeforeHash string
	Err        error
}

func (e *BrokenSubmitError) Error() string {
	return fmt.Sprintf("Transaction %d failed, beforeHash:%s: %v", e.BrokeNum, e.BeforeHash, e.Err)
}

func (e *BrokenSubmitError) Unwrap() error {
	return e.Err
}
