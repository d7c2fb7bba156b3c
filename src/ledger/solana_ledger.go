package ledger

import (
	"context"
	"errors"
	"fmt"

	"proof-inscriber/pkg/logger"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// DefaultChunkSize keeps every chunk transaction comfortably inside the
// packet limit once the memo header and signature are added.
const DefaultChunkSize = 512

// Memo Program ID: MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr
var memoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

// SolanaLedger inscribes a proof data string as a sequence of memo
// transactions, one chunk per transaction. A failure after the first
// chunk has landed surfaces a BrokenSubmitError so the caller can
// resume instead of paying for the landed chunks again.
type SolanaLedger struct {
	RpcClient *rpc.Client
	Signer    solana.PrivateKey
	ChunkSize int
}

func NewSolanaLedger(rpcURL string, signer solana.PrivateKey) *SolanaLedger {
	return &SolanaLedger{
		RpcClient: rpc.New(rpcURL),
		Signer:    signer,
		ChunkSize: DefaultChunkSize,
	}
}

func (sl *SolanaLedger) Submit(ctx context.Context, dataString string) (any, error) {
	return sl.sendFrom(ctx, dataString, 1, "")
}

func (sl *SolanaLedger) Resume(ctx context.Context, dataString string, brokeNum int, beforeHash string) (any, error) {
	if brokeNum <= 0 || beforeHash == "" {
		return nil, errors.New("invalid resume checkpoint")
	}
	return sl.sendFrom(ctx, dataString, brokeNum, beforeHash)
}

func (sl *SolanaLedger) sendFrom(ctx context.Context, dataString string, startNum int, beforeHash string) (any, error) {
	chunkSize := sl.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunks := splitIntoChunks(dataString, chunkSize)
	if startNum > len(chunks) {
		return nil, fmt.Errorf("resume start %d is past the final chunk %d", startNum, len(chunks))
	}

	ledgerLogger := logger.Default()
	ledgerLogger.Infof("Inscribing %d bytes as %d chunk transaction(s), starting at %d", len(dataString), len(chunks), startNum)

	lastSig := beforeHash
	for num := startNum; num <= len(chunks); num++ {
		sig, err := sl.sendChunkTransaction(ctx, chunks[num-1], num, len(chunks))
		if err != nil {
			if lastSig == "" {
				// nothing landed, a brand-new submit is safe
				return nil, fmt.Errorf("send chunk transaction %d of %d: %w", num, len(chunks), err)
			}
			return nil, &BrokenSubmitError{BrokeNum: num, BeforeHash: lastSig, Err: err}
		}
		ledgerLogger.Infof("Chunk %d/%d landed with signature: %s", num, len(chunks), sig.String())
		lastSig = sig.String()
	}

	return SubmitResult{Signature: lastSig}, nil
}

func (sl *SolanaLedger) sendChunkTransaction(ctx context.Context, chunk string, num, total int) (solana.Signature, error) {
	memoData := chunkMemoData(chunk, num, total)

	latest, err := sl.RpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("get latest blockhash: %w", err)
	}

	memoInstruction := solana.NewInstruction(
		memoProgramID,
		[]*solana.AccountMeta{
			solana.NewAccountMeta(sl.Signer.PublicKey(), false, true),
		},
		memoData,
	)

	tx, err := solana.NewTransaction(
		[]solana.Instruction{memoInstruction},
		latest.Value.Blockhash,
		solana.TransactionPayer(sl.Signer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, err
	}

	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(sl.Signer.PublicKey()) {
			return &sl.Signer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := sl.RpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		logger.Default().Errorf(err, "Failed to send chunk transaction %d of %d", num, total)
		return solana.Signature{}, err
	}

	return sig, nil
}

// chunkMemoData frames one chunk for the memo program. The header
// carries the chunk's ordinal and the total so readers can reorder
// and reassemble the payload from transaction history.
func chunkMemoData(chunk string, num, total int) []byte {
	return fmt.Appendf(nil, "pg_proof:%d/%d:%s", num, total, chunk)
}

func splitIntoChunks(data string, size int) []string {
	if data == "" {
		return []string{""}
	}
	var chunks []string
	for start := 0; start < len(data); start += size {
		end := start + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[start:end])
	}
	return chunks
}
