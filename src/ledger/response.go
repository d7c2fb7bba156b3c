package ledger

// ExtractTransactionID normalizes the SDK's unstable success shapes to
// a plain transaction id. Steps are tried in order and each only if the
// prior yields nothing: nil, a bare string, then the txid, signature
// and transaction fields. Unknown shapes collapse to "". Never fails.
func ExtractTransactionID(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case SubmitResult:
		return firstNonEmpty(v.Txid, v.Signature, v.Transaction)
	case *SubmitResult:
		if v == nil {
			return ""
		}
		return firstNonEmpty(v.Txid, v.Signature, v.Transaction)
	case map[string]any:
		for _, key := range []string{"txid", "signature", "transaction"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
