package solana

import "context"

// RPCClient defines the ledger RPC surface this system needs: broadcast
// and confirmation-status queries.
type RPCClient interface {
	// SendTransaction broadcasts a fully-signed transaction and returns
	// its signature.
	SendTransaction(ctx context.Context, signedTx []byte) (string, error)

	// GetSignatureStatuses returns the confirmation status for each
	// signature, nil for signatures the ledger does not know about.
	GetSignatureStatuses(ctx context.Context, signatures ...string) ([]*SignatureStatus, error)

	// GetTransaction retrieves a finalized transaction by signature,
	// nil when it is not found.
	GetTransaction(ctx context.Context, signature string) (*ConfirmedTransaction, error)
}

// SignatureStatus is one entry of a getSignatureStatuses response.
type SignatureStatus struct {
	Slot               int64       `json:"slot"`
	Confirmations      *int64      `json:"confirmations"`
	Err                interface{} `json:"err"`
	ConfirmationStatus string      `json:"confirmationStatus"`
}

// Confirmed reports whether the transaction reached at least the
// "confirmed" commitment without an execution error.
func (s *SignatureStatus) Confirmed() bool {
	if s == nil || s.Err != nil {
		return false
	}
	return s.ConfirmationStatus == "confirmed" || s.ConfirmationStatus == "finalized"
}

// ConfirmedTransaction is a transaction as stored by the ledger.
type ConfirmedTransaction struct {
	Slot        int64
	Signature   string
	BlockTime   int64
	Err         interface{}
	AccountKeys []string
}

// HasAccountKey reports whether the transaction references the address.
func (t *ConfirmedTransaction) HasAccountKey(address string) bool {
	for _, key := range t.AccountKeys {
		if key == address {
			return true
		}
	}
	return false
}
