package interfaces

import "context"

// MirrorReceipt describes a successfully submitted ledger transaction.
type MirrorReceipt struct {
	TxHash string `json:"txHash"`
}

// Ledger mirrors registry events onto a blockchain contract, best-effort.
// Every method may return (nil, nil) when mirroring is skipped, for example
// because an owner value is not a valid on-chain address. Errors never
// propagate into the core registry operation; callers log them and continue.
type Ledger interface {
	// MirrorRegistration submits a registerIP transaction for a new record.
	MirrorRegistration(ctx context.Context, ipHash, metadataURI string) (*MirrorReceipt, error)

	// MirrorTransfer submits a transferIP transaction for an ownership change.
	MirrorTransfer(ctx context.Context, id int64, newOwner, note string) (*MirrorReceipt, error)

	// MirrorLicense submits a setLicenseTerms transaction. DurationDays is
	// converted to seconds on chain.
	MirrorLicense(ctx context.Context, id int64, price, durationDays string) (*MirrorReceipt, error)
}
