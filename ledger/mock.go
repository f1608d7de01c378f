package ledger

import (
	"context"

	"github.com/clearmark/ip-registry-backend/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockLedger mocks the interfaces.Ledger interface
type MockLedger struct {
	mock.Mock
}

// MirrorRegistration mocks the MirrorRegistration method
func (m *MockLedger) MirrorRegistration(ctx context.Context, ipHash, metadataURI string) (*interfaces.MirrorReceipt, error) {
	args := m.Called(ctx, ipHash, metadataURI)
	var receipt *interfaces.MirrorReceipt
	if args.Get(0) != nil {
		receipt = args.Get(0).(*interfaces.MirrorReceipt)
	}
	return receipt, args.Error(1)
}

// MirrorTransfer mocks the MirrorTransfer method
func (m *MockLedger) MirrorTransfer(ctx context.Context, id int64, newOwner, note string) (*interfaces.MirrorReceipt, error) {
	args := m.Called(ctx, id, newOwner, note)
	var receipt *interfaces.MirrorReceipt
	if args.Get(0) != nil {
		receipt = args.Get(0).(*interfaces.MirrorReceipt)
	}
	return receipt, args.Error(1)
}

// MirrorLicense mocks the MirrorLicense method
func (m *MockLedger) MirrorLicense(ctx context.Context, id int64, price, durationDays string) (*interfaces.MirrorReceipt, error) {
	args := m.Called(ctx, id, price, durationDays)
	var receipt *interfaces.MirrorReceipt
	if args.Get(0) != nil {
		receipt = args.Get(0).(*interfaces.MirrorReceipt)
	}
	return receipt, args.Error(1)
}
