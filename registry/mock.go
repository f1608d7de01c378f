package registry

import (
	"github.com/clearmark/ip-registry-backend/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockRegistry mocks the interfaces.Registry interface
type MockRegistry struct {
	mock.Mock
}

// Register mocks the Register method
func (m *MockRegistry) Register(params interfaces.RegisterParams) (*interfaces.Record, bool, error) {
	args := m.Called(params)
	var record *interfaces.Record
	if args.Get(0) != nil {
		record = args.Get(0).(*interfaces.Record)
	}
	return record, args.Bool(1), args.Error(2)
}

// Search mocks the Search method
func (m *MockRegistry) Search(query string) ([]interfaces.Record, error) {
	args := m.Called(query)
	var records []interfaces.Record
	if args.Get(0) != nil {
		records = args.Get(0).([]interfaces.Record)
	}
	return records, args.Error(1)
}

// GetByID mocks the GetByID method
func (m *MockRegistry) GetByID(id int64) (*interfaces.Record, error) {
	args := m.Called(id)
	var record *interfaces.Record
	if args.Get(0) != nil {
		record = args.Get(0).(*interfaces.Record)
	}
	return record, args.Error(1)
}

// Transfer mocks the Transfer method
func (m *MockRegistry) Transfer(id int64, newOwner, note string) (*interfaces.Record, error) {
	args := m.Called(id, newOwner, note)
	var record *interfaces.Record
	if args.Get(0) != nil {
		record = args.Get(0).(*interfaces.Record)
	}
	return record, args.Error(1)
}

// SetLicense mocks the SetLicense method
func (m *MockRegistry) SetLicense(id int64, price, durationDays string) (*interfaces.Record, error) {
	args := m.Called(id, price, durationDays)
	var record *interfaces.Record
	if args.Get(0) != nil {
		record = args.Get(0).(*interfaces.Record)
	}
	return record, args.Error(1)
}
