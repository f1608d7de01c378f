// Package api defines the wire types of the registry HTTP API, shared by the
// server, the Go client, and tests.
package api

import (
	"github.com/clearmark/ip-registry-backend/interfaces"
)

// RegisterResponse is returned by POST /api/ip/register with status 201 for a
// new record and 200 for a duplicate.
type RegisterResponse struct {
	Record      interfaces.Record `json:"record"`
	IsDuplicate bool              `json:"isDuplicate"`

	// GatewayURL is the public HTTP location of the uploaded file, empty
	// when the record carries a placeholder identifier.
	GatewayURL string `json:"gatewayUrl,omitempty"`

	// Onchain is null unless ledger mirroring was attempted and the
	// transaction was submitted.
	Onchain *interfaces.MirrorReceipt `json:"onchain"`

	// Warnings reports degraded collaborators (gateway upload, ledger
	// mirroring). Never silently dropped.
	Warnings []string `json:"warnings,omitempty"`
}

// SearchResponse is returned by GET /api/ip/search.
type SearchResponse struct {
	Results []interfaces.Record `json:"results"`
}

// RecordResponse is returned by GET /api/ip/{id}.
type RecordResponse struct {
	Record interfaces.Record `json:"record"`
}

// MutationResponse is returned by the transfer and license endpoints.
type MutationResponse struct {
	Record   interfaces.Record         `json:"record"`
	Onchain  *interfaces.MirrorReceipt `json:"onchain"`
	Warnings []string                  `json:"warnings,omitempty"`
}

// TransferRequest is the body of POST /api/ip/{id}/transfer.
type TransferRequest struct {
	NewOwner string `json:"newOwner"`
	Note     string `json:"note"`
}

// FlexibleNumber is the string-or-number wire form shared with the persisted
// document model.
type FlexibleNumber = interfaces.FlexibleNumber

// LicenseRequest is the body of POST /api/ip/{id}/license. Price and
// DurationDays accept JSON numbers or strings and are recorded verbatim.
type LicenseRequest struct {
	Price        FlexibleNumber `json:"price"`
	DurationDays FlexibleNumber `json:"durationDays"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
