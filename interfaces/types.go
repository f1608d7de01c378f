package interfaces

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ContentDigest is the 32-byte SHA-256 fingerprint of uploaded file bytes.
// Its hex encoding is the registry's deduplication key.
type ContentDigest [32]byte

// ComputeDigest calculates the content digest of data. Empty input is valid
// and hashes deterministically.
func ComputeDigest(data []byte) ContentDigest {
	return ContentDigest(sha256.Sum256(data))
}

// ParseDigest decodes a hex-encoded digest, accepting an optional 0x prefix.
func ParseDigest(source string) (ContentDigest, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return ContentDigest{}, errors.New("invalid digest length: hex string must be 64 characters")
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return ContentDigest{}, fmt.Errorf("invalid hex format: %w", err)
	}

	var digest [32]byte
	copy(digest[:], raw)
	return ContentDigest(digest), nil
}

// String returns the lowercase hex representation.
func (d ContentDigest) String() string {
	return hex.EncodeToString(d[:])
}

// Bytes returns the raw 32-byte hash.
func (d ContentDigest) Bytes() []byte {
	return d[:]
}

// Equal compares two digests.
func (d ContentDigest) Equal(other ContentDigest) bool {
	return bytes.Equal(d[:], other[:])
}

// TransferEvent records one ownership change. From is the owner at the moment
// of the transfer, not necessarily the original registrant. Events are
// immutable once appended.
type TransferEvent struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// FlexibleNumber accepts a JSON number or string and preserves its textual
// form verbatim. Persisted documents may carry either type for license
// fields, so loading must tolerate both.
type FlexibleNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleNumber(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleNumber(n.String())
	return nil
}

// String returns the preserved textual form.
func (f FlexibleNumber) String() string {
	return string(f)
}

// LicenseTerms records one set of licensing terms offered for a record. The
// registry does not define which entry is active; consumers decide. Price and
// DurationDays are preserved verbatim as given by the caller.
type LicenseTerms struct {
	Price        FlexibleNumber `json:"price"`
	DurationDays FlexibleNumber `json:"durationDays"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Record is one IP registration.
type Record struct {
	// ID is positive, unique, and monotonically assigned; never reused.
	ID int64 `json:"id"`

	// Title is required at creation and never changes afterwards.
	Title string `json:"title"`

	// Description may be empty.
	Description string `json:"description"`

	// IPHash is the hex-encoded content digest, unique across all records.
	IPHash string `json:"ipHash"`

	// Owner is mutated only by a transfer.
	Owner string `json:"owner"`

	// FileCID is the identifier the upload gateway returned for the file
	// bytes; immutable after creation.
	FileCID string `json:"fileCid"`

	// Timestamp is the creation instant.
	Timestamp time.Time `json:"timestamp"`

	// Transfers is the append-only ownership history.
	Transfers []TransferEvent `json:"transfers"`

	// Licenses is the append-only license history.
	Licenses []LicenseTerms `json:"licenses"`
}

// Store is the full registry document persisted as one JSON file.
// LastID equals the highest assigned record ID and never decreases.
type Store struct {
	LastID  int64    `json:"lastId"`
	Records []Record `json:"records"`
}

// NewStore returns an empty registry document.
func NewStore() *Store {
	return &Store{LastID: 0, Records: []Record{}}
}

// RegisterParams carries the inputs of a registration attempt. Title and
// Owner presence is enforced by the transport layer before the engine is
// invoked; IPHash and FileCID are opaque strings to the engine.
type RegisterParams struct {
	Title       string
	Description string
	IPHash      string
	Owner       string
	FileCID     string
}
