package interfaces

import "errors"

// ErrRecordNotFound is returned by engine lookups and mutations targeting an
// unknown record ID. It signals absence, not failure; the store is left
// unchanged.
var ErrRecordNotFound = errors.New("record not found")

// ErrCorruptStore is returned when the durable registry document exists but
// cannot be decoded. This is fatal and is never silently repaired by
// resetting the document.
var ErrCorruptStore = errors.New("registry document is corrupt")

// RegistryStore persists the full registry document. Implementations provide
// no transactional isolation; callers serialize access around the whole
// load-modify-save cycle.
type RegistryStore interface {
	// Load reads the current document. If no durable copy exists yet it
	// atomically initializes an empty one and returns it. A structurally
	// invalid document yields ErrCorruptStore.
	Load() (*Store, error)

	// Save fully overwrites the durable copy with the given document.
	// Readers never observe a partially written document.
	Save(store *Store) error
}

// Registry is the record lifecycle engine. Mutating operations are
// serialized internally; read-only operations may run concurrently and
// observe consistent snapshots.
type Registry interface {
	// Register creates a record for previously unseen content, or returns
	// the original record with isDuplicate=true when the content digest is
	// already registered. Duplicate registration performs no durable write
	// and ignores the second caller's metadata.
	Register(params RegisterParams) (*Record, bool, error)

	// Search returns records whose title, description, or content digest
	// contains query case-insensitively, in ascending ID order. An empty
	// query matches everything; short-circuiting it is the caller's job.
	Search(query string) ([]Record, error)

	// GetByID returns the record with the given ID, or ErrRecordNotFound.
	GetByID(id int64) (*Record, error)

	// Transfer appends an ownership change and updates the owner, or
	// returns ErrRecordNotFound without writing.
	Transfer(id int64, newOwner, note string) (*Record, error)

	// SetLicense appends license terms verbatim, or returns
	// ErrRecordNotFound without writing. Price and duration ranges are not
	// validated here.
	SetLicense(id int64, price, durationDays string) (*Record, error)
}
