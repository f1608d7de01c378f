package registry

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/clearmark/ip-registry-backend/interfaces"
)

// Engine implements interfaces.Registry on top of a RegistryStore. All
// mutating operations hold mu across the full load-modify-save cycle.
type Engine struct {
	store interfaces.RegistryStore
	log   *slog.Logger

	// mu guards every mutation of the durable document.
	mu sync.Mutex

	// now is swapped out in tests for deterministic timestamps.
	now func() time.Time
}

// NewEngine creates a registry engine backed by store.
func NewEngine(store interfaces.RegistryStore, log *slog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Register creates a record for previously unseen content. When a record with
// the same content digest already exists the original record is returned with
// isDuplicate=true and no durable write happens; the second caller's title,
// description, and owner are ignored, the original record stays
// authoritative.
func (e *Engine) Register(params interfaces.RegisterParams) (*interfaces.Record, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	store, err := e.store.Load()
	if err != nil {
		return nil, false, err
	}

	for i := range store.Records {
		if store.Records[i].IPHash == params.IPHash {
			existing := store.Records[i]
			e.log.Info("Duplicate registration attempt",
				slog.Int64("id", existing.ID),
				slog.String("ipHash", existing.IPHash),
				slog.String("attemptedOwner", params.Owner))
			return &existing, true, nil
		}
	}

	store.LastID++
	record := interfaces.Record{
		ID:          store.LastID,
		Title:       params.Title,
		Description: params.Description,
		IPHash:      params.IPHash,
		Owner:       params.Owner,
		FileCID:     params.FileCID,
		Timestamp:   e.now(),
		Transfers:   []interfaces.TransferEvent{},
		Licenses:    []interfaces.LicenseTerms{},
	}
	store.Records = append(store.Records, record)

	if err := e.store.Save(store); err != nil {
		return nil, false, err
	}

	e.log.Info("Registered record",
		slog.Int64("id", record.ID),
		slog.String("ipHash", record.IPHash),
		slog.String("owner", record.Owner))

	return &record, false, nil
}

// Search returns records whose title, description, or content digest contains
// query case-insensitively, in store insertion order. An empty query matches
// every record.
func (e *Engine) Search(query string) ([]interfaces.Record, error) {
	store, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	normalized := strings.ToLower(query)
	matches := []interfaces.Record{}
	for _, record := range store.Records {
		if strings.Contains(strings.ToLower(record.Title), normalized) ||
			strings.Contains(strings.ToLower(record.Description), normalized) ||
			strings.Contains(strings.ToLower(record.IPHash), normalized) {
			matches = append(matches, record)
		}
	}

	return matches, nil
}

// GetByID returns the record with the given ID or ErrRecordNotFound.
func (e *Engine) GetByID(id int64) (*interfaces.Record, error) {
	store, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	for i := range store.Records {
		if store.Records[i].ID == id {
			record := store.Records[i]
			return &record, nil
		}
	}

	return nil, interfaces.ErrRecordNotFound
}

// Transfer appends an ownership change event and updates the record's owner.
// The event's From field is the owner at the moment of transfer.
func (e *Engine) Transfer(id int64, newOwner, note string) (*interfaces.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	store, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	record := findRecord(store, id)
	if record == nil {
		return nil, interfaces.ErrRecordNotFound
	}

	record.Transfers = append(record.Transfers, interfaces.TransferEvent{
		From:      record.Owner,
		To:        newOwner,
		Note:      note,
		Timestamp: e.now(),
	})
	record.Owner = newOwner

	if err := e.store.Save(store); err != nil {
		return nil, err
	}

	e.log.Info("Transferred record",
		slog.Int64("id", record.ID),
		slog.String("newOwner", newOwner))

	updated := *record
	return &updated, nil
}

// SetLicense appends license terms to the record. Price and durationDays pass
// through verbatim; the engine performs no range validation.
func (e *Engine) SetLicense(id int64, price, durationDays string) (*interfaces.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	store, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	record := findRecord(store, id)
	if record == nil {
		return nil, interfaces.ErrRecordNotFound
	}

	record.Licenses = append(record.Licenses, interfaces.LicenseTerms{
		Price:        interfaces.FlexibleNumber(price),
		DurationDays: interfaces.FlexibleNumber(durationDays),
		CreatedAt:    e.now(),
	})

	if err := e.store.Save(store); err != nil {
		return nil, err
	}

	e.log.Info("Set license terms",
		slog.Int64("id", record.ID),
		slog.String("price", price),
		slog.String("durationDays", durationDays))

	updated := *record
	return &updated, nil
}

func findRecord(store *interfaces.Store, id int64) *interfaces.Record {
	for i := range store.Records {
		if store.Records[i].ID == id {
			return &store.Records[i]
		}
	}
	return nil
}
