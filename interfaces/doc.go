// Package interfaces defines the shared types and component interfaces of the
// IP registry service.
//
// The package has no dependencies on concrete implementations, allowing the
// registry engine, upload backends, and the ledger client to be composed and
// mocked independently:
//
//   - Registry: the record lifecycle engine (register, search, get, transfer,
//     license)
//   - RegistryStore: durable persistence for the full registry document
//   - UploadBackend: content-addressed file upload gateways
//   - Ledger: best-effort on-chain mirroring of registry events
//
// # Data Model
//
// A Record is one intellectual-property registration. Its content digest
// (IPHash) is the deduplication key: no two records ever share one. Transfer
// and license histories are append-only; the owner field is mutated only by a
// transfer. The Store document holds every record plus a monotonic ID counter
// and is persisted as a single JSON document.
package interfaces
