/*
Package httpserver exposes the IP registry over HTTP.

It is deliberately thin glue: field presence validation, content hashing,
orchestration of the upload gateway and the ledger mirror, and status-code
mapping. All record semantics live in the registry package.

# Endpoints

  - POST /api/ip/register: multipart upload (file, title, owner,
    description); 201 for a new record, 200 for a duplicate
  - GET /api/ip/search?q=: case-insensitive substring search
  - GET /api/ip/{id}: fetch one record
  - POST /api/ip/{id}/transfer: append an ownership change
  - POST /api/ip/{id}/license: append license terms

Health and diagnostics: /livez, /readyz, /drain, /undrain, and optional pprof
under /debug.

# Error Mapping

Validation failures map to 400, unknown record IDs to 404, and
engine/storage failures to 500. Upload-gateway and ledger failures never fail
a request; they degrade to a placeholder identifier or a null onchain field
plus an entry in the response's warnings list.
*/
package httpserver
