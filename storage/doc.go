// Package storage provides upload backends for registered file content.
//
// Uploaded bytes are handed to a remote content-addressed gateway which
// returns an opaque content identifier (CID). The registry records that
// identifier but never interprets it. Multiple backends can be aggregated for
// redundancy; the first successful upload supplies the recorded identifier.
//
// # Backend URI Format
//
// Backends are specified using URI format:
//
//	[scheme]://[auth@]host[:port][/path][?params]
//
// Supported URI schemes:
//
//   - file:///var/lib/ipregistry/files (local filesystem, for development)
//   - ipfs://127.0.0.1:5001 (an IPFS node's HTTP API)
//   - s3://ACCESS:SECRET@bucket/prefix?region=us-east-1&endpoint=https://s3.filebase.com
//     (S3-compatible object storage; Filebase-style gateways pin the object
//     to IPFS and expose the resulting CID via object metadata)
//
// Upload failures are non-fatal to registration: the HTTP layer substitutes a
// clearly marked placeholder identifier and reports the degradation in the
// response.
package storage
