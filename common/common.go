// Package common holds shared build metadata and logger setup used by all
// binaries in this repository.
package common

// Version is set at build time via -ldflags.
var Version = "dev"

// PackageName tags metrics and logs emitted by this service.
const PackageName = "ip-registry-backend"
