// Package flags defines command-line flags and setup helpers shared by the
// binaries in cmd/.
package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/clearmark/ip-registry-backend/common"
	"github.com/clearmark/ip-registry-backend/httpserver"
)

// SetupLogger builds the process logger from the common logging flags.
func SetupLogger(cCtx *cli.Context) *slog.Logger {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool(LogDebugFlag.Name),
		JSON:    cCtx.Bool(LogJSONFlag.Name),
		Service: cCtx.String(LogServiceFlag.Name),
		Version: common.Version,
	})

	if cCtx.Bool(LogUIDFlag.Name) {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// ConfigureServer builds the HTTP server config from the common server flags.
func ConfigureServer(cCtx *cli.Context, logger *slog.Logger) *httpserver.HTTPServerConfig {
	return &httpserver.HTTPServerConfig{
		ListenAddr:               cCtx.String(ListenAddrFlag.Name),
		MetricsAddr:              cCtx.String(MetricsAddrFlag.Name),
		Log:                      logger,
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		DrainDuration:            time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

var ListenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:4000",
	Usage: "address to listen on for API",
}

var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics, empty to disable",
}

var RegistryPathFlag = &cli.StringFlag{
	Name:    "registry-path",
	Value:   "data/registry.json",
	Usage:   "path of the durable registry JSON document",
	EnvVars: []string{"REGISTRY_PATH"},
}

var StorageBackendFlag = &cli.StringSliceFlag{
	Name:  "storage-backend",
	Usage: "upload backend URI (file://, ipfs://, s3://), repeatable for redundancy",
}

var GatewayBaseFlag = &cli.StringFlag{
	Name:  "gateway-base",
	Value: "https://ipfs.filebase.io/ipfs",
	Usage: "public HTTP gateway base URL for uploaded content",
}

var RPCAddrFlag = &cli.StringFlag{
	Name:    "rpc-addr",
	Usage:   "Ethereum RPC address for on-chain mirroring, empty to disable",
	EnvVars: []string{"SEPOLIA_RPC_URL"},
}

var ContractAddrFlag = &cli.StringFlag{
	Name:    "contract-address",
	Usage:   "IPRegistry contract address, 0x-prefixed",
	EnvVars: []string{"CONTRACT_ADDRESS"},
}

var WalletKeyFlag = &cli.StringFlag{
	Name:    "wallet-key",
	Usage:   "hex-encoded signing key for mirror transactions",
	EnvVars: []string{"WALLET_PRIVATE_KEY"},
}

var VaultAddrFlag = &cli.StringFlag{
	Name:    "vault-addr",
	Usage:   "HashiCorp Vault address to read the wallet key from instead of --wallet-key",
	EnvVars: []string{"VAULT_ADDR"},
}

var VaultTokenFlag = &cli.StringFlag{
	Name:    "vault-token",
	Usage:   "Vault authentication token",
	EnvVars: []string{"VAULT_TOKEN"},
}

var VaultSecretPathFlag = &cli.StringFlag{
	Name:  "vault-secret-path",
	Value: "ip-registry/wallet",
	Usage: "KV v2 path of the wallet key secret",
}

var VaultMountFlag = &cli.StringFlag{
	Name:  "vault-mount",
	Value: "secret",
	Usage: "KV v2 mount of the wallet key secret",
}

var EnvFileFlag = &cli.StringFlag{
	Name:  "env-file",
	Usage: "load environment variables from this file before parsing",
}

var LogJSONFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}

var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}

var LogUIDFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: common.PackageName,
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}

var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}

var CommonFlags = []cli.Flag{
	LogJSONFlag,
	LogDebugFlag,
	LogUIDFlag,
	LogServiceFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}
