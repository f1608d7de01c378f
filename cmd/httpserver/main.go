package main

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/clearmark/ip-registry-backend/cmd/flags"
	"github.com/clearmark/ip-registry-backend/httpserver"
	"github.com/clearmark/ip-registry-backend/interfaces"
	"github.com/clearmark/ip-registry-backend/ledger"
	"github.com/clearmark/ip-registry-backend/registry"
	"github.com/clearmark/ip-registry-backend/storage"
)

var serverFlags = append([]cli.Flag{
	flags.ListenAddrFlag,
	flags.RegistryPathFlag,
	flags.StorageBackendFlag,
	flags.GatewayBaseFlag,
	flags.RPCAddrFlag,
	flags.ContractAddrFlag,
	flags.WalletKeyFlag,
	flags.VaultAddrFlag,
	flags.VaultTokenFlag,
	flags.VaultMountFlag,
	flags.VaultSecretPathFlag,
	flags.EnvFileFlag,
}, flags.CommonFlags...)

func main() {
	// .env files carry the RPC, wallet, and gateway credentials, matching
	// the EnvVars bindings on the flags. Flags read the environment during
	// parsing, so the file has to be loaded up front.
	loadEnvFile(os.Args)

	app := &cli.App{
		Name:   "ip-registry-server",
		Usage:  "Serve the IP registration API with gateway upload and on-chain mirroring",
		Flags:  serverFlags,
		Action: runServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadEnvFile(args []string) {
	for i, arg := range args {
		if arg == "--env-file" && i+1 < len(args) {
			if err := godotenv.Load(args[i+1]); err != nil {
				log.Fatalf("failed to load env file %s: %v", args[i+1], err)
			}
			return
		}
	}
	// Best-effort default, matching the original deployment layout.
	_ = godotenv.Load()
}

func runServer(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	store, err := registry.NewFileStore(cCtx.String(flags.RegistryPathFlag.Name), logger)
	if err != nil {
		logger.Error("Failed to open registry store", "err", err)
		return err
	}
	engine := registry.NewEngine(store, logger)

	var uploader interfaces.UploadBackend
	backendURIs := cCtx.StringSlice(flags.StorageBackendFlag.Name)
	if len(backendURIs) > 0 {
		factory := storage.NewUploadBackendFactory(logger)
		uploader, err = factory.CreateMultiBackend(backendURIs)
		if err != nil {
			logger.Error("Failed to create upload backends", "err", err)
			return err
		}
		logger.Info("Upload backends configured", "location", uploader.LocationURI())
	} else {
		logger.Warn("No upload backend configured; registrations will record placeholder identifiers")
	}

	ledgerClient, err := setupLedger(cCtx, logger)
	if err != nil {
		return err
	}

	handler := httpserver.NewHandler(engine, uploader, ledgerClient,
		cCtx.String(flags.GatewayBaseFlag.Name), logger)

	cfg := flags.ConfigureServer(cCtx, logger)
	server, err := httpserver.New(cfg, handler)
	if err != nil {
		logger.Error("Failed to create server", "err", err)
		return err
	}

	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit

	logger.Info("Shutting down")
	server.Shutdown()
	return nil
}

// setupLedger wires the on-chain mirror when an RPC address and contract are
// configured. Returns a nil Ledger otherwise, which disables mirroring.
func setupLedger(cCtx *cli.Context, logger *slog.Logger) (interfaces.Ledger, error) {
	rpcAddr := cCtx.String(flags.RPCAddrFlag.Name)
	contractHex := cCtx.String(flags.ContractAddrFlag.Name)

	if rpcAddr == "" || contractHex == "" {
		logger.Info("On-chain mirroring disabled")
		return nil, nil
	}

	if !common.IsHexAddress(contractHex) {
		err := errors.New("contract-address is not a valid hex address")
		logger.Error("Invalid contract address", "address", contractHex)
		return nil, err
	}

	key, err := loadWalletKey(cCtx)
	if err != nil {
		logger.Error("Failed to load wallet key", "err", err)
		return nil, err
	}

	logger.Info("Connecting to Ethereum RPC", "address", rpcAddr)
	ethClient, err := ethclient.Dial(rpcAddr)
	if err != nil {
		logger.Error("Failed to dial RPC", "err", err)
		return nil, err
	}

	client, err := ledger.NewClient(context.Background(), ethClient,
		common.HexToAddress(contractHex), key, logger)
	if err != nil {
		logger.Error("Failed to create ledger client", "err", err)
		return nil, err
	}

	logger.Info("On-chain mirroring enabled",
		"contract", contractHex,
		"signer", client.SignerAddress().Hex())
	return client, nil
}

func loadWalletKey(cCtx *cli.Context) (*ecdsa.PrivateKey, error) {
	if vaultAddr := cCtx.String(flags.VaultAddrFlag.Name); vaultAddr != "" {
		source, err := ledger.NewVaultKeySource(vaultAddr,
			cCtx.String(flags.VaultTokenFlag.Name),
			cCtx.String(flags.VaultMountFlag.Name),
			cCtx.String(flags.VaultSecretPathFlag.Name))
		if err != nil {
			return nil, err
		}
		return source.SigningKey(context.Background())
	}

	return ledger.ParseSigningKey(cCtx.String(flags.WalletKeyFlag.Name))
}
