package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/clearmark/ip-registry-backend/interfaces"
)

const secondsPerDay = 24 * 60 * 60

// ipRegistryABI is the fixed interface of the deployed IPRegistry contract.
const ipRegistryABI = `[
	{"type":"function","name":"registerIP","stateMutability":"nonpayable","inputs":[{"name":"ipHash","type":"bytes32"},{"name":"metadataURI","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transferIP","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"newOwner","type":"address"},{"name":"note","type":"string"}],"outputs":[]},
	{"type":"function","name":"setLicenseTerms","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"price","type":"uint256"},{"name":"duration","type":"uint256"}],"outputs":[]}
]`

// Client submits IPRegistry transactions with a local signing key.
type Client struct {
	contract *bind.BoundContract
	address  common.Address
	auth     *bind.TransactOpts
	signer   common.Address
	log      *slog.Logger
}

// NewClient creates a ledger client bound to the IPRegistry contract at
// address. The chain ID is read from the RPC endpoint to derive the
// transaction signer.
func NewClient(ctx context.Context, ethClient *ethclient.Client, address common.Address, key *ecdsa.PrivateKey, log *slog.Logger) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(ipRegistryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse IPRegistry ABI: %w", err)
	}

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query chain ID: %w", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	return &Client{
		contract: bind.NewBoundContract(address, parsed, ethClient, ethClient, ethClient),
		address:  address,
		auth:     auth,
		signer:   crypto.PubkeyToAddress(key.PublicKey),
		log:      log,
	}, nil
}

// SignerAddress returns the address submitting mirror transactions.
func (c *Client) SignerAddress() common.Address {
	return c.signer
}

// MirrorRegistration submits a registerIP transaction. The record's content
// digest must be 64 hex characters; anything else skips mirroring.
func (c *Client) MirrorRegistration(ctx context.Context, ipHash, metadataURI string) (*interfaces.MirrorReceipt, error) {
	digest, err := interfaces.ParseDigest(ipHash)
	if err != nil {
		c.log.Warn("Skipping on-chain registration, content digest is not a bytes32 value",
			slog.String("ipHash", ipHash), "err", err)
		return nil, nil
	}

	var hash [32]byte
	copy(hash[:], digest.Bytes())

	tx, err := c.contract.Transact(c.txOpts(ctx), "registerIP", hash, metadataURI)
	if err != nil {
		return nil, fmt.Errorf("registerIP transaction failed: %w", err)
	}

	c.log.Info("Submitted registerIP transaction",
		slog.String("txHash", tx.Hash().Hex()),
		slog.String("ipHash", ipHash))

	return &interfaces.MirrorReceipt{TxHash: tx.Hash().Hex()}, nil
}

// MirrorTransfer submits a transferIP transaction. Owners that are not valid
// hex addresses skip mirroring; the durable registry accepts any owner
// identifier but the contract does not.
func (c *Client) MirrorTransfer(ctx context.Context, id int64, newOwner, note string) (*interfaces.MirrorReceipt, error) {
	if !common.IsHexAddress(newOwner) {
		c.log.Warn("Skipping on-chain transfer, new owner is not an address",
			slog.Int64("id", id),
			slog.String("newOwner", newOwner))
		return nil, nil
	}

	tx, err := c.contract.Transact(c.txOpts(ctx), "transferIP",
		big.NewInt(id), common.HexToAddress(newOwner), note)
	if err != nil {
		return nil, fmt.Errorf("transferIP transaction failed: %w", err)
	}

	c.log.Info("Submitted transferIP transaction",
		slog.String("txHash", tx.Hash().Hex()),
		slog.Int64("id", id))

	return &interfaces.MirrorReceipt{TxHash: tx.Hash().Hex()}, nil
}

// MirrorLicense submits a setLicenseTerms transaction. Price must be a whole
// number of the chain's base unit and durationDays a whole number of days;
// values outside that shape skip mirroring rather than fail it.
func (c *Client) MirrorLicense(ctx context.Context, id int64, price, durationDays string) (*interfaces.MirrorReceipt, error) {
	priceWei, ok := new(big.Int).SetString(price, 10)
	if !ok || priceWei.Sign() < 0 {
		c.log.Warn("Skipping on-chain license, price is not a whole number",
			slog.Int64("id", id),
			slog.String("price", price))
		return nil, nil
	}

	days, ok := new(big.Int).SetString(durationDays, 10)
	if !ok || days.Sign() < 0 {
		c.log.Warn("Skipping on-chain license, duration is not a whole number of days",
			slog.Int64("id", id),
			slog.String("durationDays", durationDays))
		return nil, nil
	}
	durationSeconds := new(big.Int).Mul(days, big.NewInt(secondsPerDay))

	tx, err := c.contract.Transact(c.txOpts(ctx), "setLicenseTerms",
		big.NewInt(id), priceWei, durationSeconds)
	if err != nil {
		return nil, fmt.Errorf("setLicenseTerms transaction failed: %w", err)
	}

	c.log.Info("Submitted setLicenseTerms transaction",
		slog.String("txHash", tx.Hash().Hex()),
		slog.Int64("id", id))

	return &interfaces.MirrorReceipt{TxHash: tx.Hash().Hex()}, nil
}

func (c *Client) txOpts(ctx context.Context) *bind.TransactOpts {
	opts := *c.auth
	opts.Context = ctx
	return &opts
}
