package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	vault "github.com/hashicorp/vault/api"
)

// ErrNoSigningKey is returned when no wallet key source yields a key.
var ErrNoSigningKey = errors.New("no signing key available")

// ParseSigningKey decodes a hex-encoded secp256k1 private key, accepting an
// optional 0x prefix. This is the format of the WALLET_PRIVATE_KEY
// environment variable.
func ParseSigningKey(hexKey string) (*ecdsa.PrivateKey, error) {
	clean := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if clean == "" {
		return nil, ErrNoSigningKey
	}

	key, err := crypto.HexToECDSA(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet private key: %w", err)
	}
	return key, nil
}

// VaultKeySource reads the wallet signing key from a HashiCorp Vault KV v2
// secret. The secret must carry the hex-encoded key under the "private_key"
// field.
type VaultKeySource struct {
	client     *vault.Client
	mountPath  string
	secretPath string
}

// NewVaultKeySource creates a key source for the Vault server at address,
// authenticated with token.
func NewVaultKeySource(address, token, mountPath, secretPath string) (*VaultKeySource, error) {
	config := vault.DefaultConfig()
	config.Address = address

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(token)

	return &VaultKeySource{
		client:     client,
		mountPath:  mountPath,
		secretPath: secretPath,
	}, nil
}

// SigningKey fetches and decodes the wallet key from Vault.
func (v *VaultKeySource) SigningKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	secret, err := v.client.KVv2(v.mountPath).Get(ctx, v.secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet key from vault: %w", err)
	}

	raw, ok := secret.Data["private_key"].(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("%w: vault secret %s/%s has no private_key field",
			ErrNoSigningKey, v.mountPath, v.secretPath)
	}

	return ParseSigningKey(raw)
}
