// Command httpserver runs the IP registry API server.
//
// The durable registry lives in a single JSON document (--registry-path).
// Uploaded files go to one or more content-addressed backends
// (--storage-backend, repeatable). When --rpc-addr and --contract-address
// are set, new registrations, transfers, and license terms are mirrored
// best-effort onto the IPRegistry contract, signed with the key from
// --wallet-key or a Vault secret.
//
// Credentials are typically carried in a .env file (see --env-file):
//
//	SEPOLIA_RPC_URL=https://sepolia.infura.io/v3/...
//	CONTRACT_ADDRESS=0x...
//	WALLET_PRIVATE_KEY=...
//	REGISTRY_PATH=data/registry.json
package main
