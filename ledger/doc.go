// Package ledger mirrors registry events onto an IPRegistry contract on an
// Ethereum-compatible chain.
//
// Mirroring is strictly best-effort: the durable registry is the source of
// truth and a failed or skipped transaction never fails the registry
// operation that triggered it. The HTTP layer surfaces the outcome as a
// nullable field in its responses.
//
// The contract interface is fixed:
//
//	function registerIP(bytes32 ipHash, string calldata metadataURI) external returns (uint256)
//	function transferIP(uint256 id, address newOwner, string calldata note) external
//	function setLicenseTerms(uint256 id, uint256 price, uint256 duration) external
//
// License durations are given to the registry in days and converted to
// seconds for the contract.
package ledger
