// Package herumi implements a go-wrapper around the herumi library
// implementing the BLS12-381 curve and signature scheme. This package
// exposes a public API for verifying and aggregating BLS signatures
// used by Ethereum 2.0.
package herumi
