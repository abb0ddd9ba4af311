// Package eth defines the consensus containers exchanged between the
// beacon node and its validators: attestations, blocks, slashings,
// deposits, voluntary exits, and the beacon state itself. The structs
// here are plain Go values; hashing follows the Simple Serialize
// merkleization rules via the companion *.ssz.go files.
package eth
