// Package protoarray implements proto array fork choice as outlined:
// https://github.com/protolambda/lmd-ghost#array-based-stateful-dag-proto_array
// This was motivated by the the original implementation by Sigma Prime here:
// https://github.com/sigp/lighthouse/pull/804
package protoarray
