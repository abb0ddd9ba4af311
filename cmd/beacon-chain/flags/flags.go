// Package flags defines beacon-node specific runtime flags for
// setting important values such as ports, interop genesis options and more.
package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	// MonitoringPortFlag defines the http port used to serve prometheus metrics.
	MonitoringPortFlag = &cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listening and respond metrics for prometheus.",
		Value: 8080,
	}
	// InteropGenesisStateFlag defines a flag for the beacon node to load genesis state via an SSZ file.
	InteropGenesisStateFlag = &cli.StringFlag{
		Name:  "interop-genesis-state",
		Usage: "The genesis state file (.ssz) to load from",
	}
	// InteropGenesisTimeFlag specifies genesis time for state generation.
	InteropGenesisTimeFlag = &cli.Uint64Flag{
		Name: "interop-genesis-time",
		Usage: "Specify the genesis time for interop genesis state generation. Must be used with " +
			"--interop-num-validators",
	}
	// InteropNumValidatorsFlag specifies number of genesis validators for state generation.
	InteropNumValidatorsFlag = &cli.Uint64Flag{
		Name:  "interop-num-validators",
		Usage: "Specify number of genesis validators to generate for interop. Must be used with --interop-genesis-time",
	}
)
