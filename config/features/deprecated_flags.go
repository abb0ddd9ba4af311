package features

import "github.com/urfave/cli/v2"

// Deprecated flags list.
const deprecatedUsage = "DEPRECATED. DO NOT USE."

var (
	// To deprecate a feature flag, first copy the example below, then insert deprecated flag in `deprecatedFlags`.
	exampleDeprecatedFeatureFlag = &cli.StringFlag{
		Name:   "name",
		Usage:  deprecatedUsage,
		Hidden: true,
	}
	// Slashing protection is always on for both proposals and attestations.
	deprecatedEnableProtectProposer = &cli.BoolFlag{
		Name:   "enable-protect-proposer",
		Usage:  deprecatedUsage,
		Hidden: true,
	}
	deprecatedEnableProtectAttester = &cli.BoolFlag{
		Name:   "enable-protect-attester",
		Usage:  deprecatedUsage,
		Hidden: true,
	}
)

// deprecatedFlags holds the list of flags hidden from help output and
// complained about when set.
var deprecatedFlags = []cli.Flag{
	exampleDeprecatedFeatureFlag,
	deprecatedEnableProtectProposer,
	deprecatedEnableProtectAttester,
}
