package cmd

import (
	"github.com/pharoslabs/pharos/config/params"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "cmd")

// Flags is a struct to represent which features the client will perform on runtime.
type Flags struct {
	// Configuration related flags.
	MinimalConfig bool // MinimalConfig as defined in the spec.
	MaxGoroutines int  // MaxGoroutines is the upper limit of goroutines tolerated before a health check fails.
}

var sharedConfig *Flags

// Get retrieves the shared cmd config.
func Get() *Flags {
	if sharedConfig == nil {
		return &Flags{MaxGoroutines: MaxGoroutines.Value}
	}
	return sharedConfig
}

// Init sets the global config equal to the config that is passed in.
func Init(c *Flags) {
	sharedConfig = c
}

// InitWithReset sets the global config and returns a function that is used to reset the configuration.
func InitWithReset(c *Flags) func() {
	resetFunc := func() {
		Init(nil)
	}
	Init(c)
	return resetFunc
}

// ConfigureBeaconChain sets the global cmd config for the beacon node.
func ConfigureBeaconChain(ctx *cli.Context) {
	cfg := newConfig(ctx)
	Init(cfg)
}

// ConfigureValidator sets the global cmd config for the validator node.
func ConfigureValidator(ctx *cli.Context) {
	cfg := newConfig(ctx)
	Init(cfg)
}

func newConfig(ctx *cli.Context) *Flags {
	cfg := Get()
	if ctx.Bool(MinimalConfigFlag.Name) {
		log.Warn("Using minimal config")
		cfg.MinimalConfig = true
		params.UseMinimalConfig()
	}
	if ctx.IsSet(MaxGoroutines.Name) {
		cfg.MaxGoroutines = ctx.Int(MaxGoroutines.Name)
	}
	return cfg
}
