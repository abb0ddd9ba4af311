package features

import (
	"testing"

	"github.com/pharoslabs/pharos/testing/assert"
)

func TestInitFeatureConfig(t *testing.T) {
	defer Init(&Flags{})
	cfg := &Flags{
		SkipBLSVerify: true,
	}
	Init(cfg)
	c := Get()
	assert.Equal(t, true, c.SkipBLSVerify)
}

func TestInitWithReset(t *testing.T) {
	defer Init(&Flags{})
	Init(&Flags{
		SkipBLSVerify: true,
	})
	assert.Equal(t, true, Get().SkipBLSVerify)

	// Overwrite the value with new feature config.
	resetCfg := InitWithReset(&Flags{
		SkipBLSVerify: false,
	})
	assert.Equal(t, false, Get().SkipBLSVerify)

	// Reset back to previous flags.
	resetCfg()
	assert.Equal(t, true, Get().SkipBLSVerify)
}
