package params

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/pharoslabs/pharos/testing/require"
)

func TestOverrideBeaconConfig(t *testing.T) {
	SetupTestConfigCleanup(t)
	cfg := BeaconConfig().Copy()
	cfg.SlotsPerEpoch = 5
	OverrideBeaconConfig(cfg)
	if c := BeaconConfig(); c.SlotsPerEpoch != 5 {
		t.Errorf("Shardcount in BeaconConfig incorrect. Wanted %d, got %d", 5, c.SlotsPerEpoch)
	}
}

func TestConfigCopy_IsolatesMutations(t *testing.T) {
	cfg := MainnetConfig()
	cp := cfg.Copy()
	cp.MaxAttestations = 1
	require.NotEqual(t, cfg.MaxAttestations, cp.MaxAttestations)
	require.Equal(t, uint64(128), cfg.MaxAttestations)
}

func TestMinimalConfig_DiffersFromMainnet(t *testing.T) {
	minimal := MinimalSpecConfig()
	require.Equal(t, "minimal", minimal.ConfigName)
	require.NotEqual(t, MainnetConfig().SlotsPerEpoch, minimal.SlotsPerEpoch)
	require.NotEqual(t, MainnetConfig().ShuffleRoundCount, minimal.ShuffleRoundCount)
}

func TestLoadChainConfigFile(t *testing.T) {
	SetupTestConfigCleanup(t)
	yamlContent := []byte(`
PRESET_BASE: 'minimal'
CONFIG_NAME: 'testnet'
SLOTS_PER_EPOCH: 4
SECONDS_PER_SLOT: 2
SHUFFLE_ROUND_COUNT: 10
GENESIS_FORK_VERSION: 0x00000fff
`)
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, ioutil.WriteFile(file, yamlContent, 0644))
	LoadChainConfigFile(file)
	cfg := BeaconConfig()
	require.Equal(t, "testnet", cfg.ConfigName)
	require.Equal(t, uint64(2), cfg.SecondsPerSlot)
	require.Equal(t, 4, int(cfg.SlotsPerEpoch))
	require.Equal(t, 2, int(cfg.SqrRootSlotsPerEpoch))
	require.DeepEqual(t, []byte{0, 0, 15, 255}, cfg.GenesisForkVersion)
}
