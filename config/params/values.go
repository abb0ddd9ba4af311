package params

const (
	Mainnet ConfigName = iota
	Minimal
	EndToEnd
)

// ConfigNames provides network configuration names.
var ConfigNames = map[ConfigName]string{
	Mainnet:  "mainnet",
	Minimal:  "minimal",
	EndToEnd: "end-to-end",
}

// ConfigName enum describes the type of known network in use.
type ConfigName int

func (n ConfigName) String() string {
	s, ok := ConfigNames[n]
	if !ok {
		return "undefined"
	}
	return s
}

// AllConfigs returns every known chain configuration, keyed by name.
func AllConfigs() map[ConfigName]*BeaconChainConfig {
	all := make(map[ConfigName]*BeaconChainConfig)
	for name := range ConfigNames {
		var cfg *BeaconChainConfig
		switch name {
		case Mainnet:
			cfg = MainnetConfig()
		case Minimal:
			cfg = MinimalSpecConfig()
		case EndToEnd:
			cfg = E2ETestConfig()
		}
		cfg = cfg.Copy()
		cfg.InitializeForkSchedule()
		all[name] = cfg
	}
	return all
}
