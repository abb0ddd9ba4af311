package version

const (
	Phase0 = iota
)

func String(version int) string {
	switch version {
	case Phase0:
		return "phase0"
	default:
		return "unknown version"
	}
}
