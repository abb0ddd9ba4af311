package keymanager

import (
	"testing"

	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
)

func TestKind_RoundTrip(t *testing.T) {
	for _, kind := range []Kind{Local, Derived, Interop} {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ParseKind("remote")
	require.ErrorContains(t, "not an allowed keymanager", err)
}
