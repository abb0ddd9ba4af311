package types_test

import (
	"reflect"
	"testing"

	types "github.com/pharoslabs/pharos/consensus-types/primitives"
)

func TestSSZBytes_HashTreeRoot(t *testing.T) {
	tests := []struct {
		name        string
		actualValue []byte
		root        []byte
	}{
		{
			name:        "random1",
			actualValue: hexDecodeOrDie(t, "503f26b9d91c71442aff46d0a9aa66dcd69443e0b3ed9e676b5bf8b6fa80a480"),
			root:        hexDecodeOrDie(t, "503f26b9d91c71442aff46d0a9aa66dcd69443e0b3ed9e676b5bf8b6fa80a480"),
		},
		{
			name:        "random2",
			actualValue: hexDecodeOrDie(t, "90bd5a4f2a24bda173d6249389f70a3cd23f907c43fb76f9b1f16a10ec102ab0"),
			root:        hexDecodeOrDie(t, "90bd5a4f2a24bda173d6249389f70a3cd23f907c43fb76f9b1f16a10ec102ab0"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := types.SSZBytes(tt.actualValue)
			htr, err := s.HashTreeRoot()
			if err != nil {
				t.Errorf("SSZBytes.HashTreeRoot() unexpected error = %v", err)
			}
			if !reflect.DeepEqual(tt.root, htr[:]) {
				t.Errorf("SSZBytes.HashTreeRoot() = %v, want %v", htr[:], tt.root)
			}
		})
	}
}
