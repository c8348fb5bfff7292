package fuzztests

import (
	"bytes"
	"testing"

	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/sema"
)

func FuzzDecodeSnapshot(f *testing.F) {
	addSnapshotSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		_, _ = ast.DecodeSnapshot(bytes.NewReader(input))
	})
}

// FuzzCheckSnapshot runs accepted snapshots through the checker. Limits are
// kept low so deep random trees stay cheap.
func FuzzCheckSnapshot(f *testing.F) {
	addSnapshotSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		snap, err := ast.DecodeSnapshot(bytes.NewReader(input))
		if err != nil {
			return
		}
		bag := diag.NewBag(128)
		for _, root := range snap.Roots {
			res := sema.Check(snap.Tree, snap.Strings, root, sema.Options{
				Reporter: diag.BagReporter{Bag: bag},
				MaxDepth: 256,
			})
			if res.Table == nil {
				t.Fatalf("sema returned no table")
			}
		}
	})
}
