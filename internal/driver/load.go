package driver

import (
	"errors"
	"fmt"
	"io/fs"

	"margarine/internal/ast"
	"margarine/internal/diag"
	"margarine/internal/source"
)

// LoadUnit reads a tree snapshot and restores its source files. An
// unreadable file becomes an IOLoadFileError diagnostic and a malformed one
// IOSnapshotCorrupt; the returned unit then has no snapshot.
func LoadUnit(path string, maxDiagnostics int) *Unit {
	unit := &Unit{Path: path, Files: source.NewFileSet(), Bag: diag.NewBag(maxDiagnostics)}

	snap, err := ast.LoadSnapshot(path)
	if err != nil {
		code := diag.IOSnapshotCorrupt
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			code = diag.IOLoadFileError
		}
		unit.Bag.Add(diag.NewError(code, source.Span{}).WithDetail(err.Error()))
		return unit
	}
	for _, f := range snap.Sources {
		if err := unit.Files.AddFile(f); err != nil {
			unit.Bag.Add(diag.NewError(diag.IOSnapshotCorrupt, source.Span{}).
				WithDetail(fmt.Sprintf("%s: %v", path, err)))
			return unit
		}
	}
	unit.Snapshot = snap
	return unit
}
