package ast

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"margarine/internal/source"
)

// SnapshotSchema is bumped on any incompatible change to the tree layout.
const SnapshotSchema uint16 = 1

var ErrSnapshotSchema = errors.New("tree snapshot schema mismatch")

// Snapshot is the on-disk form (.mtree) of a parsed unit: the string table,
// the tree arenas, the root files, and the sources they were parsed from.
type Snapshot struct {
	Schema  uint16
	Strings *source.Interner
	Tree    *Builder
	Roots   []FileID
	Sources []source.File
}

func (s *Snapshot) Encode(w io.Writer) error {
	if s.Schema == 0 {
		s.Schema = SnapshotSchema
	}
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode tree snapshot: %w", err)
	}
	return nil
}

func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode tree snapshot: %w", err)
	}
	if s.Schema != SnapshotSchema {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotSchema, s.Schema, SnapshotSchema)
	}
	if s.Strings == nil || s.Tree == nil {
		return nil, errors.New("decode tree snapshot: missing string table or tree")
	}
	if err := s.CheckSpans(); err != nil {
		return nil, fmt.Errorf("decode tree snapshot: %w", err)
	}
	return &s, nil
}

func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snap, err := DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func (s *Snapshot) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
