package ast

import (
	"fmt"

	"fortio.org/safecast"

	"margarine/internal/source"
)

// CheckSpans runs the span invariants of every root:
// 1) the file span is well-formed and, when the source was shipped, within its content;
// 2) every top-level node span lies inside the file span and the same file.
// A snapshot that breaks them would point diagnostics outside the source.
func (s *Snapshot) CheckSpans() error {
	sources := make(map[source.FileID]*source.File, len(s.Sources))
	for i := range s.Sources {
		sources[s.Sources[i].ID] = &s.Sources[i]
	}
	for _, root := range s.Roots {
		f := s.Tree.Files.Get(root)
		if f == nil {
			return fmt.Errorf("root file %d out of range", root)
		}
		if f.Span.End < f.Span.Start {
			return fmt.Errorf("root %d: inverted file span %v", root, f.Span)
		}
		if sf, ok := sources[f.Span.File]; ok {
			lenContent, err := safecast.Conv[uint32](len(sf.Content))
			if err != nil {
				return fmt.Errorf("len content overflow: %w", err)
			}
			if f.Span.End > lenContent {
				return fmt.Errorf("root %d: file span end beyond content: %d > %d", root, f.Span.End, lenContent)
			}
		}
		for _, n := range f.Body.Nodes {
			if n.Kind == NodeErr {
				continue
			}
			sp := s.Tree.NodeSpan(n)
			if sp.End < sp.Start {
				return fmt.Errorf("root %d: inverted node span %v", root, sp)
			}
			if !f.Span.Contains(sp) {
				return fmt.Errorf("root %d: node span %v is outside file span %v", root, sp, f.Span)
			}
		}
	}
	return nil
}
