package diagfmt

import (
	"path/filepath"
	"strings"

	"margarine/internal/source"
)

// autoPathLimit is the length above which PathModeAuto shortens absolute paths.
const autoPathLimit = 48

func formatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			return filepath.Base(path)
		}
		return path
	}
}

// sourceOf returns the file a span points into, or nil when the snapshot
// carried no source for it.
func (in Input) sourceOf(span source.Span) *source.File {
	if in.Files == nil {
		return nil
	}
	return in.Files.Get(span.File)
}

// pathOf names the location of span, falling back to the snapshot path.
func (in Input) pathOf(span source.Span, mode PathMode) string {
	if f := in.sourceOf(span); f != nil {
		return formatPath(f.Path, mode)
	}
	return formatPath(in.Path, mode)
}

// position resolves span to line/col. ok is false without a source file.
func (in Input) position(span source.Span) (start, end source.LineCol, ok bool) {
	if in.sourceOf(span) == nil {
		return source.LineCol{}, source.LineCol{}, false
	}
	start, end = in.Files.Resolve(span)
	return start, end, true
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// filepathToURI turns a path into a relative or file:// URI reference.
func filepathToURI(path string) string {
	slashed := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		return "file://" + slashed
	}
	return slashed
}
