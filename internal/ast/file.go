package ast

import (
	"margarine/internal/source"
)

// File is the top-level block of one parsed source file.
type File struct {
	Span source.Span
	Body Block
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span: sp,
		Body: Block{Nodes: make([]NodeID, 0), Span: sp},
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
