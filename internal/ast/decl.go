package ast

import (
	"margarine/internal/source"
)

type DeclKind uint8

const (
	DeclStruct DeclKind = iota
	DeclEnum
	DeclFunction
	DeclImpl
	DeclUse
	DeclModule
	DeclExtern
	DeclAttribute
)

type Decl struct {
	Kind    DeclKind
	Span    source.Span
	Payload PayloadID
}

// StructKind is carried through for downstream consumers; analysis treats all kinds alike.
type StructKind uint8

const (
	StructNormal StructKind = iota
	StructComponent
	StructResource
)

type StructField struct {
	Name source.StringID
	Type TypeID
	Span source.Span
}

type StructDecl struct {
	Kind     StructKind
	Name     source.StringID
	Header   source.Span
	Fields   []StructField
	Generics []source.StringID
}

type EnumVariant struct {
	Name   source.StringID
	Number uint16
	Type   TypeID
	Span   source.Span
	// ImplicitUnit: the variant was written without a payload; Type is unit.
	ImplicitUnit bool
}

type EnumDecl struct {
	Name     source.StringID
	Header   source.Span
	Variants []EnumVariant
	Generics []source.StringID
}

type FnArg struct {
	Name  source.StringID
	Type  TypeID
	Inout bool
	Span  source.Span
}

type FnSig struct {
	IsSystem bool
	Name     source.StringID
	Span     source.Span
	Args     []FnArg
	Generics []source.StringID
	Ret      TypeID
}

// FnDecl: Impl is the impl target type when the function is a method, else NoTypeID.
type FnDecl struct {
	Sig  FnSig
	Body Block
	Impl TypeID
}

type ImplDecl struct {
	Type     TypeID
	Generics []source.StringID
	Body     Block
}

type UseKind uint8

const (
	// UseBringName: use a
	UseBringName UseKind = iota
	// UseList: use a::{b, c}
	UseList
	// UseAll: use a::*
	UseAll
)

type UseItem struct {
	Name  source.StringID
	Kind  UseKind
	Items []UseItem
	Span  source.Span
}

type UseDecl struct {
	Item UseItem
}

type ModuleDecl struct {
	Name   source.StringID
	Header source.Span
	Body   Block
}

type ExternFn struct {
	Name source.StringID
	Path source.StringID
	Args []FnArg
	Ret  TypeID
	Span source.Span
}

type ExternDecl struct {
	Functions []ExternFn
}

type AttrDecl struct {
	Attr     source.StringID
	AttrSpan source.Span
	Target   DeclID
}

type Decls struct {
	Arena   *Arena[Decl]
	Structs *Arena[StructDecl]
	Enums   *Arena[EnumDecl]
	Fns     *Arena[FnDecl]
	Impls   *Arena[ImplDecl]
	Uses    *Arena[UseDecl]
	Modules *Arena[ModuleDecl]
	Externs *Arena[ExternDecl]
	Attrs   *Arena[AttrDecl]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 7
	}
	small := capHint/8 + 1
	return &Decls{
		Arena:   NewArena[Decl](capHint),
		Structs: NewArena[StructDecl](capHint / 2),
		Enums:   NewArena[EnumDecl](small),
		Fns:     NewArena[FnDecl](capHint),
		Impls:   NewArena[ImplDecl](small),
		Uses:    NewArena[UseDecl](small),
		Modules: NewArena[ModuleDecl](small),
		Externs: NewArena[ExternDecl](small),
		Attrs:   NewArena[AttrDecl](small),
	}
}

func (d *Decls) new(kind DeclKind, span source.Span, payload PayloadID) DeclID {
	return DeclID(d.Arena.Allocate(Decl{Kind: kind, Span: span, Payload: payload}))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

func (d *Decls) payloadOf(id DeclID, kind DeclKind) (uint32, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != kind {
		return 0, false
	}
	return uint32(decl.Payload), true
}

func (d *Decls) NewStruct(span source.Span, data StructDecl) DeclID {
	return d.new(DeclStruct, span, PayloadID(d.Structs.Allocate(data)))
}

func (d *Decls) Struct(id DeclID) (*StructDecl, bool) {
	p, ok := d.payloadOf(id, DeclStruct)
	if !ok {
		return nil, false
	}
	return d.Structs.Get(p), true
}

func (d *Decls) NewEnum(span source.Span, data EnumDecl) DeclID {
	return d.new(DeclEnum, span, PayloadID(d.Enums.Allocate(data)))
}

func (d *Decls) Enum(id DeclID) (*EnumDecl, bool) {
	p, ok := d.payloadOf(id, DeclEnum)
	if !ok {
		return nil, false
	}
	return d.Enums.Get(p), true
}

func (d *Decls) NewFn(span source.Span, data FnDecl) DeclID {
	return d.new(DeclFunction, span, PayloadID(d.Fns.Allocate(data)))
}

func (d *Decls) Fn(id DeclID) (*FnDecl, bool) {
	p, ok := d.payloadOf(id, DeclFunction)
	if !ok {
		return nil, false
	}
	return d.Fns.Get(p), true
}

func (d *Decls) NewImpl(span source.Span, data ImplDecl) DeclID {
	return d.new(DeclImpl, span, PayloadID(d.Impls.Allocate(data)))
}

func (d *Decls) Impl(id DeclID) (*ImplDecl, bool) {
	p, ok := d.payloadOf(id, DeclImpl)
	if !ok {
		return nil, false
	}
	return d.Impls.Get(p), true
}

func (d *Decls) NewUse(span source.Span, item UseItem) DeclID {
	return d.new(DeclUse, span, PayloadID(d.Uses.Allocate(UseDecl{Item: item})))
}

func (d *Decls) Use(id DeclID) (*UseDecl, bool) {
	p, ok := d.payloadOf(id, DeclUse)
	if !ok {
		return nil, false
	}
	return d.Uses.Get(p), true
}

func (d *Decls) NewModule(span source.Span, data ModuleDecl) DeclID {
	return d.new(DeclModule, span, PayloadID(d.Modules.Allocate(data)))
}

func (d *Decls) Module(id DeclID) (*ModuleDecl, bool) {
	p, ok := d.payloadOf(id, DeclModule)
	if !ok {
		return nil, false
	}
	return d.Modules.Get(p), true
}

func (d *Decls) NewExtern(span source.Span, fns []ExternFn) DeclID {
	return d.new(DeclExtern, span, PayloadID(d.Externs.Allocate(ExternDecl{Functions: fns})))
}

func (d *Decls) Extern(id DeclID) (*ExternDecl, bool) {
	p, ok := d.payloadOf(id, DeclExtern)
	if !ok {
		return nil, false
	}
	return d.Externs.Get(p), true
}

func (d *Decls) NewAttr(span source.Span, data AttrDecl) DeclID {
	return d.new(DeclAttribute, span, PayloadID(d.Attrs.Allocate(data)))
}

func (d *Decls) Attr(id DeclID) (*AttrDecl, bool) {
	p, ok := d.payloadOf(id, DeclAttribute)
	if !ok {
		return nil, false
	}
	return d.Attrs.Get(p), true
}
