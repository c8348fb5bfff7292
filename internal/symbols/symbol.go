package symbols

import (
	"margarine/internal/ast"
	"margarine/internal/source"
)

type SymbolKind uint8

const (
	// SymbolPending: name and generics are known, the body is not filled yet.
	SymbolPending SymbolKind = iota
	SymbolContainer
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolPending:
		return "pending"
	case SymbolContainer:
		return "container"
	case SymbolFunction:
		return "function"
	default:
		return "invalid"
	}
}

type ContainerKind uint8

const (
	ContainerStruct ContainerKind = iota
	ContainerEnum
	ContainerTuple
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerStruct:
		return "struct"
	case ContainerEnum:
		return "enum"
	case ContainerTuple:
		return "tuple"
	default:
		return "invalid"
	}
}

// Field is a struct field, an enum variant or a tuple slot. Tuple slots are
// named by decimal index.
type Field struct {
	Name source.StringID
	Type Generic
}

type Container struct {
	Kind   ContainerKind
	Fields []Field
}

// FieldIndex returns the position of the named field or -1.
func (c *Container) FieldIndex(name source.StringID) int {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

type FunctionArg struct {
	Name  source.StringID
	Type  Generic
	Inout bool
}

type FunctionOrigin uint8

const (
	OriginUserDefined FunctionOrigin = iota
	OriginExtern
	OriginEnumVariant
	OriginBuiltin
)

func (o FunctionOrigin) String() string {
	switch o {
	case OriginUserDefined:
		return "user"
	case OriginExtern:
		return "extern"
	case OriginEnumVariant:
		return "variant"
	case OriginBuiltin:
		return "builtin"
	default:
		return "invalid"
	}
}

type Function struct {
	Args   []FunctionArg
	Ret    Generic
	Origin FunctionOrigin
	// Decl is set for OriginUserDefined.
	Decl ast.DeclID
	// ExternPath is set for OriginExtern.
	ExternPath source.StringID
	// Variant is the enum variant index for OriginEnumVariant.
	Variant int
}

// Caps are the operator capabilities of a type.
type Caps uint8

const (
	CapArith Caps = 1 << iota
	CapBitwise
	CapOrdering
	CapEquality
)

func (c Caps) Has(flag Caps) bool { return c&flag == flag }

type Symbol struct {
	// Name is the last path segment, Path the fully qualified a::b::Name.
	Name      source.StringID
	Path      source.StringID
	Generics  []source.StringID
	Namespace NamespaceID
	Span      source.Span
	Kind      SymbolKind
	Container Container
	Function  Function
	Caps      Caps
}

func (s *Symbol) IsContainer(kind ContainerKind) bool {
	return s.Kind == SymbolContainer && s.Container.Kind == kind
}
