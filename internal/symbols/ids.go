package symbols

// SymbolID identifies a declared entity in the table.
type SymbolID uint32

// NamespaceID identifies a namespace.
type NamespaceID uint32

// ScopeID identifies an immutable scope frame.
type ScopeID uint32

// VarID identifies a type-variable slot.
type VarID uint32

// GensID identifies a resolved generics-argument list. NoGensID is the empty list.
type GensID uint32

const (
	NoSymbolID    SymbolID    = 0
	NoNamespaceID NamespaceID = 0
	NoScopeID     ScopeID     = 0
	NoVarID       VarID       = 0
	NoGensID      GensID      = 0
)

func (id SymbolID) IsValid() bool    { return id != NoSymbolID }
func (id NamespaceID) IsValid() bool { return id != NoNamespaceID }
func (id ScopeID) IsValid() bool     { return id != NoScopeID }
func (id VarID) IsValid() bool       { return id != NoVarID }

// Built-in symbols. NewTable allocates them first, in this order.
const (
	SymUnit SymbolID = iota + 1
	SymNever
	SymError
	SymBool
	SymI8
	SymI16
	SymI32
	SymI64
	SymU8
	SymU16
	SymU32
	SymU64
	SymF32
	SymF64
	SymStr
	SymRange
	SymPtr
	SymOption
	SymResult

	SymInt   = SymI64
	SymFloat = SymF64
)

func (id SymbolID) IsSignedInt() bool { return id >= SymI8 && id <= SymI64 }
func (id SymbolID) IsInt() bool       { return id >= SymI8 && id <= SymU64 }
func (id SymbolID) IsFloat() bool     { return id == SymF32 || id == SymF64 }
func (id SymbolID) IsNum() bool       { return id.IsInt() || id.IsFloat() }
