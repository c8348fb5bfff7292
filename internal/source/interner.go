package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// StringID is a stable handle to interned text. Equal IDs imply equal text.
type StringID uint32

const NoStringID StringID = 0

// Reserved identifiers. The order must match reservedNames exactly:
// NewInterner asserts it on construction.
const (
	StrTrue StringID = iota + 1
	StrFalse
	StrValue
	StrBool
	StrStr
	StrInt
	StrFloat
	StrAny
	StrOk
	StrErr
	StrSome
	StrNone
	StrT
	StrE
	StrIterNext
	StrIterMutate
	StrOption
	StrResult
	StrRange
	StrPtr
	StrI8
	StrI16
	StrI32
	StrI64
	StrU8
	StrU16
	StrU32
	StrU64
	StrF32
	StrF64
	StrStartup
	StrMin
	StrMax
	StrSelf
)

var reservedNames = [...]string{
	StrTrue:       "true",
	StrFalse:      "false",
	StrValue:      "value",
	StrBool:       "bool",
	StrStr:        "str",
	StrInt:        "int",
	StrFloat:      "float",
	StrAny:        "any",
	StrOk:         "ok",
	StrErr:        "err",
	StrSome:       "some",
	StrNone:       "none",
	StrT:          "T",
	StrE:          "E",
	StrIterNext:   "__next__",
	StrIterMutate: "__mutate__",
	StrOption:     "Option",
	StrResult:     "Result",
	StrRange:      "Range",
	StrPtr:        "Ptr",
	StrI8:         "i8",
	StrI16:        "i16",
	StrI32:        "i32",
	StrI64:        "i64",
	StrU8:         "u8",
	StrU16:        "u16",
	StrU32:        "u32",
	StrU64:        "u64",
	StrF32:        "f32",
	StrF64:        "f64",
	StrStartup:    "startup",
	StrMin:        "min",
	StrMax:        "max",
	StrSelf:       "self",
}

// Interner deduplicates identifier text into StringIDs.
// It is owned by one analysis session and is not safe for concurrent use.
type Interner struct {
	byID  []string            // индекс -> строка (byID[0] = "" для NoStringID)
	index map[string]StringID // строка -> ID
}

// NewInterner returns an interner seeded with the reserved identifiers.
func NewInterner() *Interner {
	i := &Interner{
		byID:  make([]string, 1, 64+len(reservedNames)),
		index: make(map[string]StringID, 64+len(reservedNames)),
	}
	i.index[""] = NoStringID
	for want, name := range reservedNames {
		if want == 0 {
			continue
		}
		if got := i.Intern(name); int(got) != want {
			panic(fmt.Sprintf("interner: reserved %q got id %d, want %d", name, got, want))
		}
	}
	return i
}

// Intern returns the ID of s, inserting it if needed.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	value, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	// Собственная копия, чтобы не держать исходный буфер.
	cpy := string([]byte(s))
	id := StringID(value)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes is Intern for byte slices.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Concat interns the qualified path "a::b". An empty a yields b unchanged.
func (i *Interner) Concat(a, b StringID) StringID {
	if a == NoStringID {
		return b
	}
	return i.Intern(i.MustLookup(a) + "::" + i.MustLookup(b))
}

// Lookup returns the text for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on an unknown ID.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("interner: invalid string ID %d", id))
	}
	return s
}

// Has reports whether id was produced by this interner.
func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts interned strings including NoStringID.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a copy of all strings ordered by ID.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}

// EncodeMsgpack writes the strings in ID order; the index is rebuilt on decode.
func (i *Interner) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(i.byID)
}

// DecodeMsgpack restores an interner written by EncodeMsgpack. The reserved
// prefix must be intact, otherwise built-in lookups would silently break.
func (i *Interner) DecodeMsgpack(dec *msgpack.Decoder) error {
	var byID []string
	if err := dec.Decode(&byID); err != nil {
		return err
	}
	if len(byID) < len(reservedNames) {
		return fmt.Errorf("interner: truncated string table (%d entries)", len(byID))
	}
	for id, name := range reservedNames {
		if id != 0 && byID[id] != name {
			return fmt.Errorf("interner: reserved id %d is %q, want %q", id, byID[id], name)
		}
	}
	i.byID = byID
	i.index = make(map[string]StringID, len(byID))
	for id, s := range byID {
		value, err := safecast.Conv[uint32](id)
		if err != nil {
			return fmt.Errorf("interner overflow: %w", err)
		}
		i.index[s] = StringID(value)
	}
	return nil
}
