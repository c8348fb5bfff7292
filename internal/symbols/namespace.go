package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"margarine/internal/source"
)

// NSEntry is a name bound in a namespace. Err marks a name that was
// redefined; lookups of it must not produce further diagnostics.
type NSEntry struct {
	Symbol   SymbolID
	Err      bool
	Imported bool
}

// Namespace maps names to symbols and to child namespaces. Insertion order
// is kept so wildcard imports are deterministic.
type Namespace struct {
	Path     source.StringID
	syms     map[source.StringID]NSEntry
	symOrder []source.StringID
	nss      map[source.StringID]NamespaceID
	nsOrder  []source.StringID
}

func newNamespace(path source.StringID) Namespace {
	return Namespace{
		Path: path,
		syms: make(map[source.StringID]NSEntry),
		nss:  make(map[source.StringID]NamespaceID),
	}
}

func (ns *Namespace) Sym(name source.StringID) (NSEntry, bool) {
	e, ok := ns.syms[name]
	return e, ok
}

func (ns *Namespace) putSym(name source.StringID, e NSEntry) {
	if _, ok := ns.syms[name]; !ok {
		ns.symOrder = append(ns.symOrder, name)
	}
	ns.syms[name] = e
}

func (ns *Namespace) AddSym(name source.StringID, id SymbolID) {
	ns.putSym(name, NSEntry{Symbol: id})
}

func (ns *Namespace) AddImportSym(name source.StringID, id SymbolID) {
	ns.putSym(name, NSEntry{Symbol: id, Imported: true})
}

// SetErrSym poisons name, inserting it if needed.
func (ns *Namespace) SetErrSym(name source.StringID) {
	e := ns.syms[name]
	e.Err = true
	ns.putSym(name, e)
}

func (ns *Namespace) NS(name source.StringID) (NamespaceID, bool) {
	id, ok := ns.nss[name]
	return id, ok
}

func (ns *Namespace) AddNS(name source.StringID, id NamespaceID) {
	if _, ok := ns.nss[name]; !ok {
		ns.nsOrder = append(ns.nsOrder, name)
	}
	ns.nss[name] = id
}

// AddImportNS is AddNS that never replaces an existing child.
func (ns *Namespace) AddImportNS(name source.StringID, id NamespaceID) {
	if _, ok := ns.nss[name]; ok {
		return
	}
	ns.AddNS(name, id)
}

// SymNames returns bound symbol names in insertion order. READONLY.
func (ns *Namespace) SymNames() []source.StringID { return ns.symOrder }

// NSNames returns child namespace names in insertion order. READONLY.
func (ns *Namespace) NSNames() []source.StringID { return ns.nsOrder }

// Namespaces is the namespace arena. Index 0 is reserved.
type Namespaces struct {
	data []Namespace
}

func NewNamespaces(capacity uint32) *Namespaces {
	if capacity == 0 {
		capacity = 32
	}
	return &Namespaces{data: make([]Namespace, 1, capacity+1)}
}

func (n *Namespaces) New(path source.StringID) NamespaceID {
	value, err := safecast.Conv[uint32](len(n.data))
	if err != nil {
		panic(fmt.Errorf("namespaces arena overflow: %w", err))
	}
	n.data = append(n.data, newNamespace(path))
	return NamespaceID(value)
}

func (n *Namespaces) Get(id NamespaceID) *Namespace {
	if !id.IsValid() || int(id) >= len(n.data) {
		return nil
	}
	return &n.data[id]
}

func (n *Namespaces) Len() int { return len(n.data) - 1 }
