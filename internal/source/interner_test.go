package source

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestInternerIdempotent(t *testing.T) {
	in := NewInterner()

	for _, s := range []string{"hello", "world", "", "Point", "a::b", "значение"} {
		first := in.Intern(s)
		second := in.Intern(s)
		if first != second {
			t.Fatalf("Intern(%q) returned %d then %d", s, first, second)
		}
		if got := in.MustLookup(first); got != s {
			t.Fatalf("Lookup(Intern(%q)) = %q", s, got)
		}
	}
}

func TestInternerReservedIDs(t *testing.T) {
	in := NewInterner()
	cases := map[StringID]string{
		StrTrue:       "true",
		StrBool:       "bool",
		StrInt:        "int",
		StrOk:         "ok",
		StrSome:       "some",
		StrIterNext:   "__next__",
		StrIterMutate: "__mutate__",
		StrSelf:       "self",
	}
	for id, want := range cases {
		if got := in.MustLookup(id); got != want {
			t.Fatalf("reserved id %d = %q, want %q", id, got, want)
		}
		if again := in.Intern(want); again != id {
			t.Fatalf("Intern(%q) = %d, want reserved %d", want, again, id)
		}
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
}

func TestInternerConcat(t *testing.T) {
	in := NewInterner()
	a := in.Intern("main")
	b := in.Intern("Point")

	got := in.MustLookup(in.Concat(a, b))
	if got != "main::Point" {
		t.Fatalf("Concat = %q", got)
	}
	if in.Concat(NoStringID, b) != b {
		t.Fatalf("Concat with empty prefix must return the name unchanged")
	}
}

func TestInternerCopiesBytes(t *testing.T) {
	in := NewInterner()
	buf := []byte("original")
	id := in.InternBytes(buf)
	buf[0] = 'X'
	if s := in.MustLookup(id); s != "original" {
		t.Fatalf("interner must keep its own copy, got %q", s)
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	in := NewInterner()
	defer func() {
		if recover() == nil {
			t.Fatalf("MustLookup must panic on an unknown id")
		}
	}()
	in.MustLookup(StringID(1 << 20))
}

func TestInternerMsgpackKeepsIDs(t *testing.T) {
	in := NewInterner()
	ids := make([]StringID, 0, 16)
	for i := range 16 {
		ids = append(ids, in.Intern(fmt.Sprintf("name_%d", i)))
	}

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	restored := &Interner{}
	if err := msgpack.NewDecoder(&buf).Decode(restored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i, id := range ids {
		want := fmt.Sprintf("name_%d", i)
		if got := restored.MustLookup(id); got != want {
			t.Fatalf("id %d restored as %q, want %q", id, got, want)
		}
		if restored.Intern(want) != id {
			t.Fatalf("restored index lost %q", want)
		}
	}
}

func TestInternerDecodeRejectsForeignTable(t *testing.T) {
	var buf bytes.Buffer
	table := make([]string, len(reservedNames))
	if err := msgpack.NewEncoder(&buf).Encode(table); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := msgpack.NewDecoder(&buf).Decode(&Interner{}); err == nil {
		t.Fatalf("expected an error for a table without reserved names")
	}
}

func BenchmarkInternerInternDuplicate(b *testing.B) {
	in := NewInterner()
	in.Intern("duplicate_string")
	for b.Loop() {
		in.Intern("duplicate_string")
	}
}
