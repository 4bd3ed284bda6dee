// Package scope implements the analyser's scope tree as an arena of scopes
// addressed by small integer handles, per spec.md §9's design note: scopes
// form a graph with back-edges to their parent (and, for impl blocks, to
// their target type), which is exactly the "one genuine cycle-prone shape"
// called out in spec.md §5. Rather than reference-counted interior
// mutability, every cross-scope reference here is a Handle into a single
// Arena that outlives the whole analysis, so handles never dangle and
// scopes stay trivially copyable value types.
package scope

import "github.com/matter-labs/zinc-sub006/types"

// Handle addresses a Scope within an Arena. The zero Handle is always valid:
// arenas reserve index 0 for the root scope, so Handle(0) is always the
// module root, not "no scope".
type Handle int

// Kind tags what an Item declares, per spec.md §3.5.
type Kind int

const (
	KindVariable Kind = iota
	KindConstant
	KindTypeAlias
	KindStruct
	KindEnum
	KindFunction
	KindModule
	KindContract
	KindImpl
)

// Item is one named entry in a Scope, per spec.md §3.5.
type Item struct {
	Kind Kind
	Name string

	// Type is the item's type: a variable's declared type, a function's
	// signature (types.Function), a struct/enum/contract's own type, etc.
	Type types.Type

	// Address is the data-stack address of a variable, assigned by the
	// generator once it lays out a function frame; -1 until then.
	Address int
	// Mutable is set for "let mut" bindings.
	Mutable bool

	// Value holds a folded constant for KindConstant items (a
	// *semantic.Constant in practice; kept as `any` here to avoid an import
	// cycle between scope and semantic).
	Value any

	// TypeID is the globally unique function id for KindFunction items,
	// per spec.md §3.5/§4.3.8 ("Type id").
	TypeID int

	// Inner is the Handle of the scope a module/contract/impl item owns
	// (its body), or -1 if not applicable.
	Inner Handle

	// Declared reports whether the item has been fully defined yet
	// (spec.md §4.3.2: declaration pass registers a placeholder before
	// definition).
	Declared bool
}

// Scope is a named table mapping identifiers to Items, with a Parent
// handle forming a tree (spec.md §3.5).
type Scope struct {
	Parent Handle
	HasParent bool
	Name   string // "" for anonymous block scopes
	items  map[string]*Item
}

// Arena owns every Scope created during one compilation.
type Arena struct {
	scopes []*Scope
}

// NewArena creates an arena with scope 0 pre-allocated as the root.
func NewArena() *Arena {
	a := &Arena{}
	a.scopes = append(a.scopes, &Scope{items: make(map[string]*Item)})
	return a
}

// Root returns the handle of the arena's root scope.
func (a *Arena) Root() Handle { return Handle(0) }

// New creates a child scope of parent and returns its handle.
func (a *Arena) New(parent Handle, name string) Handle {
	a.scopes = append(a.scopes, &Scope{Parent: parent, HasParent: true, Name: name, items: make(map[string]*Item)})
	return Handle(len(a.scopes) - 1)
}

// Scope dereferences a handle. It panics on an out-of-range handle: every
// handle in circulation was minted by this same arena, so an invalid one
// means a caller kept a handle past the arena's lifetime, an invariant
// violation.
func (a *Arena) Scope(h Handle) *Scope {
	return a.scopes[h]
}

// Declare adds item to the scope h, returning false if the name is already
// bound in that scope (shadowing across scopes is fine; redeclaration
// within one scope is not, per spec.md's declaration-pass semantics).
func (a *Arena) Declare(h Handle, item *Item) bool {
	s := a.scopes[h]
	if _, exists := s.items[item.Name]; exists {
		return false
	}
	s.items[item.Name] = item
	return true
}

// Lookup searches h and its ancestors for name, per spec.md §3.5's "stack
// of scopes" resolution.
func (a *Arena) Lookup(h Handle, name string) (*Item, Handle, bool) {
	cur := h
	for {
		s := a.scopes[cur]
		if it, ok := s.items[name]; ok {
			return it, cur, true
		}
		if !s.HasParent {
			return nil, 0, false
		}
		cur = s.Parent
	}
}

// LookupLocal searches only h itself, not its ancestors.
func (a *Arena) LookupLocal(h Handle, name string) (*Item, bool) {
	it, ok := a.scopes[h].items[name]
	return it, ok
}

// Items returns the names declared directly in h, for diagnostics/tests.
func (a *Arena) Items(h Handle) map[string]*Item {
	return a.scopes[h].items
}
