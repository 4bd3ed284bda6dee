package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matter-labs/zinc-sub006/scope"
	"github.com/matter-labs/zinc-sub006/types"
)

func TestDeclareRejectsDuplicateNameInSameScope(t *testing.T) {
	a := scope.NewArena()
	root := a.Root()

	ok := a.Declare(root, &scope.Item{Kind: scope.KindVariable, Name: "x", Type: types.Bool{}})
	require.True(t, ok)

	ok = a.Declare(root, &scope.Item{Kind: scope.KindVariable, Name: "x", Type: types.Field{}})
	assert.False(t, ok, "redeclaring a name in the same scope must fail")
}

func TestLookupWalksAncestorChain(t *testing.T) {
	a := scope.NewArena()
	root := a.Root()
	child := a.New(root, "inner")

	require.True(t, a.Declare(root, &scope.Item{Kind: scope.KindConstant, Name: "outer_const", Type: types.Field{}}))

	item, found, ok := a.Lookup(child, "outer_const")
	require.True(t, ok)
	assert.Equal(t, root, found)
	assert.Equal(t, "outer_const", item.Name)

	_, _, ok = a.Lookup(root, "not_declared_anywhere")
	assert.False(t, ok)
}

func TestLookupLocalDoesNotWalkAncestors(t *testing.T) {
	a := scope.NewArena()
	root := a.Root()
	child := a.New(root, "inner")
	require.True(t, a.Declare(root, &scope.Item{Kind: scope.KindVariable, Name: "shadowed", Type: types.Bool{}}))

	_, ok := a.LookupLocal(child, "shadowed")
	assert.False(t, ok, "LookupLocal must not see the parent's declarations")

	require.True(t, a.Declare(child, &scope.Item{Kind: scope.KindVariable, Name: "shadowed", Type: types.Field{}}))
	item, ok := a.LookupLocal(child, "shadowed")
	require.True(t, ok)
	assert.True(t, types.Field{}.Equal(item.Type))
}

func TestShadowingAcrossScopesIsAllowed(t *testing.T) {
	a := scope.NewArena()
	root := a.Root()
	child := a.New(root, "inner")

	require.True(t, a.Declare(root, &scope.Item{Kind: scope.KindVariable, Name: "v", Type: types.Bool{}}))
	require.True(t, a.Declare(child, &scope.Item{Kind: scope.KindVariable, Name: "v", Type: types.Field{}}),
		"a child scope may redeclare a name its parent already binds")

	item, found, ok := a.Lookup(child, "v")
	require.True(t, ok)
	assert.Equal(t, child, found)
	assert.True(t, types.Field{}.Equal(item.Type))
}

func TestItemsListsOnlyDirectDeclarations(t *testing.T) {
	a := scope.NewArena()
	root := a.Root()
	child := a.New(root, "inner")
	require.True(t, a.Declare(root, &scope.Item{Kind: scope.KindVariable, Name: "a", Type: types.Bool{}}))
	require.True(t, a.Declare(child, &scope.Item{Kind: scope.KindVariable, Name: "b", Type: types.Bool{}}))

	assert.Len(t, a.Items(root), 1)
	assert.Len(t, a.Items(child), 1)
	_, ok := a.Items(root)["b"]
	assert.False(t, ok)
}
