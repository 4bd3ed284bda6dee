package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matter-labs/zinc-sub006/types"
)

func TestFlatSizeAggregates(t *testing.T) {
	u32 := types.Integer{Bits: 32, Signed: false}
	arr := types.Array{Element: u32, Size: 4}
	assert.Equal(t, 4, arr.FlatSize())

	tup := types.Tuple{Elements: []types.Type{u32, types.Bool{}, types.Field{}}}
	assert.Equal(t, 3, tup.FlatSize())

	st := &types.Struct{Name: "Point", Fields: []types.StructField{
		{Name: "x", Type: u32},
		{Name: "y", Type: u32},
	}}
	assert.Equal(t, 2, st.FlatSize())

	nested := types.Array{Element: tup, Size: 2}
	assert.Equal(t, 6, nested.FlatSize())

	assert.Equal(t, 0, types.Unit{}.FlatSize())
	assert.Equal(t, 0, (&types.Contract{}).FlatSize())
	assert.Equal(t, 0, types.MTreeMap{}.FlatSize())
}

func TestStructFieldLookup(t *testing.T) {
	u32 := types.Integer{Bits: 32, Signed: false}
	st := &types.Struct{Name: "Point", Fields: []types.StructField{
		{Name: "x", Type: u32},
		{Name: "y", Type: u32},
	}}
	typ, offset, ok := st.Field("y")
	assert.True(t, ok)
	assert.Equal(t, 1, offset)
	assert.True(t, u32.Equal(typ))

	_, _, ok = st.Field("z")
	assert.False(t, ok)
}

func TestEnumVariantLookup(t *testing.T) {
	e := &types.Enum{Name: "Color", Variants: []types.EnumVariant{
		{Name: "Red", Value: 0},
		{Name: "Green", Value: 1},
		{Name: "Blue", Value: 2},
	}}
	v, ok := e.Variant("Green")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), v)

	_, ok = e.Variant("Purple")
	assert.False(t, ok)
	assert.Equal(t, 1, e.FlatSize())
}

func TestContractStorageLayout(t *testing.T) {
	u32 := types.Integer{Bits: 32, Signed: false}
	c := &types.Contract{Name: "Wallet", Storage: []types.ContractStorageField{
		{Name: "owner", Type: u32},
		{Name: "balance", Type: types.Field{}},
	}}
	assert.Equal(t, 2, c.StorageSize())

	typ, offset, ok := c.StorageField("balance")
	assert.True(t, ok)
	assert.Equal(t, 1, offset)
	assert.True(t, types.Field{}.Equal(typ))
}

func TestEqualIsStructuralForAggregatesNominalForNamed(t *testing.T) {
	u32 := types.Integer{Bits: 32, Signed: false}
	u16 := types.Integer{Bits: 16, Signed: false}

	assert.True(t, (types.Array{Element: u32, Size: 3}).Equal(types.Array{Element: u32, Size: 3}))
	assert.False(t, (types.Array{Element: u32, Size: 3}).Equal(types.Array{Element: u16, Size: 3}))

	a := &types.Struct{Name: "Point", Fields: []types.StructField{{Name: "x", Type: u32}}}
	b := &types.Struct{Name: "Point", Fields: []types.StructField{{Name: "x", Type: u16}}}
	assert.True(t, a.Equal(b), "struct identity is nominal: same name is equal regardless of field types")
}

func TestIsIntegerHelpers(t *testing.T) {
	u32 := types.Integer{Bits: 32, Signed: false}
	i32 := types.Integer{Bits: 32, Signed: true}

	it, ok := types.IsInteger(u32)
	assert.True(t, ok)
	assert.Equal(t, 32, it.Bits)

	assert.True(t, types.IsUnsignedInteger(u32))
	assert.False(t, types.IsUnsignedInteger(i32))

	_, ok = types.IsInteger(types.Bool{})
	assert.False(t, ok)
}
