package semantic_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/types"
)

func u8() types.Integer { return types.Integer{Bits: 8, Signed: false} }
func i8() types.Integer { return types.Integer{Bits: 8, Signed: true} }

func TestNewIntConstantRangeChecks(t *testing.T) {
	c, err := semantic.NewIntConstant(source.Location{}, big.NewInt(255), u8())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(255), c.Int)

	_, err = semantic.NewIntConstant(source.Location{}, big.NewInt(256), u8())
	assert.Error(t, err)

	_, err = semantic.NewIntConstant(source.Location{}, big.NewInt(-1), u8())
	assert.Error(t, err)
}

func TestInRangeSignedBounds(t *testing.T) {
	assert.True(t, semantic.InRange(big.NewInt(-128), i8()))
	assert.True(t, semantic.InRange(big.NewInt(127), i8()))
	assert.False(t, semantic.InRange(big.NewInt(-129), i8()))
	assert.False(t, semantic.InRange(big.NewInt(128), i8()))
}

func TestTruncateToWrapsModuloBitlength(t *testing.T) {
	assert.Equal(t, big.NewInt(0), semantic.TruncateTo(big.NewInt(256), u8()))
	assert.Equal(t, big.NewInt(255), semantic.TruncateTo(big.NewInt(-1), u8()))
	// Signed narrowing reinterprets the high bit: 255 truncated to i8 is -1.
	assert.Equal(t, big.NewInt(-1), semantic.TruncateTo(big.NewInt(255), i8()))
}

func TestNewFieldConstantReducesModulo(t *testing.T) {
	over := new(big.Int).Add(semantic.FieldModulus, big.NewInt(5))
	c := semantic.NewFieldConstant(over)
	assert.Equal(t, big.NewInt(5), c.Int)
	assert.True(t, types.Field{}.Equal(c.Type))
}

func TestRangeConstantCount(t *testing.T) {
	exclusive := &semantic.RangeConstant{Low: big.NewInt(0), High: big.NewInt(5), ElemType: u8()}
	assert.Equal(t, int64(5), exclusive.Count())

	inclusive := &semantic.RangeConstant{Low: big.NewInt(0), High: big.NewInt(5), Inclusive: true, ElemType: u8()}
	assert.Equal(t, int64(6), inclusive.Count())

	empty := &semantic.RangeConstant{Low: big.NewInt(5), High: big.NewInt(2), ElemType: u8()}
	assert.Equal(t, int64(0), empty.Count())
}
