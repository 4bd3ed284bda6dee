package semantic_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/source"
)

func analyze(t *testing.T, src string) (*semantic.Program, error) {
	t.Helper()
	registry := source.NewRegistry()
	file := registry.Add("test.zn", src)
	a := semantic.New(registry, nil)
	return a.AnalyzeSource(file, src)
}

func TestCastEnumVariantToIntegerYieldsDiscriminant(t *testing.T) {
	prog, err := analyze(t, `
enum Color {
    Red = 0,
    Green = 1,
    Blue = 2,
}

fn main() -> u8 {
    Color::Green as u8
}
`)
	require.NoError(t, err)

	var main *semantic.FunctionDecl
	for _, fn := range prog.Functions {
		if fn.Name == "main" {
			main = fn
		}
	}
	require.NotNil(t, main)

	cast, ok := main.Body.Trailing.(*semantic.TypedCast)
	require.True(t, ok, "expected the cast expression to survive analysis as a TypedCast")
	c := cast.Const()
	require.NotNil(t, c, "Color::Green as u8 is a compile-time constant")
	assert.Equal(t, big.NewInt(1), c.Int, "cast must yield the variant's declared discriminant")
}

func TestMainAndContractIsAmbiguous(t *testing.T) {
	_, err := analyze(t, `
fn main() -> u8 {
    0
}

contract Wallet {
    pub fn balance(self) -> field {
        0
    }
}
`)
	require.Error(t, err)
	serr, ok := err.(*semantic.Error)
	require.True(t, ok)
	assert.Equal(t, semantic.ErrEntryPointAmbiguous, serr.Kind)
}

func TestConstFnMainRejected(t *testing.T) {
	_, err := analyze(t, `
const fn main() -> u8 {
    42
}
`)
	require.Error(t, err)
	serr, ok := err.(*semantic.Error)
	require.True(t, ok)
	assert.Equal(t, semantic.ErrEntryPointConstant, serr.Kind)
}

func TestConstFnContractMethodRejected(t *testing.T) {
	_, err := analyze(t, `
contract Wallet {
    pub const fn deposit(self, amount: u64) -> bool {
        true
    }
}
`)
	require.Error(t, err)
	serr, ok := err.(*semantic.Error)
	require.True(t, ok)
	assert.Equal(t, semantic.ErrEntryPointConstant, serr.Kind)
}
