package semantic

import (
	"math/big"

	"github.com/matter-labs/zinc-sub006/source"
	"github.com/matter-labs/zinc-sub006/types"
)

// Constant is a fully folded compile-time value, per spec.md §3.6. Integer
// and field constants carry an exact math/big.Int; folding is exact and
// then range-checked explicitly against the declared bitlength, per the
// design note in spec.md §9 ("use a well-reviewed bigint library and
// perform post-fold range checks explicitly rather than relying on
// wrap-around").
type Constant struct {
	Type types.Type

	Int   *big.Int // integer and field constants
	Bool  bool
	Str   string
	Range *RangeConstant

	// Elements holds folded sub-constants for tuple/array/struct-of-constant
	// aggregates, in declaration/index order.
	Elements []*Constant
}

// RangeConstant is a folded "L..R" or "L..=R" range, legal only between
// same-typed integer endpoints (spec.md §4.3.6).
type RangeConstant struct {
	Low, High *big.Int
	Inclusive bool
	ElemType  types.Integer
}

// Count returns the number of loop iterations a range constant drives, per
// spec.md §8's "loop unrolling bound" testable property: max(0, R-L) or,
// inclusive, max(0, R-L+1).
func (r *RangeConstant) Count() int64 {
	diff := new(big.Int).Sub(r.High, r.Low)
	if r.Inclusive {
		diff.Add(diff, big.NewInt(1))
	}
	if diff.Sign() < 0 {
		return 0
	}
	return diff.Int64()
}

// NewIntConstant builds an Integer-typed constant after range-checking v
// against the type, per spec.md §4.3.4.
func NewIntConstant(loc source.Location, v *big.Int, t types.Integer) (*Constant, error) {
	if !InRange(v, t) {
		return nil, errf(loc, ErrIntegerOutOfRange, "value %s out of range for %s", v.String(), t.String())
	}
	return &Constant{Type: t, Int: new(big.Int).Set(v)}, nil
}

// NewFieldConstant reduces v modulo the BN256 scalar field order and builds
// a field-typed constant; field arithmetic never "overflows" in the integer
// sense, it wraps by construction (spec.md §3.4: "the full native prime
// field").
func NewFieldConstant(v *big.Int) *Constant {
	r := new(big.Int).Mod(v, FieldModulus)
	return &Constant{Type: types.Field{}, Int: r}
}

// InRange reports whether v fits in the declared signed/unsigned bitlength,
// the post-fold check spec.md §9 calls for instead of silent wraparound.
func InRange(v *big.Int, t types.Integer) bool {
	if t.Signed {
		bound := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits-1))
		negBound := new(big.Int).Neg(bound)
		return v.Cmp(negBound) >= 0 && v.Cmp(bound) < 0
	}
	bound := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits))
	return v.Sign() >= 0 && v.Cmp(bound) < 0
}

// TruncateTo reduces v modulo 2^bits, producing the two's-complement
// representative for a signed target, realising the "narrowing truncates
// modulo the new bitlength" cast rule of spec.md §4.3.6.
func TruncateTo(v *big.Int, t types.Integer) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits))
	r := new(big.Int).Mod(v, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	if t.Signed {
		half := new(big.Int).Rsh(mod, 1)
		if r.Cmp(half) >= 0 {
			r.Sub(r, mod)
		}
	}
	return r
}

// FieldModulus is the BN256 scalar field order, grounded on the value
// gnark-crypto's fr package encodes for BN254/BN256 (r = 21888242871839275222246405745257275088548364400416034343698204186575808495617);
// kept as a math/big constant here rather than importing the crypto
// library itself, since field arithmetic in this package is limited to
// reduction and comparison during constant folding, not pairing-friendly
// curve operations.
var FieldModulus, _ = new(big.Int).SetString("21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)
