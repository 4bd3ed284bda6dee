package generator

import "math/big"

// bigFromUint64 wraps a discriminant value for the PushConst immediate a
// match arm's equality guard compares the scrutinee against.
func bigFromUint64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
