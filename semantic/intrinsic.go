package semantic

import "github.com/matter-labs/zinc-sub006/types"

// Intrinsic identifies one member of the standard-library catalogue of
// spec.md §6 ("Intrinsic catalogue"). Each lowers to a CallBuiltin
// instruction with no user-level function body, per spec.md §4.3.9.
type Intrinsic int

const (
	IntrinsicRequire Intrinsic = iota
	IntrinsicDbg
	IntrinsicSha256
	IntrinsicPedersen
	IntrinsicSchnorrVerify
	IntrinsicToBits
	IntrinsicFromBitsUnsigned
	IntrinsicFromBitsSigned
	IntrinsicFromBitsField
	IntrinsicArrayReverse
	IntrinsicArrayTruncate
	IntrinsicArrayPad
	IntrinsicMapGet
	IntrinsicMapContains
	IntrinsicMapInsert
	IntrinsicMapRemove
	IntrinsicZksyncTransfer
)

// IntrinsicSignature describes an intrinsic's parameter arity; Variadic
// intrinsics (dbg) accept any number of trailing arguments beyond the fixed
// prefix. analyzeIntrinsicCall does not consult it: it checks each
// intrinsic's arguments in its own switch case.
type IntrinsicSignature struct {
	Intrinsic Intrinsic
	Params    []types.Type // nil entries are checked structurally by the branch, not positionally
	Variadic  bool
	Returns   types.Type
}

// intrinsicPaths maps a "::"-joined path to the intrinsic it names, per
// spec.md §6's catalogue. Paths not listed here are ordinary user
// identifiers/functions.
var intrinsicPaths = map[string]Intrinsic{
	"require":                               IntrinsicRequire,
	"dbg":                                   IntrinsicDbg,
	"std::crypto::sha256":                   IntrinsicSha256,
	"std::crypto::pedersen":                 IntrinsicPedersen,
	"std::crypto::schnorr::verify":          IntrinsicSchnorrVerify,
	"std::convert::to_bits":                 IntrinsicToBits,
	"std::convert::from_bits_unsigned":      IntrinsicFromBitsUnsigned,
	"std::convert::from_bits_signed":        IntrinsicFromBitsSigned,
	"std::convert::from_bits_field":         IntrinsicFromBitsField,
	"std::array::reverse":                   IntrinsicArrayReverse,
	"std::array::truncate":                  IntrinsicArrayTruncate,
	"std::array::pad":                       IntrinsicArrayPad,
	"std::collections::MTreeMap::get":       IntrinsicMapGet,
	"std::collections::MTreeMap::contains":  IntrinsicMapContains,
	"std::collections::MTreeMap::insert":    IntrinsicMapInsert,
	"std::collections::MTreeMap::remove":    IntrinsicMapRemove,
	"zksync::transfer":                      IntrinsicZksyncTransfer,
}

// LookupIntrinsic resolves a dotted path (already "::"-joined) to its
// Intrinsic tag.
func LookupIntrinsic(path string) (Intrinsic, bool) {
	id, ok := intrinsicPaths[path]
	return id, ok
}

// MaxPedersenPreimageBits bounds std::crypto::pedersen's preimage length,
// per spec.md §4.3.9's "0 < N ≤ N_MAX" example.
const MaxPedersenPreimageBits = 512
