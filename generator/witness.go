package generator

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/matter-labs/zinc-sub006/types"
)

// FlattenArgs turns a witness map (the shape InputSkeleton describes) into
// the flat field-element slots an entry point's Call expects, in
// declaration order, skipping any "self" receiver parameter the same way
// InputSkeleton does.
func (a *Application) FlattenArgs(entryName string, witness map[string]any) ([]*big.Int, error) {
	ep, ok := a.EntryByName(entryName)
	if !ok {
		return nil, errors.Errorf("zinc-sub006: no entry point %q in this application", entryName)
	}
	var out []*big.Int
	for _, p := range ep.Params {
		if p.Name == "self" {
			continue
		}
		v, ok := witness[p.Name]
		if !ok {
			return nil, errors.Errorf("zinc-sub006: witness input missing field %q", p.Name)
		}
		slots, err := flattenValue(p.Type, v)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", p.Name)
		}
		out = append(out, slots...)
	}
	return out, nil
}

// flattenValue mirrors skeletonValue's per-type shape in reverse: given the
// JSON-decoded value a skeleton produced (or one hand-written to match it),
// emit the type's flat field-element slots.
func flattenValue(t types.Type, v any) ([]*big.Int, error) {
	switch tt := t.(type) {
	case types.Unit:
		return nil, nil
	case types.Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, errors.Errorf("expected bool, got %T", v)
		}
		if b {
			return []*big.Int{big.NewInt(1)}, nil
		}
		return []*big.Int{big.NewInt(0)}, nil
	case types.Integer, types.Field:
		n, err := parseDecimalOrNumber(v)
		if err != nil {
			return nil, err
		}
		return []*big.Int{n}, nil
	case types.Array:
		elems, ok := v.([]any)
		if !ok || len(elems) != tt.Size {
			return nil, errors.Errorf("expected array of length %d, got %v", tt.Size, v)
		}
		var out []*big.Int
		for _, e := range elems {
			slots, err := flattenValue(tt.Element, e)
			if err != nil {
				return nil, err
			}
			out = append(out, slots...)
		}
		return out, nil
	case types.Tuple:
		elems, ok := v.([]any)
		if !ok || len(elems) != len(tt.Elements) {
			return nil, errors.Errorf("expected tuple of %d elements, got %v", len(tt.Elements), v)
		}
		var out []*big.Int
		for i, e := range tt.Elements {
			slots, err := flattenValue(e, elems[i])
			if err != nil {
				return nil, err
			}
			out = append(out, slots...)
		}
		return out, nil
	case *types.Struct:
		fields, ok := v.(map[string]any)
		if !ok {
			return nil, errors.Errorf("expected object for struct %s, got %T", tt.Name, v)
		}
		var out []*big.Int
		for _, f := range tt.Fields {
			fv, ok := fields[f.Name]
			if !ok {
				return nil, errors.Errorf("struct %s missing field %q", tt.Name, f.Name)
			}
			slots, err := flattenValue(f.Type, fv)
			if err != nil {
				return nil, err
			}
			out = append(out, slots...)
		}
		return out, nil
	case *types.Enum:
		name, ok := v.(string)
		if !ok {
			return nil, errors.Errorf("expected variant name for enum %s, got %T", tt.Name, v)
		}
		disc, ok := tt.Variant(name)
		if !ok {
			return nil, errors.Errorf("enum %s has no variant %q", tt.Name, name)
		}
		return []*big.Int{new(big.Int).SetUint64(disc)}, nil
	default:
		return nil, errors.Errorf("zinc-sub006: cannot flatten a witness value of type %s", t)
	}
}

// parseDecimalOrNumber accepts either a JSON string (the skeleton's own
// convention, used so 254-bit field elements survive round-tripping through
// float64-backed JSON numbers) or a plain JSON number for small values typed
// by hand.
func parseDecimalOrNumber(v any) (*big.Int, error) {
	switch x := v.(type) {
	case string:
		n, ok := new(big.Int).SetString(x, 10)
		if !ok {
			return nil, errors.Errorf("not a decimal integer: %q", x)
		}
		return n, nil
	case float64:
		return big.NewInt(int64(x)), nil
	default:
		return nil, errors.Errorf("expected a numeric witness value, got %T", v)
	}
}
