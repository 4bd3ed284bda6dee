package generator

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/matter-labs/zinc-sub006/semantic"
	"github.com/matter-labs/zinc-sub006/types"
)

// ApplicationKind tags what an Application compiles to, mirroring
// semantic.EntryKind one level down the pipeline (spec.md §4.3.8/§4.4).
type ApplicationKind int

const (
	ApplicationCircuit ApplicationKind = iota
	ApplicationContract
	ApplicationLibrary
)

func (k ApplicationKind) String() string {
	switch k {
	case ApplicationCircuit:
		return "circuit"
	case ApplicationContract:
		return "contract"
	default:
		return "library"
	}
}

// EntryPoint describes one callable surface of an Application: a circuit's
// "main", or one of a contract's public methods.
type EntryPoint struct {
	Name    string
	TypeID  int
	Address int
	Params  []semantic.FunctionParam
	Returns types.Type
	// IsMutable marks a contract method that may write storage (spec.md
	// §4.3.10); its Returns is the synthetic {result, root_hash} wrapper
	// mutableReturn builds, not the method's own declared return type.
	IsMutable bool
}

// mutableReturn wraps a mutating contract method's declared return type in
// the synthetic struct spec.md §4.3.10 mandates: callers observe both the
// method's own result and the storage root hash left by its writes.
func mutableReturn(result types.Type) types.Type {
	return &types.Struct{
		Name: "Result",
		Fields: []types.StructField{
			{Name: "result", Type: result},
			{Name: "root_hash", Type: types.Field{}},
		},
	}
}

// Application is the self-contained artefact package zinc-sub006 produces
// from a Program: the flat Instruction stream plus everything the vm package
// needs to run it and everything a client needs to call into it, per
// spec.md §4.4's "Application" concept.
type Application struct {
	BuildID      string
	Kind         ApplicationKind
	Instructions []Instruction
	Entries      []EntryPoint
	FuncAddr     map[int]int
	StorageSize  int
}

func init() {
	// gob needs every concrete type that will cross a types.Type interface
	// boundary registered up front: Instruction.Const.Type, EntryPoint
	// parameter/return types, and any nested element/field/variant type.
	gob.Register(types.Unit{})
	gob.Register(types.Bool{})
	gob.Register(types.Integer{})
	gob.Register(types.Field{})
	gob.Register(types.Array{})
	gob.Register(types.Tuple{})
	gob.Register(&types.Struct{})
	gob.Register(&types.Enum{})
	gob.Register(types.Function{})
	gob.Register(&types.Contract{})
	gob.Register(types.MTreeMap{})
}

// applicationFormatVersion is bumped whenever the encoded shape of
// Application changes in a way that breaks decoding of older artefacts.
const applicationFormatVersion uint32 = 1

var applicationMagic = [4]byte{'Z', 'N', 'C', 'A'}

// Save writes the Application to fileName as a self-describing, versioned
// artefact: a fixed magic/version header (the teacher's vm/image.go
// discipline for framing a binary payload via encoding/binary), followed by
// a gob-encoded body, since an Instruction stream's constants carry
// arbitrary-precision integers and nested aggregates that a flat Cell array
// cannot represent directly.
func (a *Application) Save(fileName string) error {
	if a.BuildID == "" {
		a.BuildID = uuid.NewString()
	}
	f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, applicationMagic); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, applicationFormatVersion); err != nil {
		return err
	}
	return gob.NewEncoder(f).Encode(a)
}

// LoadApplication reads back an artefact written by Save.
func LoadApplication(fileName string) (*Application, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var magic [4]byte
	if err := binary.Read(f, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != applicationMagic {
		return nil, fmt.Errorf("zinc-sub006: %s is not a compiled application artefact", fileName)
	}
	var version uint32
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != applicationFormatVersion {
		return nil, fmt.Errorf("zinc-sub006: artefact format version %d unsupported (want %d)", version, applicationFormatVersion)
	}
	app := &Application{}
	if err := gob.NewDecoder(f).Decode(app); err != nil {
		return nil, err
	}
	return app, nil
}

// Bytes encodes the Application the same way Save does, without touching
// disk.
func (a *Application) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, applicationMagic); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, applicationFormatVersion); err != nil {
		return nil, err
	}
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EntryByName looks up one of the Application's callable entry points.
func (a *Application) EntryByName(name string) (EntryPoint, bool) {
	for _, e := range a.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return EntryPoint{}, false
}

// InputSkeleton derives a map[string]any witness-input template from an
// entry point's declared parameter types, so a caller can see the JSON shape
// `zincc run` expects without reading the source, per spec.md §6's
// input.json convention.
func (a *Application) InputSkeleton(entryName string) (map[string]any, error) {
	ep, ok := a.EntryByName(entryName)
	if !ok {
		return nil, fmt.Errorf("zinc-sub006: no entry point %q in this application", entryName)
	}
	skeleton := make(map[string]any, len(ep.Params))
	for _, p := range ep.Params {
		if p.Name == "self" {
			continue
		}
		skeleton[p.Name] = skeletonValue(p.Type)
	}
	return skeleton, nil
}

func skeletonValue(t types.Type) any {
	switch tt := t.(type) {
	case types.Unit:
		return nil
	case types.Bool:
		return false
	case types.Integer:
		return "0"
	case types.Field:
		return "0"
	case types.Array:
		elems := make([]any, tt.Size)
		for i := range elems {
			elems[i] = skeletonValue(tt.Element)
		}
		return elems
	case types.Tuple:
		elems := make([]any, len(tt.Elements))
		for i, e := range tt.Elements {
			elems[i] = skeletonValue(e)
		}
		return elems
	case *types.Struct:
		fields := make(map[string]any, len(tt.Fields))
		for _, f := range tt.Fields {
			fields[f.Name] = skeletonValue(f.Type)
		}
		return fields
	case *types.Enum:
		if len(tt.Variants) > 0 {
			return tt.Variants[0].Name
		}
		return nil
	default:
		return nil
	}
}
