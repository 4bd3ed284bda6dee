package semantic

import (
	"io/fs"
	"path"
)

// ModuleResolver resolves a "mod foo;" item to the source text of the file
// or directory entry it names, per spec.md §4.3.1 / §6. Zinc's driver
// wires this against a real project tree; tests can substitute an
// in-memory implementation without touching the filesystem.
type ModuleResolver interface {
	// Resolve returns the source text for the module named name, found
	// relative to dir (the importing file's own directory within the
	// project). ok is false if no such module exists.
	Resolve(dir, name string) (text string, filename string, ok bool)
}

// DirResolver resolves modules against a real fs.FS rooted at the project's
// src/ directory, per spec.md §6: "<name>.zn" files and "<name>/mod.zn"
// directories. It intentionally does not read a manifest or consult
// dependencies — that is zargo's job, out of scope per spec.md §1.
type DirResolver struct {
	FS fs.FS
}

// NewDirResolver wraps fsys as a ModuleResolver.
func NewDirResolver(fsys fs.FS) *DirResolver {
	return &DirResolver{FS: fsys}
}

func (r *DirResolver) Resolve(dir, name string) (string, string, bool) {
	candidates := []string{
		path.Join(dir, name+".zn"),
		path.Join(dir, name, "mod.zn"),
	}
	for _, c := range candidates {
		data, err := fs.ReadFile(r.FS, c)
		if err == nil {
			return string(data), c, true
		}
	}
	return "", "", false
}
