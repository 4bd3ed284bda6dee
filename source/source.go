// Package source tracks the original text of every file participating in a
// compilation and the locations pointing into it.
//
// A Registry is process-wide and append-only: file ids are handed out
// monotonically as the driver opens new source files, and every other
// package (lexer, syntax, semantic, generator) only ever reads through the
// id it was given. Concurrent reads are cheap; the only writer is Add, which
// is called briefly and rarely (once per source file).
package source

import (
	"fmt"
	"sync"
)

// ID identifies a source file within a Registry.
type ID uint32

// Location is a single point in a source file: the file it belongs to plus
// a 1-based line and column. It is attached to every token, syntax node, IR
// element and instruction produced by the pipeline.
type Location struct {
	File   ID
	Line   int
	Column int
}

// String renders a location as "line:column", without a file name.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// File holds the name and full text of one source file.
type File struct {
	Name string
	Text string
}

// Registry is a process-wide, append-only table of files. It is safe for
// concurrent use: Add takes an exclusive lock briefly, every read takes a
// shared lock.
type Registry struct {
	mu    sync.RWMutex
	files []*File
}

// NewRegistry creates an empty file registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a new file and returns its id. ids are monotonically
// increasing starting at 0.
func (r *Registry) Add(name, text string) ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ID(len(r.files))
	r.files = append(r.files, &File{Name: name, Text: text})
	return id
}

// File returns the file registered under id. It panics if id was never
// registered: that would be an invariant violation in every caller, since
// ids only ever come from a prior call to Add.
func (r *Registry) File(id ID) *File {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.files) {
		panic(fmt.Sprintf("source: unknown file id %d", id))
	}
	return r.files[id]
}

// Name returns the registered name of file id, for use in diagnostics.
func (r *Registry) Name(id ID) string {
	return r.File(id).Name
}

// At renders a Location as "filename:line:column".
func (r *Registry) At(l Location) string {
	return fmt.Sprintf("%s:%d:%d", r.Name(l.File), l.Line, l.Column)
}

// Excerpt returns the source line at l.Line (1-based, no trailing newline)
// together with a caret string pointing at l.Column, suitable for rendering
// under a diagnostic headline.
func (r *Registry) Excerpt(l Location) (line, caret string) {
	text := r.File(l.File).Text
	ln := 1
	start := 0
	for i := 0; i < len(text); i++ {
		if ln == l.Line {
			start = i
			break
		}
		if text[i] == '\n' {
			ln++
		}
	}
	if ln != l.Line {
		return "", ""
	}
	end := start
	for end < len(text) && text[end] != '\n' {
		end++
	}
	line = text[start:end]
	col := l.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	caret = ""
	for i := 0; i < col-1; i++ {
		if i < len(line) && line[i] == '\t' {
			caret += "\t"
		} else {
			caret += " "
		}
	}
	caret += "^"
	return line, caret
}
