package urdf

import (
	"io"
	"os"
	"path/filepath"

	"go.viam.com/utils"
)

// literalStringName is the location in-memory sources report in diagnostics.
const literalStringName = "<literal-string>." + Extension

// A DataSource identifies the document to parse: a file on disk or a string
// already held in memory.
type DataSource struct {
	filename string
	contents string
	isFile   bool
}

// NewFileSource returns a DataSource reading from the given file path.
func NewFileSource(filename string) DataSource {
	return DataSource{filename: filename, isFile: true}
}

// NewStringSource returns a DataSource over an in-memory document.
func NewStringSource(contents string) DataSource {
	return DataSource{contents: contents}
}

// Location returns the name diagnostics use for this source: the file path,
// or "<literal-string>.urdf" for in-memory documents.
func (s DataSource) Location() string {
	if s.isFile {
		return s.filename
	}
	return literalStringName
}

// kind names the source flavor in the fatal XML diagnostics.
func (s DataSource) kind() string {
	if s.isFile {
		return "file"
	}
	return "string"
}

// RootDir returns the directory document-relative resource references resolve
// against: the file's directory, or "." for in-memory documents.
func (s DataSource) RootDir() string {
	if s.isFile {
		return filepath.Dir(s.filename)
	}
	return "."
}

// Read returns the document bytes.
func (s DataSource) Read() ([]byte, error) {
	if !s.isFile {
		return []byte(s.contents), nil
	}
	//nolint:gosec
	f, err := os.Open(s.filename)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return io.ReadAll(f)
}
