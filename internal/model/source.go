// Package model defines the data structures shared by the string scanner.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Ext returns the file extension without the leading dot.
func (p Path) Ext() string {
	return strings.TrimPrefix(filepath.Ext(string(p)), ".")
}

// Language identifies the grammar used to parse a source file.
type Language string

const (
	// LanguageSwift covers .swift sources.
	LanguageSwift Language = "swift"
	// LanguageObjC covers Objective-C implementation files and C-family headers.
	LanguageObjC Language = "objc"
	// LanguageUnknown is returned for extensions no grammar is registered for.
	LanguageUnknown Language = ""
)

// SourceFile is a discovered file together with its raw content.
// It is read once per scan and dropped after the file has been traversed.
type SourceFile struct {
	Path    Path
	Display string // path reported in occurrences (absolute or root-relative)
	Content []byte
}
