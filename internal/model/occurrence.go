package model

import "cmp"

// Occurrence is one string or pattern literal found in a source file.
//
// Fields are declared in alphabetical order of their JSON names so encoders
// emit keys sorted.
type Occurrence struct {
	Column      int    `json:"column" msgpack:"column"`
	Content     string `json:"content" msgpack:"content"`
	File        string `json:"file" msgpack:"file"`
	IsLocalized bool   `json:"isLocalized" msgpack:"isLocalized"`
	Line        int    `json:"line" msgpack:"line"`
}

// CompareOccurrences orders occurrences by file, line and column.
// Content and the localization flag do not take part in the ordering.
func CompareOccurrences(a, b Occurrence) int {
	if c := cmp.Compare(a.File, b.File); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}

	return cmp.Compare(a.Column, b.Column)
}
