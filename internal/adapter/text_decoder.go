package adapter

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

// TextDecoder turns raw file bytes into UTF-8 text.
type TextDecoder interface {
	Decode(raw []byte) ([]byte, error)
}

// BOMTextDecoder honors a leading byte order mark (UTF-8, UTF-16LE, UTF-16BE)
// and otherwise requires the input to be valid UTF-8.
type BOMTextDecoder struct{}

// NewBOMTextDecoder constructs a BOMTextDecoder.
func NewBOMTextDecoder() *BOMTextDecoder {
	return &BOMTextDecoder{}
}

// Decode returns the UTF-8 text of raw with any byte order mark removed.
// Offsets reported for the returned text are relative to the decoded bytes.
func (d *BOMTextDecoder) Decode(raw []byte) ([]byte, error) {
	decoder := xunicode.BOMOverride(encoding.Nop.NewDecoder())

	text, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", m.ErrDecode, err)
	}

	if !utf8.Valid(text) {
		return nil, fmt.Errorf("%w: invalid UTF-8 at byte %d", m.ErrDecode, firstInvalidByte(text))
	}

	return text, nil
}

func firstInvalidByte(text []byte) int {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRune(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}

		i += size
	}

	return len(text)
}
