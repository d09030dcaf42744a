package adapter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

// Format selects the serialization used for exported results.
type Format string

// Supported result formats.
const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatCSV, FormatMsgpack:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", m.ErrExport, name)
	}
}

// FormatForPath guesses the format of a results file from its extension.
func FormatForPath(path m.Path) Format {
	switch path.Ext() {
	case "csv":
		return FormatCSV
	case "msgpack", "mpk":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

var csvHeader = []string{"file", "line", "column", "content", "isLocalized"}

// ResultStore persists and reloads scan occurrences.
type ResultStore interface {
	// Encode writes occurrences to w in the given format.
	Encode(w io.Writer, format Format, occurrences []m.Occurrence) error
	// Save encodes occurrences and writes them to path.
	Save(path m.Path, format Format, occurrences []m.Occurrence) error
	// Load reads a JSON or MessagePack results file.
	Load(path m.Path) ([]m.Occurrence, error)
}

// FileResultStore is a ResultStore backed by a SourceFSAdapter.
type FileResultStore struct {
	fs SourceFSAdapter
}

// NewFileResultStore creates a FileResultStore writing through fs.
func NewFileResultStore(fs SourceFSAdapter) *FileResultStore {
	return &FileResultStore{fs: fs}
}

// Encode implements ResultStore.
func (s *FileResultStore) Encode(w io.Writer, format Format, occurrences []m.Occurrence) error {
	if occurrences == nil {
		occurrences = []m.Occurrence{}
	}

	var err error

	switch format {
	case FormatJSON, "":
		err = encodeJSON(w, occurrences)
	case FormatCSV:
		err = encodeCSV(w, occurrences)
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(occurrences)
	default:
		return fmt.Errorf("%w: unknown format %q", m.ErrExport, format)
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %w", m.ErrExport, format, err)
	}

	return nil
}

// Save implements ResultStore.
func (s *FileResultStore) Save(path m.Path, format Format, occurrences []m.Occurrence) error {
	var buf bytes.Buffer

	if err := s.Encode(&buf, format, occurrences); err != nil {
		return err
	}

	if err := s.fs.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", m.ErrExport, path, err)
	}

	return nil
}

// Load implements ResultStore.
func (s *FileResultStore) Load(path m.Path) ([]m.Occurrence, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", m.ErrRead, err)
	}

	var occurrences []m.Occurrence

	switch FormatForPath(path) {
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &occurrences)
	case FormatCSV:
		return nil, fmt.Errorf("%w: csv results cannot be loaded: %s", m.ErrDecode, path)
	default:
		err = json.Unmarshal(data, &occurrences)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", m.ErrDecode, path, err)
	}

	return occurrences, nil
}

func encodeJSON(w io.Writer, occurrences []m.Occurrence) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(occurrences)
}

func encodeCSV(w io.Writer, occurrences []m.Occurrence) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, o := range occurrences {
		row := []string{
			o.File,
			strconv.Itoa(o.Line),
			strconv.Itoa(o.Column),
			o.Content,
			strconv.FormatBool(o.IsLocalized),
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}
