package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	m "stringscan.dev/pkg/stringscan/internal/model"
	"stringscan.dev/pkg/stringscan/internal/syntax"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeBytes(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newTestWorker(localizers ...string) ParseWorker {
	return newTestWorkerWith(adapter.NewTreeSitterSyntaxAdapter(), localizers...)
}

func newTestWorkerWith(syntaxAdapter *adapter.TreeSitterSyntaxAdapter, localizers ...string) ParseWorker {
	return NewParseWorker(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewBOMTextDecoder(),
		syntaxAdapter,
		NewLiteralExtractor(syntaxAdapter, localizers...),
	)
}

func newTestScanner() Scanner {
	fsAdapter := adapter.NewLocalSourceFSAdapter()

	return NewScanner(fsAdapter, NewFileDiscovery(fsAdapter), newTestWorker())
}

// parseFolded parses Swift or C source the way the worker does.
func parseFolded(t *testing.T, a *adapter.TreeSitterSyntaxAdapter, name, src string) *syntax.Tree {
	t.Helper()

	tree, err := a.Parse(context.Background(), m.Path(name), []byte(src))
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", name, err)
	}

	folded, err := a.FoldOperators(tree)
	if err != nil {
		t.Fatalf("FoldOperators(%s) error = %v", name, err)
	}

	return folded
}
