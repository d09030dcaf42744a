package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	"stringscan.dev/pkg/stringscan/internal/controller"
	uimocks "stringscan.dev/pkg/stringscan/internal/controller/mocks"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

func newTestWorkflow(ui controller.UI) Workflow {
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	discovery := NewFileDiscovery(fsAdapter)

	return NewWorkflow(
		fsAdapter,
		adapter.NewFileResultStore(fsAdapter),
		ui,
		discovery,
		NewScanner(fsAdapter, discovery, newTestWorker()),
	)
}

func expectScanUI(ui *uimocks.MockUI) {
	ui.On("Start", mock.Anything, mock.Anything).Return(nil)
	ui.On("Close", mock.Anything).Return()
	ui.On("DisplayDiscovery", mock.Anything, mock.Anything, mock.Anything).Return()
	ui.On("DisplayProgress", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
}

func TestWorkflow_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App.swift"), "let t = NSLocalizedString(\"Title\", comment: \"\")\n")
	writeBytes(t, filepath.Join(root, "Latin1.swift"), []byte("let caf\xe9 = 1\n"))

	ui := uimocks.NewMockUI(t)
	expectScanUI(ui)
	ui.On("DisplayFileError", mock.Anything, mock.MatchedBy(func(f m.FileFailure) bool {
		return filepath.Base(string(f.Path)) == "Latin1.swift" && f.Kind == m.FailureDecode
	})).Return().Once()

	resultsPath := m.Path(filepath.Join(root, ResultsFileName))
	ui.On("DisplayResults", mock.Anything, mock.MatchedBy(func(r m.ScanResult) bool {
		return len(r.Occurrences) == 2 && len(r.Failures) == 1 && r.RunID != ""
	}), resultsPath).Return(nil)

	var payload bytes.Buffer

	result, err := newTestWorkflow(ui).Scan(context.Background(), ScanArgs{
		Root:          m.Path(root),
		Discovery:     DefaultDiscoveryOptions(),
		Parallel:      2,
		RelativePaths: true,
		Payload:       &payload,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)

	written, err := os.ReadFile(string(resultsPath))
	require.NoError(t, err)
	assert.Equal(t, payload.String(), string(written))

	var decoded []m.Occurrence
	require.NoError(t, json.Unmarshal(written, &decoded))
	assert.Equal(t, []m.Occurrence{
		{File: "App.swift", Line: 1, Column: 27, Content: "Title", IsLocalized: true},
		{File: "App.swift", Line: 1, Column: 45, Content: ""},
	}, decoded)
}

func TestWorkflow_ScanNoWriteCustomOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App.swift"), "print(\"x\")\n")

	t.Run("no write", func(t *testing.T) {
		ui := uimocks.NewMockUI(t)
		expectScanUI(ui)
		ui.On("DisplayResults", mock.Anything, mock.Anything, m.Path("")).Return(nil)

		_, err := newTestWorkflow(ui).Scan(context.Background(), ScanArgs{
			Root:      m.Path(root),
			Discovery: DefaultDiscoveryOptions(),
			NoWrite:   true,
		})
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(root, ResultsFileName))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("csv output", func(t *testing.T) {
		output := m.Path(filepath.Join(t.TempDir(), "out.csv"))

		ui := uimocks.NewMockUI(t)
		expectScanUI(ui)
		ui.On("DisplayResults", mock.Anything, mock.Anything, output).Return(nil)

		_, err := newTestWorkflow(ui).Scan(context.Background(), ScanArgs{
			Root:          m.Path(root),
			Discovery:     DefaultDiscoveryOptions(),
			RelativePaths: true,
			Output:        output,
			Format:        adapter.FormatCSV,
		})
		require.NoError(t, err)

		written, err := os.ReadFile(string(output))
		require.NoError(t, err)
		assert.Equal(t, "file,line,column,content,isLocalized\nApp.swift,1,7,x,false\n", string(written))
	})
}

func TestWorkflow_ScanInvalidRoot(t *testing.T) {
	ui := uimocks.NewMockUI(t)
	ui.On("Start", mock.Anything, mock.Anything).Return(nil)
	ui.On("Close", mock.Anything).Return()

	_, err := newTestWorkflow(ui).Scan(context.Background(), ScanArgs{
		Root:      m.Path(filepath.Join(t.TempDir(), "missing")),
		Discovery: DefaultDiscoveryOptions(),
	})
	require.ErrorIs(t, err, m.ErrInvalidRoot)
}

func TestWorkflow_List(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.swift"), "")
	writeFile(t, filepath.Join(root, "Pods/B.swift"), "")

	want := []m.Path{m.Path(filepath.Join(root, "A.swift"))}

	ui := uimocks.NewMockUI(t)
	ui.On("Start", mock.Anything, mock.Anything).Return(nil)
	ui.On("Close", mock.Anything).Return()
	ui.On("DisplayFileList", mock.Anything, m.Path(root), want).Return(nil)

	paths, err := newTestWorkflow(ui).List(context.Background(), ListArgs{
		Root:      m.Path(root),
		Discovery: DefaultDiscoveryOptions(),
	})
	require.NoError(t, err)
	assert.Equal(t, want, paths)
}

func TestWorkflow_Compare(t *testing.T) {
	dir := t.TempDir()
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	store := adapter.NewFileResultStore(fsAdapter)

	base := []m.Occurrence{{File: "A.swift", Line: 1, Column: 1, Content: "a"}}
	changed := []m.Occurrence{{File: "A.swift", Line: 1, Column: 1, Content: "b"}}

	oldPath := m.Path(filepath.Join(dir, "old.json"))
	samePath := m.Path(filepath.Join(dir, "same.msgpack"))
	newPath := m.Path(filepath.Join(dir, "new.json"))

	require.NoError(t, store.Save(oldPath, adapter.FormatJSON, base))
	require.NoError(t, store.Save(samePath, adapter.FormatMsgpack, base))
	require.NoError(t, store.Save(newPath, adapter.FormatJSON, changed))

	t.Run("identical across formats", func(t *testing.T) {
		ui := uimocks.NewMockUI(t)
		ui.On("Start", mock.Anything, mock.Anything).Return(nil)
		ui.On("Close", mock.Anything).Return()
		ui.On("DisplayComparison", mock.Anything, oldPath, samePath, "").Return(nil)

		err := newTestWorkflow(ui).Compare(context.Background(), CompareArgs{Old: oldPath, New: samePath})
		require.NoError(t, err)
	})

	t.Run("different", func(t *testing.T) {
		ui := uimocks.NewMockUI(t)
		ui.On("Start", mock.Anything, mock.Anything).Return(nil)
		ui.On("Close", mock.Anything).Return()
		ui.On("DisplayComparison", mock.Anything, oldPath, newPath, mock.MatchedBy(func(diff string) bool {
			return bytes.Contains([]byte(diff), []byte(`-    "content": "a",`)) &&
				bytes.Contains([]byte(diff), []byte(`+    "content": "b",`))
		})).Return(nil)

		err := newTestWorkflow(ui).Compare(context.Background(), CompareArgs{Old: oldPath, New: newPath})
		require.ErrorIs(t, err, m.ErrResultsDiffer)
	})

	t.Run("missing file", func(t *testing.T) {
		ui := uimocks.NewMockUI(t)
		ui.On("Start", mock.Anything, mock.Anything).Return(nil)
		ui.On("Close", mock.Anything).Return()

		err := newTestWorkflow(ui).Compare(context.Background(), CompareArgs{Old: oldPath, New: m.Path(filepath.Join(dir, "nope.json"))})
		require.ErrorIs(t, err, m.ErrRead)
	})
}
