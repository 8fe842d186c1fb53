package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestFileSinkWritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversas.json")
	sink := NewFileSink(path, LocalePortuguese)

	require.NoError(t, sink.Check(context.Background()))
	require.NoError(t, sink.Write(context.Background(), sampleRecords()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "informação")

	var decoded []map[string]any

	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Len(t, decoded, 2)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(fileMode), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFileSinkReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversas.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), fileMode))

	require.NoError(t, NewFileSink(path, LocaleEnglish).Write(context.Background(), sampleRecords()[:1]))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), `"phoneNumber": "+55 11 91234-5678"`)
}

func TestFileSinkMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "conversas.json")
	sink := NewFileSink(path, LocaleEnglish)

	require.Error(t, sink.Check(context.Background()))
	require.Error(t, sink.Write(context.Background(), sampleRecords()))
	require.NoFileExists(t, path)
}

func TestFileSinkCanceledLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conversas.json")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileSink(path, LocaleEnglish).Write(ctx, sampleRecords())
	require.ErrorIs(t, err, context.Canceled)
	require.NoFileExists(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
