package export

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
)

const fileMode = 0o644

// FileSink writes the records as one JSON document. The document is built in
// a temporary file next to Path and renamed over it, so Path is never left
// half written.
type FileSink struct {
	Path   string
	Locale Locale
}

func NewFileSink(path string, locale Locale) *FileSink {
	return &FileSink{Path: path, Locale: locale}
}

func (f *FileSink) Name() string {
	return config.SinkFile
}

// Check fails when the target directory does not accept new files.
func (f *FileSink) Check(_ context.Context) error {
	scratch, err := os.CreateTemp(filepath.Dir(f.Path), ".conversas-check-*")
	if err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}

	_ = scratch.Close()

	return os.Remove(scratch.Name())
}

func (f *FileSink) Write(ctx context.Context, records []synthetic.CallRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	writer := bufio.NewWriter(tmp)

	err = WriteDocument(writer, records, f.Locale)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	err = writer.Flush()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}

	err = tmp.Sync()
	if err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}

	err = tmp.Chmod(fileMode)
	if err != nil {
		return fmt.Errorf("failed to set mode of %s: %w", tmp.Name(), err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	err = os.Rename(tmp.Name(), f.Path)
	if err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	committed = true

	return nil
}
