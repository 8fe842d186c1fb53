package export

import (
	"bytes"
	"context"
	"path"

	"github.com/josericardo-fo/jul.ia-bancodedados/internal/config"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/logging"
	"github.com/josericardo-fo/jul.ia-bancodedados/internal/synthetic"
	"go.uber.org/zap"
)

type ObjectUploader interface {
	Check(ctx context.Context) error
	Upload(ctx context.Context, buffer *bytes.Buffer, objectKey string) (string, error)
}

// MinioSink uploads the same document the file sink writes, keyed by run.
type MinioSink struct {
	Uploader   ObjectUploader
	RunID      string
	ObjectName string
	Locale     Locale
}

func NewMinioSink(uploader ObjectUploader, runID, outputPath string, locale Locale) *MinioSink {
	return &MinioSink{
		Uploader:   uploader,
		RunID:      runID,
		ObjectName: path.Base(outputPath),
		Locale:     locale,
	}
}

func (m *MinioSink) Name() string {
	return config.SinkMinio
}

func (m *MinioSink) Check(ctx context.Context) error {
	return m.Uploader.Check(ctx)
}

func (m *MinioSink) Write(ctx context.Context, records []synthetic.CallRecord) error {
	buffer, err := MarshalDocument(records, m.Locale)
	if err != nil {
		return err
	}

	url, err := m.Uploader.Upload(ctx, buffer, m.objectKey())
	if err != nil {
		return err
	}

	logging.Logger.Info("Document uploaded",
		zap.String("run_id", m.RunID),
		zap.String("url", url),
	)

	return nil
}

func (m *MinioSink) objectKey() string {
	return path.Join(m.RunID, m.ObjectName)
}
