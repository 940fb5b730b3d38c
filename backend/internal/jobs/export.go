package jobs

import (
	"bytes"
	"context"

	"go.uber.org/zap"
)

// Exporter writes a database export archive.
type Exporter interface {
	ExportZip(ctx context.Context) (*bytes.Buffer, string, error)
}

// ExportJob writes a zip backup of the database to the export directory.
type ExportJob struct {
	exporter Exporter
	logger   *zap.Logger
}

// NewExportJob creates an ExportJob.
func NewExportJob(exporter Exporter, logger *zap.Logger) *ExportJob {
	return &ExportJob{exporter: exporter, logger: logger}
}

func (j *ExportJob) Name() string { return "export" }

func (j *ExportJob) Run(ctx context.Context) error {
	buf, filename, err := j.exporter.ExportZip(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("backup written", zap.String("file", filename), zap.Int("bytes", buf.Len()))
	return nil
}
