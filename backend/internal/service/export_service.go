package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"helpdesk-system/backend/internal/repository"
)

var ErrExportGenerateFail = errors.New("generate export file failed")

// ExportTables lists the tables dumped by an export, in output order.
var ExportTables = []string{
	"helpdesksettings",
	"timespans",
	"helpdeskunit",
	"users",
	"unit",
	"topic",
	"nicknames",
	"queueitem",
	"checkinhistory",
	"checkinqueueitem",
}

// exportOmit lists columns never written to an export.
var exportOmit = map[string][]string{
	"users": {"password"},
}

// ExportService dumps the database for download or backup.
//
// Both formats return the file content with a suggested filename. Zip
// exports are also written to the configured directory when one is set.
type ExportService interface {
	// ExportZip writes one CSV per table into a zip archive.
	ExportZip(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportWorkbook writes one sheet per table into an xlsx workbook.
	ExportWorkbook(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	dir    string
	logger *zap.Logger
}

// NewExportService creates an ExportService. An empty dir disables
// writing exports to disk.
func NewExportService(repo *repository.Repository, dir string, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, dir: dir, logger: logger}
}

// ────────────────────── ExportZip ──────────────────────

func (s *exportService) ExportZip(ctx context.Context) (*bytes.Buffer, string, error) {
	dumps, err := s.dumpAll(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, d := range dumps {
		w, err := zw.Create(d.Name + ".csv")
		if err != nil {
			return nil, "", s.generateFailed(err)
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(d.Columns); err != nil {
			return nil, "", s.generateFailed(err)
		}
		if err := cw.WriteAll(d.Rows); err != nil {
			return nil, "", s.generateFailed(err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, "", s.generateFailed(err)
	}

	filename := exportFilename("zip")
	if s.dir != "" {
		path := filepath.Join(s.dir, filename)
		if err := writeExportFile(path, buf.Bytes()); err != nil {
			s.logger.Error("write export file failed", zap.String("path", path), zap.Error(err))
			return nil, "", err
		}
		s.logger.Info("database exported", zap.String("path", path), zap.Int("bytes", buf.Len()))
	}

	return buf, filename, nil
}

// ────────────────────── ExportWorkbook ──────────────────────

func (s *exportService) ExportWorkbook(ctx context.Context) (*bytes.Buffer, string, error) {
	dumps, err := s.dumpAll(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", s.generateFailed(err)
	}

	for i, d := range dumps {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", d.Name); err != nil {
				return nil, "", s.generateFailed(err)
			}
		} else if _, err := f.NewSheet(d.Name); err != nil {
			return nil, "", s.generateFailed(err)
		}

		if err := f.SetSheetRow(d.Name, "A1", &d.Columns); err != nil {
			return nil, "", s.generateFailed(err)
		}
		if len(d.Columns) > 0 {
			last := cell(colName(len(d.Columns)-1), 1)
			_ = f.SetCellStyle(d.Name, "A1", last, headerStyle)
		}

		for r, record := range d.Rows {
			row := record
			if err := f.SetSheetRow(d.Name, cell("A", r+2), &row); err != nil {
				return nil, "", s.generateFailed(err)
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.generateFailed(err)
	}
	return buf, exportFilename("xlsx"), nil
}

// ── helpers ──

// dumpAll dumps ExportTables in order, stopping at the first failure.
func (s *exportService) dumpAll(ctx context.Context) ([]*repository.TableDump, error) {
	dumps := make([]*repository.TableDump, 0, len(ExportTables))
	for _, table := range ExportTables {
		d, err := s.repo.Export.Dump(ctx, table, exportOmit[table]...)
		if err != nil {
			s.logger.Error("dump table failed", zap.String("table", table), zap.Error(err))
			return nil, err
		}
		dumps = append(dumps, d)
	}
	return dumps, nil
}

func (s *exportService) generateFailed(err error) error {
	s.logger.Error("generate export failed", zap.Error(err))
	return ErrExportGenerateFail
}

func exportFilename(ext string) string {
	return fmt.Sprintf("databaseexport_%s.%s", timeNow().Format("20060102_150405"), ext)
}

func writeExportFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

// colName converts a zero-based index to a column letter.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
