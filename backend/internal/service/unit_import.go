package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"helpdesk-system/backend/internal/dto"
	pkgerrors "helpdesk-system/backend/pkg/errors"
)

const maxImportRows = 500

var (
	ErrImportNoData      = pkgerrors.Validation("The spreadsheet has no data rows.")
	ErrImportTooManyRows = pkgerrors.Validationf("The spreadsheet has more than %d rows.", maxImportRows)
	ErrImportBadHeader   = pkgerrors.Validation("The spreadsheet header needs code, name and topics columns.")
	ErrImportBadFile     = pkgerrors.Validation("Unable to read the spreadsheet.")
)

type importUnitRow struct {
	Row    int
	Code   string
	Name   string
	Topics []string
}

// Import adds every row of an xlsx sheet as a unit of the helpdesk.
func (s *unitService) Import(ctx context.Context, helpdeskID int, reader io.Reader) (*dto.ImportUnitsResponse, error) {
	rows, err := parseUnitSheet(reader)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportUnitsResponse{Total: len(rows)}
	for _, row := range rows {
		if row.Code == "" || row.Name == "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUnitError{Row: row.Row, Reason: "code and name are required"})
			continue
		}

		_, err := s.Save(ctx, &dto.SaveUnitRequest{
			HelpdeskID: helpdeskID,
			Code:       row.Code,
			Name:       row.Name,
			Topics:     row.Topics,
		})
		if err != nil {
			// a missing helpdesk fails every row the same way
			if errors.Is(err, ErrHelpdeskNotFound) || !isBusinessError(err) {
				return nil, err
			}
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUnitError{Row: row.Row, Reason: err.Error()})
			continue
		}
		resp.Success++
	}

	s.logger.Info("units imported",
		zap.Int("helpdesk_id", helpdeskID),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

// parseUnitSheet reads the first sheet; row one is the header.
func parseUnitSheet(reader io.Reader) ([]importUnitRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, ErrImportBadFile
	}
	defer f.Close()

	sheetRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(sheetRows) < 2 {
		return nil, ErrImportNoData
	}

	col := unitHeaderIndex(sheetRows[0])
	if col["code"] < 0 || col["name"] < 0 || col["topics"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []importUnitRow
	for i := 1; i < len(sheetRows); i++ {
		raw := sheetRows[i]
		item := importUnitRow{
			Row:  i + 1,
			Code: cellAt(raw, col["code"]),
			Name: cellAt(raw, col["name"]),
		}
		for _, t := range strings.Split(cellAt(raw, col["topics"]), ";") {
			if t = strings.TrimSpace(t); t != "" {
				item.Topics = append(item.Topics, t)
			}
		}

		if item.Code == "" && item.Name == "" && len(item.Topics) == 0 {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// unitHeaderIndex finds the known columns by name, -1 when absent.
func unitHeaderIndex(header []string) map[string]int {
	idx := map[string]int{"code": -1, "name": -1, "topics": -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; ok && idx[key] < 0 {
			idx[key] = i
		}
	}
	return idx
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
