package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// TableDump is a whole table rendered as text, header first.
type TableDump struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ExportRepository reads whole tables for export.
type ExportRepository interface {
	// Dump reads every row of table ordered by its first column. Columns
	// listed in omit are left out.
	Dump(ctx context.Context, table string, omit ...string) (*TableDump, error)
}

type exportRepo struct {
	db *gorm.DB
}

// NewExportRepo creates an ExportRepository.
func NewExportRepo(db *gorm.DB) ExportRepository {
	return &exportRepo{db: db}
}

func (r *exportRepo) Dump(ctx context.Context, table string, omit ...string) (*TableDump, error) {
	rows, err := r.db.WithContext(ctx).Table(table).Order("1").Rows()
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}

	skip := make(map[string]bool, len(omit))
	for _, c := range omit {
		skip[c] = true
	}
	keep := make([]int, 0, len(columns))
	dump := &TableDump{Name: table}
	for i, c := range columns {
		if !skip[c] {
			keep = append(keep, i)
			dump.Columns = append(dump.Columns, c)
		}
	}

	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("dump %s: %w", table, err)
		}
		record := make([]string, 0, len(keep))
		for _, i := range keep {
			record = append(record, formatCell(values[i]))
		}
		dump.Rows = append(dump.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}

	return dump, nil
}

// formatCell renders a scanned column value as spreadsheet text.
func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case []byte:
		return string(x)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
