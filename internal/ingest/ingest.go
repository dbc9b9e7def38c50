// Package ingest turns a delimited task table into normalized task records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bryan-cox/streakledger/internal/model"
)

// Header names recognized in the source table.
const (
	ColumnStatus   = "Status"
	ColumnTaskName = "Task name"
	ColumnAssignee = "Assignee"
	ColumnDue      = "Due"
	ColumnUserName = "user_name" // optional, matched case-insensitively
)

var (
	// ErrMissingColumn is wrapped when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoHeader is returned for a table without even a header row.
	ErrNoHeader = errors.New("table has no header row")
)

// columns holds the cell index of each header; -1 means absent.
type columns struct {
	status   int
	taskName int
	assignee int
	due      int
	userName int
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{status: -1, taskName: -1, assignee: -1, due: -1, userName: -1}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case name == ColumnStatus && cols.status < 0:
			cols.status = i
		case name == ColumnTaskName && cols.taskName < 0:
			cols.taskName = i
		case name == ColumnAssignee && cols.assignee < 0:
			cols.assignee = i
		case name == ColumnDue && cols.due < 0:
			cols.due = i
		case strings.EqualFold(name, ColumnUserName) && cols.userName < 0:
			cols.userName = i
		}
	}

	var missing []string
	for _, c := range []struct {
		name string
		idx  int
	}{
		{ColumnStatus, cols.status},
		{ColumnTaskName, cols.taskName},
		{ColumnAssignee, cols.assignee},
		{ColumnDue, cols.due},
	} {
		if c.idx < 0 {
			missing = append(missing, fmt.Sprintf("%q", c.name))
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

// Ingest converts a grid of cells, whose first row is the header, into task
// records. A missing required column fails the whole call.
func Ingest(table [][]string) ([]model.TaskRecord, error) {
	if len(table) == 0 {
		return nil, ErrNoHeader
	}
	header := table[0]
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	records := make([]model.TaskRecord, 0, len(table)-1)
	for i, row := range table[1:] {
		if len(row) < len(header) {
			// Row numbers are 1-based and count the header.
			slog.Debug("row shorter than header, treating missing cells as empty",
				"row", i+2, "cells", len(row), "columns", len(header))
		}

		rec := model.TaskRecord{
			Status:   cell(row, cols.status),
			TaskName: cell(row, cols.taskName),
			Assignee: cell(row, cols.assignee),
			Due:      cell(row, cols.due),
		}
		rec.EntityKey = EntityKey(cell(row, cols.userName), rec.TaskName)
		records = append(records, rec)
	}
	return records, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// EntityKey returns userName when set. Otherwise it derives the key from the
// part of taskName before the first colon, e.g. "Design: write spec" -> "Design".
func EntityKey(userName, taskName string) string {
	if userName != "" {
		return userName
	}
	prefix, _, _ := strings.Cut(taskName, ":")
	return strings.TrimSpace(prefix)
}

// ReadCSV reads a comma-separated table from r and ingests it.
func ReadCSV(r io.Reader) ([]model.TaskRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse CSV: %w", err)
	}
	return Ingest(table)
}

// LoadFile reads and ingests the CSV file at path.
func LoadFile(path string) ([]model.TaskRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file '%s': %w", path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("could not ingest '%s': %w", path, err)
	}
	return records, nil
}
