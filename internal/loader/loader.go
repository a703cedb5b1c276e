// Package loader reads the daily gap and intraday bar CSV artifacts.
//
// Either artifact may be a single CSV file or a directory of CSV files (one
// per ticker or Spark part files). Directory files are read
// concurrently and concatenated in file-name order.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gapfade/internal/market"

	"golang.org/x/sync/errgroup"
)

// ErrNoInputFiles is returned when an artifact directory holds no CSV files.
var ErrNoInputFiles = errors.New("no csv files found")

// ResolveFiles expands path into the CSV files it names.
func ResolveFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		files = append(files, filepath.Join(path, name))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoInputFiles)
	}

	sort.Strings(files)
	return files, nil
}

// loadAll parses every file with at most limit files in flight and returns
// the rows in file order. The first error cancels the remaining loads.
func loadAll[T any](ctx context.Context, files []string, limit int, parse func(string) ([]T, error)) ([]T, error) {
	results := make([][]T, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := parse(file)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, rows := range results {
		total += len(rows)
	}
	out := make([]T, 0, total)
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// table is a CSV file with its header resolved to column positions.
type table struct {
	artifact string
	columns  map[string]int
	records  [][]string
}

func readTable(path string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &market.SchemaError{Artifact: path, Column: required[0]}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[strings.TrimSpace(name)] = i
	}

	if err := checkColumns(path, columns, required); err != nil {
		return nil, err
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: read rows: %w", path, err)
	}

	return &table{artifact: path, columns: columns, records: records}, nil
}

// cell returns the trimmed value of column in record, or "" when the record
// is shorter than the header.
func (t *table) cell(record []string, column string) string {
	i := t.columns[column]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
