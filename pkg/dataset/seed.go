package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Seed creates the retail table if needed and loads rows from a CSV whose
// header names the retail columns (in any order). It returns the number of
// rows inserted. The store must not be read-only.
func (s *SQLStore) Seed(ctx context.Context, r io.Reader) (int, error) {
	if s.readOnly {
		return 0, errors.New("cannot seed a read-only store")
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL()); err != nil {
		return 0, fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.insertSQL())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read csv line %d: %w", count+2, err)
		}

		args := make([]interface{}, len(RetailColumns))
		for i, col := range RetailColumns {
			v, err := convertCell(col, record[index[i]])
			if err != nil {
				return count, fmt.Errorf("csv line %d: %w", count+2, err)
			}
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return count, fmt.Errorf("failed to insert csv line %d: %w", count+2, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	s.logger.Info().Int("rows", count).Str("table", DefaultTable).Msg("Dataset seeded")
	return count, nil
}

func columnIndex(header []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	index := make([]int, len(RetailColumns))
	var missing []string
	for i, col := range RetailColumns {
		pos, ok := positions[col.Name]
		if !ok {
			missing = append(missing, col.Name)
			continue
		}
		index[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv is missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func convertCell(col Column, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch col.Type {
	case "INTEGER":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: invalid integer %q", col.Name, raw)
		}
		return v, nil
	case "REAL":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: invalid number %q", col.Name, raw)
		}
		return v, nil
	default:
		return raw, nil
	}
}

func createTableSQL() string {
	defs := make([]string, len(RetailColumns))
	for i, col := range RetailColumns {
		defs[i] = fmt.Sprintf("%s %s", col.Name, col.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", DefaultTable, strings.Join(defs, ", "))
}

func (s *SQLStore) insertSQL() string {
	names := make([]string, len(RetailColumns))
	params := make([]string, len(RetailColumns))
	for i, col := range RetailColumns {
		names[i] = col.Name
		if s.driver == DriverPostgres {
			params[i] = fmt.Sprintf("$%d", i+1)
		} else {
			params[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", DefaultTable, strings.Join(names, ", "), strings.Join(params, ", "))
}
