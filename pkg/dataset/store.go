package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const nullCell = "NULL"

var (
	// ErrEmptyQuery is returned for blank query text
	ErrEmptyQuery = errors.New("empty query")
	// ErrNotReadOnly is returned when a read-only store receives a write statement
	ErrNotReadOnly = errors.New("only read-only statements are allowed")
)

// Store runs queries against the dataset
type Store interface {
	Query(ctx context.Context, query string) (*Table, error)
}

// Config holds store configuration
type Config struct {
	Driver   string
	DSN      string
	ReadOnly bool
	MaxRows  int
	Logger   zerolog.Logger
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// SQLStore is a Store on database/sql
type SQLStore struct {
	db       *sql.DB
	driver   string
	readOnly bool
	maxRows  int
	logger   zerolog.Logger
}

// Open opens the configured database and verifies the connection
func Open(ctx context.Context, cfg Config) (*SQLStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported dataset driver: %s", driver)
	}
	if cfg.DSN == "" {
		return nil, errors.New("dataset dsn is required")
	}

	dsn := cfg.DSN
	if driver == DriverSQLite && cfg.ReadOnly {
		dsn = sqliteReadOnlyDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLStore{
		db:       db,
		driver:   driver,
		readOnly: cfg.ReadOnly,
		maxRows:  cfg.MaxRows,
		logger:   cfg.Logger.With().Str("component", "dataset").Str("driver", driver).Logger(),
	}, nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Query runs query and collects the full result. MaxRows, when positive,
// caps the number of rows collected. A read-only store runs the query in a
// read-only transaction that is always rolled back.
func (s *SQLStore) Query(ctx context.Context, query string) (*Table, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	var q queryer = s.db
	if s.readOnly {
		if !IsReadOnly(query) {
			return nil, ErrNotReadOnly
		}
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
		if err != nil {
			return nil, fmt.Errorf("failed to begin read-only transaction: %w", err)
		}
		defer tx.Rollback()
		// go-sqlite3 ignores TxOptions.ReadOnly
		if s.driver == DriverSQLite {
			if _, err := tx.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
				return nil, fmt.Errorf("failed to enable query_only: %w", err)
			}
		}
		q = tx
	}

	start := time.Now()
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: columns, Rows: [][]string{}}
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if s.maxRows > 0 && len(table.Rows) >= s.maxRows {
			table.Truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("rows", len(table.Rows)).
		Bool("truncated", table.Truncated).
		Dur("duration", time.Since(start)).
		Msg("Query executed")

	return table, nil
}

func sqliteReadOnlyDSN(dsn string) string {
	if strings.Contains(dsn, "mode=") || dsn == ":memory:" {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&mode=ro"
	}
	return dsn + "?mode=ro"
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return nullCell
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
