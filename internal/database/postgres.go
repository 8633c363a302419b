package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/robmartinson/pg2bq/internal/ddl"
)

const columnsQuery = `
	SELECT column_name, data_type
	FROM information_schema.columns
	WHERE table_schema = $1
	AND table_name = $2
	ORDER BY ordinal_position
`

// DSN builds a key/value connection string understood by both lib/pq and pgx.
// Every value is quoted, so spaces, quotes and empty values survive.
func (c Config) DSN() string {
	connStr := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s",
		quoteValue(c.Host),
		c.Port,
		quoteValue(c.Database),
		quoteValue(c.User),
	)
	if c.Password != "" {
		connStr += " password=" + quoteValue(c.Password)
	}
	return connStr
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteValue(s string) string {
	return "'" + dsnEscaper.Replace(s) + "'"
}

func driverName(driver string) (string, error) {
	switch driver {
	case "", "postgres", "pq":
		return "postgres", nil
	case "pgx":
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

// NewGenerator opens and verifies the connection to the source database.
// The caller must Close the returned Generator.
func NewGenerator(ctx context.Context, config Config) (*Generator, error) {
	driver, err := driverName(config.Driver)
	if err != nil {
		return nil, err
	}

	var connStr string
	var cleanup func()

	if config.ConnectionString != "" {
		connStr = config.ConnectionString
	} else if config.SSHKey != "" {
		connStr, cleanup, err = SetupTunnel(config)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SSH tunnel: %w", err)
		}
	} else {
		connStr = config.DSN()
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if cleanup != nil {
			cleanup()
		}
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &Generator{
		sourceDB: db,
		cleanup:  cleanup,
	}, nil
}

// Close closes the database connection and tears down the tunnel
func (g *Generator) Close() {
	if g.sourceDB != nil {
		g.sourceDB.Close()
	}
	if g.cleanup != nil {
		g.cleanup()
	}
}

// Columns returns the columns of schema.table in ordinal order. A table that
// does not exist yields no columns and no error.
func (g *Generator) Columns(ctx context.Context, schema, table string) ([]ddl.Column, error) {
	rows, err := g.sourceDB.QueryContext(ctx, columnsQuery, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var columns []ddl.Column
	for rows.Next() {
		var col ddl.Column
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s.%s: %w", schema, table, err)
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s.%s: %w", schema, table, err)
	}

	return columns, nil
}
