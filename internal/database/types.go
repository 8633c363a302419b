package database

import (
	"database/sql"

	"github.com/robmartinson/pg2bq/internal/ddl"
)

// Config holds all configuration for the source database connection
type Config struct {
	Driver           string
	ConnectionString string
	Host             string
	Port             int
	Database         string
	User             string
	Password         string
	SSHKey           string
	SSHUser          string
	SSHHost          string
	SSHPort          int
}

// Output formats understood by Generate
const (
	FormatDDL        = "ddl"
	FormatSchemaJSON = "schema-json"
)

// GenerateConfig describes which tables to read and how to render them
type GenerateConfig struct {
	Schema  string
	Tables  []string
	Format  string
	Options ddl.Options
}

// Generator reads column metadata from PostgreSQL and renders BigQuery DDL
type Generator struct {
	sourceDB *sql.DB
	cleanup  func()
}
