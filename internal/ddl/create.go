// Package ddl turns PostgreSQL catalog metadata into BigQuery schema
// definitions. It only renders text; nothing here talks to a database.
package ddl

import (
	"fmt"
	"strings"
)

// Column is a single (name, declared type) pair read from the catalog.
type Column struct {
	Name string
	Type string
}

// Options controls how identifiers and types are rendered.
type Options struct {
	Dataset     string
	TableCase   CaseStyle
	ColumnCase  CaseStyle
	TypeMapping TypeMapping
}

// ColumnDef is a column after renaming and type mapping.
type ColumnDef struct {
	Name string
	Type string
}

// TableDef is a table ready to be rendered.
type TableDef struct {
	Dataset string
	Name    string
	Columns []ColumnDef
}

// BuildTableDef applies the configured case styles and type mapping. The
// dataset qualifier is never case-transformed.
func BuildTableDef(table string, columns []Column, opts Options) TableDef {
	mapping := opts.TypeMapping
	if mapping == nil {
		mapping = DefaultTypeMapping()
	}

	defs := make([]ColumnDef, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, ColumnDef{
			Name: ApplyCase(c.Name, opts.ColumnCase),
			Type: mapping.Lookup(c.Type),
		})
	}

	return TableDef{
		Dataset: opts.Dataset,
		Name:    ApplyCase(table, opts.TableCase),
		Columns: defs,
	}
}

// CreateTableSQL renders t as a BigQuery CREATE TABLE statement:
//
//	CREATE TABLE `dataset.table` (
//	  col1 TYPE1,
//	  col2 TYPE2
//	);
//
// A table without columns renders an empty line between the parentheses.
func CreateTableSQL(t TableDef) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, fmt.Sprintf("  %s %s", c.Name, c.Type))
	}

	return fmt.Sprintf("CREATE TABLE `%s.%s` (\n%s\n);",
		t.Dataset,
		t.Name,
		strings.Join(defs, ",\n"))
}

// GenerateCreateTable is BuildTableDef followed by CreateTableSQL.
func GenerateCreateTable(table string, columns []Column, opts Options) string {
	return CreateTableSQL(BuildTableDef(table, columns, opts))
}
