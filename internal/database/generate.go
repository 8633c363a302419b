package database

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/robmartinson/pg2bq/internal/ddl"
)

// Generate writes one labelled definition per configured table to w, in
// configured order. The first failing table aborts the run.
func (g *Generator) Generate(ctx context.Context, w io.Writer, cfg GenerateConfig) error {
	render, label, err := renderer(cfg.Format)
	if err != nil {
		return err
	}

	log.Println("Generating DDL for the specified tables:")

	for _, table := range cfg.Tables {
		columns, err := g.Columns(ctx, cfg.Schema, table)
		if err != nil {
			return fmt.Errorf("failed to read table %s: %w", table, err)
		}

		out, err := render(ddl.BuildTableDef(table, columns, cfg.Options))
		if err != nil {
			return fmt.Errorf("failed to render table %s: %w", table, err)
		}

		if _, err := fmt.Fprintf(w, "%s for table %s:\n%s\n", label, table, out); err != nil {
			return fmt.Errorf("failed to write table %s: %w", table, err)
		}
	}

	return nil
}

func renderer(format string) (func(ddl.TableDef) (string, error), string, error) {
	switch format {
	case "", FormatDDL:
		return func(t ddl.TableDef) (string, error) {
			return ddl.CreateTableSQL(t), nil
		}, "DDL", nil
	case FormatSchemaJSON:
		return ddl.SchemaJSON, "Schema", nil
	default:
		return nil, "", fmt.Errorf("unsupported format %q", format)
	}
}
