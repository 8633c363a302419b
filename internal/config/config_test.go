package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmartinson/pg2bq/internal/database"
	"github.com/robmartinson/pg2bq/internal/ddl"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	nv := viper.New()
	require.NoError(t, nv.BindPFlags(rootCmd.PersistentFlags()))
	return nv
}

func TestDefaults(t *testing.T) {
	nv := newTestViper(t)

	assert.Equal(t, database.Config{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		Database: "postgres",
		User:     "postgres",
		Password: "postgres",
		SSHPort:  22,
	}, connectionConfig(nv))

	gen := generateConfig(nv)
	assert.Equal(t, "public", gen.Schema)
	assert.Equal(t, []string{"test", "hello"}, gen.Tables)
	assert.Equal(t, database.FormatDDL, gen.Format)
	assert.Equal(t, "tables_ods", gen.Options.Dataset)
	assert.Equal(t, ddl.CaseUpper, gen.Options.TableCase)
	assert.Equal(t, ddl.CaseCamel, gen.Options.ColumnCase)
	assert.Equal(t, ddl.DefaultTypeMapping(), gen.Options.TypeMapping)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pg2bq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
driver: pgx
host: db.internal
port: 6543
schema: sales
tables:
  - orders
  - customers
dataset: raw
table-case: lower
column-case: as_is
format: schema-json
type_mapping:
  jsonb: JSON
  Integer: NUMERIC
`), 0o600))

	nv := newTestViper(t)
	nv.SetConfigFile(path)
	require.NoError(t, nv.ReadInConfig())

	conn := connectionConfig(nv)
	assert.Equal(t, "pgx", conn.Driver)
	assert.Equal(t, "db.internal", conn.Host)
	assert.Equal(t, 6543, conn.Port)

	gen := generateConfig(nv)
	assert.Equal(t, "sales", gen.Schema)
	assert.Equal(t, []string{"orders", "customers"}, gen.Tables)
	assert.Equal(t, database.FormatSchemaJSON, gen.Format)
	assert.Equal(t, "raw", gen.Options.Dataset)
	assert.Equal(t, ddl.CaseLower, gen.Options.TableCase)
	assert.Equal(t, ddl.CaseAsIs, gen.Options.ColumnCase)
	assert.Equal(t, "JSON", gen.Options.TypeMapping.Lookup("JSONB"))
	assert.Equal(t, "NUMERIC", gen.Options.TypeMapping.Lookup("integer"))
	assert.Equal(t, "INT64", gen.Options.TypeMapping.Lookup("bigint"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PG2BQ_DATASET", "from_env")
	t.Setenv("PG2BQ_TABLE_CASE", "as_is")

	nv := newTestViper(t)
	nv.SetEnvPrefix("PG2BQ")
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	nv.AutomaticEnv()

	gen := generateConfig(nv)
	assert.Equal(t, "from_env", gen.Options.Dataset)
	assert.Equal(t, ddl.CaseAsIs, gen.Options.TableCase)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTypesCommand(t *testing.T) {
	out, err := execute(t, "types")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(ddl.DefaultTypeMapping()))
	assert.Equal(t, "array -> STRING", lines[0])
	assert.Contains(t, lines, "integer -> INT64")
	assert.Contains(t, lines, "timestamp with time zone -> TIMESTAMP")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	t.Setenv("PG2BQ_FORMAT", "xml")

	_, err := execute(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestExplicitConfigFileErrors(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("tables: [orders\n"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "absent.yaml")},
		{"malformed file", malformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { cfgFile = "" })

			_, err := execute(t, "--config", tt.path, "version")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to read config file")
		})
	}
}

func TestTablesFromEnvCommaSeparated(t *testing.T) {
	t.Setenv("PG2BQ_TABLES", "orders, customers")

	nv := newTestViper(t)
	nv.SetEnvPrefix("PG2BQ")
	nv.AutomaticEnv()

	assert.Equal(t, []string{"orders", "customers"}, generateConfig(nv).Tables)
}

func TestSplitTables(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"list entries", []string{"test", "hello"}, []string{"test", "hello"}},
		{"comma separated", []string{"a,b , c"}, []string{"a", "b", "c"}},
		{"empty parts dropped", []string{"a,,", " "}, []string{"a"}},
		{"nothing", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitTables(tt.input))
		})
	}
}
