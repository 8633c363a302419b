package ddl

import (
	"sort"
	"strings"
)

// DefaultType is emitted for any source type missing from the mapping.
const DefaultType = "STRING"

// TypeMapping maps lower-cased PostgreSQL type names to BigQuery type names.
type TypeMapping map[string]string

// DefaultTypeMapping returns a fresh copy of the built-in PostgreSQL to
// BigQuery mapping.
func DefaultTypeMapping() TypeMapping {
	return TypeMapping{
		"character":                   "STRING",
		"character varying":           "STRING",
		"text":                        "STRING",
		"varchar":                     "STRING",
		"char":                        "STRING",
		"integer":                     "INT64",
		"numeric":                     "NUMERIC",
		"bigint":                      "INT64",
		"smallint":                    "INT64",
		"double precision":            "FLOAT64",
		"real":                        "FLOAT64",
		"boolean":                     "BOOL",
		"date":                        "DATE",
		"timestamp without time zone": "DATETIME",
		"timestamp with time zone":    "TIMESTAMP",
		"timestamp":                   "TIMESTAMP",
		"array":                       "STRING",
	}
}

// Merge returns a copy of m with overrides applied. Override keys are
// lower-cased so lookups stay case-insensitive.
func (m TypeMapping) Merge(overrides map[string]string) TypeMapping {
	out := make(TypeMapping, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Lookup maps a declared source type. Parameterized types such as
// numeric(10,2) are not normalized and fall through to DefaultType.
func (m TypeMapping) Lookup(sourceType string) string {
	if t, ok := m[strings.ToLower(sourceType)]; ok {
		return t
	}
	return DefaultType
}

// Keys returns the mapping's source types in sorted order.
func (m TypeMapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
