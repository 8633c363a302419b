package ddl

import (
	"fmt"

	"cloud.google.com/go/bigquery"
)

// fieldType converts a mapped type name to the BigQuery field type used in
// JSON schema files.
func fieldType(t string) bigquery.FieldType {
	switch t {
	case "INT64", "INTEGER":
		return bigquery.IntegerFieldType
	case "FLOAT64", "FLOAT":
		return bigquery.FloatFieldType
	case "BOOL", "BOOLEAN":
		return bigquery.BooleanFieldType
	case "NUMERIC":
		return bigquery.NumericFieldType
	case "BIGNUMERIC":
		return bigquery.BigNumericFieldType
	case "DATE":
		return bigquery.DateFieldType
	case "DATETIME":
		return bigquery.DateTimeFieldType
	case "TIMESTAMP":
		return bigquery.TimestampFieldType
	case "TIME":
		return bigquery.TimeFieldType
	case "BYTES":
		return bigquery.BytesFieldType
	case "JSON":
		return bigquery.JSONFieldType
	case "GEOGRAPHY":
		return bigquery.GeographyFieldType
	default:
		return bigquery.StringFieldType
	}
}

// Schema converts t into a BigQuery schema. All fields are NULLABLE.
func Schema(t TableDef) bigquery.Schema {
	schema := make(bigquery.Schema, 0, len(t.Columns))
	for _, c := range t.Columns {
		schema = append(schema, &bigquery.FieldSchema{
			Name: c.Name,
			Type: fieldType(c.Type),
		})
	}
	return schema
}

// SchemaJSON renders t in the JSON schema format accepted by bq load and
// bq mk --schema.
func SchemaJSON(t TableDef) (string, error) {
	if len(t.Columns) == 0 {
		return "[]", nil
	}
	b, err := Schema(t).ToJSONFields()
	if err != nil {
		return "", fmt.Errorf("failed to encode schema for %s: %w", t.Name, err)
	}
	return string(b), nil
}
