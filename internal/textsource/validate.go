package textsource

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ValidateSchema checks that the schema has a flat "text" column. An "id"
// column is optional.
func ValidateSchema(schema *parquet.Schema) error {
	for _, field := range schema.Fields() {
		if strings.ToLower(field.Name()) != "text" {
			continue
		}
		if !field.Leaf() {
			return fmt.Errorf("column text must be a flat string column")
		}
		return nil
	}
	return fmt.Errorf("missing required column: text")
}
