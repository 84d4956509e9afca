package excel

import (
	"fmt"
	"strings"
)

// MissingColumnError indicates required canonical fields could not be mapped
// from the uploaded workbook's headers. The whole upload is rejected.
type MissingColumnError struct {
	Fields []Field
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(names, ", "))
}

// NewMissingColumnError creates a MissingColumnError for the given fields
func NewMissingColumnError(fields ...Field) *MissingColumnError {
	return &MissingColumnError{Fields: fields}
}

// DuplicateColumnError indicates two source headers mapped to the same
// canonical field, making the upload ambiguous.
type DuplicateColumnError struct {
	Field   Field
	Headers []string
}

// Error implements the error interface
func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("columns %s both map to %q", strings.Join(e.Headers, " and "), e.Field)
}
