package cdl

import (
	"fmt"
	"strings"
)

// Violation points at one failing location in a rejected document.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SchemaError reports every violation found while validating a document.
// Documents are never silently repaired; the caller gets the full list.
type SchemaError struct {
	Violations []Violation
}

// Error renders all violations, one per line.
func (e *SchemaError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "invalid CDL document"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid CDL document (%d violation", len(e.Violations))
	if len(e.Violations) > 1 {
		b.WriteString("s")
	}
	b.WriteString("):")
	for _, v := range e.Violations {
		fmt.Fprintf(&b, "\n  %s: %s", v.Path, v.Message)
	}
	return b.String()
}
