package document

import (
	"fmt"
	"strings"
)

// IOError reports a resource that could not be opened or read.
type IOError struct {
	Resource string
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %q: %v", e.Resource, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed document structure.
type ParseError struct {
	Resource string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("parsing document: %v", e.Err)
	}
	return fmt.Sprintf("parsing %q: %v", e.Resource, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a required field that is absent or has the wrong type
// or shape. Path is the dotted field path from the document root.
type SchemaError struct {
	Resource string
	Path     string
	Line     int // 0 when the field is absent
	Msg      string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	if e.Resource != "" {
		fmt.Fprintf(&b, "%s: ", e.Resource)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, "field %q", e.Path)
	} else {
		b.WriteString("document root")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	fmt.Fprintf(&b, ": %s", e.Msg)
	return b.String()
}

// UnsupportedVariantError reports a discriminator tag with no registered
// constructor.
type UnsupportedVariantError struct {
	Resource string
	Field    string
	Tag      string
}

func (e *UnsupportedVariantError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("unsupported %s %q", e.Field, e.Tag)
	}
	return fmt.Sprintf("%s: unsupported %s %q", e.Resource, e.Field, e.Tag)
}
