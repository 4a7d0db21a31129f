// Package schemaerrors provides structured error types for jsctools.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: JSON/YAML parsing failures and structural issues
//   - ReferenceError: $ref resolution failures, circular references
//   - SchemaStructureError: schema constructs the analyzer cannot model
//     (multi-base allOf, duplicate discriminators, required-field cycles)
//   - ConfigError: invalid or conflicting configuration
//   - MergeConflictError: regeneration merge failures
//   - WriteError: output write and atomic rename failures
//
// # Usage with errors.Is
//
//	ir, err := analyzer.Analyze(tree, cfg)
//	if err != nil {
//	    var refErr *schemaerrors.ReferenceError
//	    if errors.As(err, &refErr) {
//	        if refErr.IsCircular {
//	            // Handle circular reference specifically
//	        }
//	    }
//	}
package schemaerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrSchemaStructure indicates a schema construct the analyzer cannot model.
	ErrSchemaStructure = errors.New("schema structure error")

	// ErrDuplicateDiscriminator indicates two subclasses of one base carry
	// the same discriminator value.
	ErrDuplicateDiscriminator = errors.New("duplicate discriminator")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrMergeConflict indicates a regeneration merge failure.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrWrite indicates an output write failure.
	ErrWrite = errors.New("write error")
)

// ParseError represents a failure to parse a schema document.
// This includes JSON/YAML deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
// This includes dangling references and circular references.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// RefType indicates the reference type: "local" or "file"
	RefType string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// SchemaPath is the JSON path of the referencing node
	SchemaPath string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.SchemaPath != "" {
		msg += " at " + e.SchemaPath
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference when the circular
// flag is set. A dangling reference is also a schema structure failure,
// so ErrSchemaStructure matches too.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference || target == ErrSchemaStructure {
		return true
	}
	if target == ErrCircularReference && e.IsCircular {
		return true
	}
	return false
}

// SchemaStructureError represents a schema construct the analyzer cannot
// model: multi-base allOf composition, duplicate discriminator values, or
// an illegal required-field containment cycle.
type SchemaStructureError struct {
	// SchemaPath is the JSON path to the offending schema node
	SchemaPath string
	// Class is the class name involved, if known
	Class string
	// IsDuplicateDiscriminator is true for non-unique discriminator values
	IsDuplicateDiscriminator bool
	// Message describes the structural problem
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SchemaStructureError) Error() string {
	msg := "schema structure error"
	if e.IsDuplicateDiscriminator {
		msg = "duplicate discriminator"
	}
	if e.SchemaPath != "" {
		msg += " at " + e.SchemaPath
	}
	if e.Class != "" {
		msg += " (class " + e.Class + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SchemaStructureError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SchemaStructureError) Is(target error) bool {
	if target == ErrSchemaStructure {
		return true
	}
	if target == ErrDuplicateDiscriminator && e.IsDuplicateDiscriminator {
		return true
	}
	return false
}

// ConfigError represents an invalid configuration or input.
// This includes excluded-but-referenced classes, conflicting options,
// and ambiguous discriminator candidates.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// MergeConflictError represents a regeneration merge failure: an orphaned
// member under the error strategy, an unparsable existing file, or an
// ambiguous type alignment.
type MergeConflictError struct {
	// File is the existing file involved
	File string
	// TypeName is the generated type involved, if any
	TypeName string
	// Member is the orphaned member name, if any
	Member string
	// Line is the source line of the conflict (0 if unknown)
	Line int
	// Message describes the conflict
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MergeConflictError) Error() string {
	msg := "merge conflict"
	if e.File != "" {
		msg += " in " + e.File
	}
	if e.TypeName != "" {
		msg += ": type " + e.TypeName
	}
	if e.Member != "" {
		msg += ", member " + e.Member
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MergeConflictError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// WriteError represents an output write failure: an unwritable destination
// or a failed atomic rename. The destination file is never left truncated.
type WriteError struct {
	// Path is the destination path
	Path string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *WriteError) Error() string {
	msg := "write error"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}
