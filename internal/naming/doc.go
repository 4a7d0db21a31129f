// Package naming provides shared case conversion utilities for jsctools packages.
//
// This internal package contains common string transformation functions used
// by the analyzer and the Go backend. Functions include ToPascalCase,
// ToCamelCase, ToSnakeCase, EscapeReserved, and ToEnumMember.
//
// These functions are used for:
//   - Analyzer: definition and inline class naming, collision resolution
//   - Go backend: field, enum member, and discriminator constant naming
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
