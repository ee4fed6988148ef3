// Package spatial exposes dialect functions on geometry-typed query
// expressions and on geometry values loaded from the database.
//
// Both sides dispatch through a dialect.Compiler, so lookup order is the
// same everywhere: the dialect chain, then the compiler's fallback set,
// then *dialect.AttributeError.
package spatial
