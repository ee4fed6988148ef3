// Package schema runs the spatial column lifecycle hooks: registering a
// geometry column (and building its spatial index) after the column is
// created, and tearing both down before it is dropped.
//
// Each hook queries the connection's server version, computes the dialect's
// capabilities for that connection, plans the statements, and executes them
// in order. The first failing statement stops the sequence; nothing is
// retried or rolled back. Statements run directly on the connection, outside
// any transaction the caller may hold, and each one commits on its own.
package schema
