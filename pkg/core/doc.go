// Package core defines the shared language of the LeapGeo system.
//
// This package contains:
//   - The SQL expression tree handed to and returned from spatial rewrites
//   - Spatial column descriptors and the lifecycle statements planned for them
//   - Server version parsing
//   - Configuration types (IdentifierConfig, AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
